package manifest

import (
	"fmt"
	"strings"
)

// Identifier returns the library-merge identity for a Maven coordinate:
// "group:artifact" for a 3-part coordinate, "group:artifact:classifier"
// for a 4-part one (group:artifact:version:classifier).
func Identifier(coord string) (string, error) {
	parts := strings.Split(coord, ":")
	switch len(parts) {
	case 3:
		return parts[0] + ":" + parts[1], nil
	case 4:
		return parts[0] + ":" + parts[1] + ":" + parts[3], nil
	default:
		return "", fmt.Errorf("%w: malformed maven coordinate %q", ErrInvalidVersionProfile, coord)
	}
}

// MavenPath derives the on-disk path for a Maven coordinate:
// "net.fabricmc:fabric-loader:0.14.22" ->
// "net/fabricmc/fabric-loader/0.14.22/fabric-loader-0.14.22.jar".
// A 4-part coordinate appends "-<classifier>" before the extension.
func MavenPath(coord string) (string, error) {
	parts := strings.Split(coord, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return "", fmt.Errorf("%w: malformed maven coordinate %q", ErrInvalidVersionProfile, coord)
	}

	group := strings.ReplaceAll(parts[0], ".", "/")
	artifact, version := parts[1], parts[2]

	fileName := fmt.Sprintf("%s-%s", artifact, version)
	if len(parts) == 4 {
		fileName += "-" + parts[3]
	}
	fileName += ".jar"

	return fmt.Sprintf("%s/%s/%s/%s", group, artifact, version, fileName), nil
}
