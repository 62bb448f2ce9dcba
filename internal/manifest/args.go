package manifest

import (
	"fmt"
	"strings"

	"github.com/quasar/mclauncher/internal/platform"
	"github.com/quasar/mclauncher/internal/rules"
)

// Params supplies every value the template engine may be asked to
// substitute, keyed by the `${name}` tokens listed in SupportedParameters.
type Params struct {
	AuthPlayerName   string
	VersionName      string
	GameDirectory    string
	AssetsRoot       string
	AssetsIndexName  string
	AuthUUID         string
	AuthAccessToken  string
	UserType         string
	VersionType      string
	NativesDirectory string
	LauncherName     string
	LauncherVersion  string
	Classpath        string
	ClientID         string
	AuthXUID         string

	MemoryMiB int
	JVMExtra  []string
}

func (p Params) asMap() map[string]string {
	return map[string]string{
		"auth_player_name":  p.AuthPlayerName,
		"version_name":      p.VersionName,
		"game_directory":    p.GameDirectory,
		"assets_root":       p.AssetsRoot,
		"assets_index_name": p.AssetsIndexName,
		"auth_uuid":         p.AuthUUID,
		"auth_access_token": p.AuthAccessToken,
		"user_type":         p.UserType,
		"version_type":      p.VersionType,
		"natives_directory": p.NativesDirectory,
		"launcher_name":     p.LauncherName,
		"launcher_version":  p.LauncherVersion,
		"classpath":         p.Classpath,
		"user_properties":   "{}",
		"clientid":          p.ClientID,
		"auth_xuid":         p.AuthXUID,
	}
}

// fixedJVMFlags are always prepended, independent of argument shape.
func fixedJVMFlags(memoryMiB int) []string {
	return []string{
		fmt.Sprintf("-Xmx%dM", memoryMiB),
		"-XX:+UnlockExperimentalVMOptions",
		"-XX:+UseG1GC",
		"-XX:G1NewSizePercent=20",
		"-XX:G1ReservePercent=20",
		"-XX:MaxGCPauseMillis=50",
		"-XX:G1HeapRegionSize=32M",
	}
}

// BuildArguments synthesizes the full child argv: fixed JVM flags, the
// profile's own JVM arguments (V14's -cp/-Djava.library.path pair or V21's
// rule-guarded vector), JVM extras from the start parameter, the main
// class, then game arguments.
func BuildArguments(p *VersionProfile, params Params, info platform.Info, features map[string]bool) ([]string, error) {
	out := fixedJVMFlags(params.MemoryMiB)
	paramMap := params.asMap()

	switch {
	case p.IsV21():
		jvmArgs, err := substituteGuarded(p.Arguments.JVM, paramMap, info, features)
		if err != nil {
			return nil, err
		}
		out = append(out, jvmArgs...)
	default:
		libPath, err := Substitute("-Djava.library.path=${natives_directory}", paramMap)
		if err != nil {
			return nil, err
		}
		cp, err := Substitute("${classpath}", paramMap)
		if err != nil {
			return nil, err
		}
		out = append(out, libPath, "-cp", cp)
	}

	out = append(out, params.JVMExtra...)
	out = append(out, p.MainClass)

	switch {
	case p.IsV21():
		gameArgs, err := substituteGuarded(p.Arguments.Game, paramMap, info, features)
		if err != nil {
			return nil, err
		}
		out = append(out, gameArgs...)
	default:
		for _, token := range strings.Fields(p.MinecraftArguments) {
			sub, err := Substitute(token, paramMap)
			if err != nil {
				return nil, err
			}
			out = append(out, sub)
		}
	}

	return out, nil
}

func substituteGuarded(elements []ArgElement, params map[string]string, info platform.Info, features map[string]bool) ([]string, error) {
	var out []string
	for _, el := range elements {
		allowed, err := rules.Check(el.Rules, info, features)
		if err != nil {
			return nil, err
		}
		if !allowed {
			continue
		}
		for _, v := range el.Values {
			sub, err := Substitute(v, params)
			if err != nil {
				return nil, err
			}
			out = append(out, sub)
		}
	}
	return out, nil
}
