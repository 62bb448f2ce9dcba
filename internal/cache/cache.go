// Package cache defines the content-addressed directory layout shared by
// every download-consuming stage of the pipeline, and implements clearing
// it on request.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Root is the data directory all cache paths are rooted under.
type Root struct {
	Path string
}

// NewRoot wraps a data directory path. The directory need not exist yet.
func NewRoot(path string) Root { return Root{Path: path} }

func (r Root) join(parts ...string) string {
	return filepath.Join(append([]string{r.Path}, parts...)...)
}

// AssetIndexPath is assets/indexes/<id>.json.
func (r Root) AssetIndexPath(id string) string {
	return r.join("assets", "indexes", id+".json")
}

// AssetObjectPath is assets/objects/<xx>/<hash>.
func (r Root) AssetObjectPath(hash string) (string, error) {
	if len(hash) < 2 {
		return "", fmt.Errorf("asset hash %q too short", hash)
	}
	return r.join("assets", "objects", hash[:2], hash), nil
}

// LibraryPath is libraries/<maven-path>.
func (r Root) LibraryPath(mavenPath string) string {
	return r.join("libraries", filepath.FromSlash(mavenPath))
}

// LibrarySHA1SidecarPath is the cached upstream `.sha1` sidecar for a
// library that declares no checksum of its own.
func (r Root) LibrarySHA1SidecarPath(mavenPath string) string {
	return r.LibraryPath(mavenPath) + ".sha1"
}

// VersionJarPath is versions/<id>/<id>.jar.
func (r Root) VersionJarPath(versionID string) string {
	return r.join("versions", versionID, versionID+".jar")
}

// VersionDir is versions/<id>/.
func (r Root) VersionDir(versionID string) string {
	return r.join("versions", versionID)
}

// NativesDir is versions/<id>/natives/, extracted fresh per launch.
func (r Root) NativesDir(versionID string) string {
	return r.join("versions", versionID, "natives")
}

// RuntimeDir is runtimes/<jreVersion>/.
func (r Root) RuntimeDir(jreVersion string) string {
	return r.join("runtimes", jreVersion)
}

// ModCachePath is mod_cache/<path>, where path is either a Maven path or a
// bare artifact file name depending on the mod source.
func (r Root) ModCachePath(path string) string {
	return r.join("mod_cache", filepath.FromSlash(path))
}

// CustomModsDir is custom_mods/<branch>-<mcVersion>/.
func (r Root) CustomModsDir(branch, mcVersion string) string {
	return r.join("custom_mods", branch+"-"+mcVersion)
}

// GameModsDir is gameDir/<branch>/mods/, wiped and refilled each launch.
func (r Root) GameModsDir(branch string) string {
	return r.join("gameDir", branch, "mods")
}

// GameDir is gameDir/<branch>/.
func (r Root) GameDir(branch string) string {
	return r.join("gameDir", branch)
}

// ClearGameMods removes every regular file directly inside the branch's
// mods directory, keeping the directory itself (and any subdirectories).
func (r Root) ClearGameMods(branch string) error {
	dir := r.GameModsDir(branch)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

// clearedSubdirs are the top-level directories clear_data removes, per §6.
var clearedSubdirs = []string{
	"assets", "gameDir", "libraries", "mod_cache", "natives", "runtimes", "versions",
}

// ClearData removes every cache subdirectory under the root. No path
// outside the root is ever touched.
func (r Root) ClearData() error {
	for _, sub := range clearedSubdirs {
		target := r.join(sub)
		if !strings.HasPrefix(target, filepath.Clean(r.Path)+string(os.PathSeparator)) {
			return fmt.Errorf("refusing to clear %s: escapes data root", target)
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("remove %s: %w", target, err)
		}
	}
	return nil
}

// EnsureDirs creates the directories every pipeline stage assumes exist.
func (r Root) EnsureDirs(versionID, branch string) error {
	dirs := []string{
		r.join("runtimes"),
		r.VersionDir(versionID),
		r.NativesDir(versionID),
		r.join("libraries"),
		r.join("assets", "indexes"),
		r.join("assets", "objects"),
		r.GameDir(branch),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", d, err)
		}
	}
	return nil
}
