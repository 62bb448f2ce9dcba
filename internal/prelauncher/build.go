// Package prelauncher implements the top-level pipeline (§4.11): resolve
// the upstream Minecraft manifest, install mods, compose and load the
// subsystem's VersionProfile, merge it against its inherited parent, and
// hand off to the launcher.
package prelauncher

import (
	"strings"
	"time"

	"github.com/quasar/mclauncher/internal/mods"
)

// Subsystem identifies the mod-loader backing a Build.
type Subsystem string

const (
	SubsystemFabric Subsystem = "fabric"
	SubsystemForge  Subsystem = "forge"
)

// Build identifies one distributable client configuration, sourced
// immutable from the upstream launcher API.
type Build struct {
	BuildID           int       `json:"buildId"`
	Branch            string    `json:"branch"`
	CommitID          string    `json:"commitId"`
	MinecraftVersion  string    `json:"minecraftVersion"`
	RequiredJavaMajor int       `json:"requiredJavaMajor"`
	JREDistribution   string    `json:"jreDistribution"`
	Subsystem         Subsystem `json:"subsystem"`
	LoaderVersion     string    `json:"loaderVersion"`
	APIVersion        string    `json:"apiVersion"`
	Release           bool      `json:"release"`
	Timestamp         time.Time `json:"timestamp"`
}

// LaunchManifest is a Build plus its loader-subsystem descriptor and mod
// list, as returned by the upstream API for a selected build.
type LaunchManifest struct {
	Build Build `json:"build"`

	// ManifestURLTemplate is the subsystem's VersionProfile URL: for Fabric
	// it contains {MINECRAFT_VERSION} and {FABRIC_LOADER_VERSION}
	// placeholders; for Forge it is used verbatim.
	ManifestURLTemplate string `json:"manifestUrlTemplate"`
	ModDirName          string `json:"modDirName"`

	Mods         []mods.LoaderMod  `json:"mods"`
	Repositories mods.Repositories `json:"repositories"`
}

// ComposeManifestURL implements §4.11 step 7.
func (m LaunchManifest) ComposeManifestURL() string {
	if m.Build.Subsystem != SubsystemFabric {
		return m.ManifestURLTemplate
	}
	url := m.ManifestURLTemplate
	url = strings.ReplaceAll(url, "{MINECRAFT_VERSION}", m.Build.MinecraftVersion)
	url = strings.ReplaceAll(url, "{FABRIC_LOADER_VERSION}", m.Build.LoaderVersion)
	return url
}
