// Package launcher implements §4.13: directory preparation, JRE/client-jar/
// libraries/assets resolution, argument synthesis, and child-process spawn.
package launcher

import "github.com/quasar/mclauncher/internal/jre"

// Identity carries the fields an authenticated account contributes to
// argument synthesis, independent of which Account variant produced them.
type Identity struct {
	PlayerName  string
	PlayerUUID  string
	AccessToken string
	XUID        string
	ClientID    string
	UserType    string
}

// StartParameter mirrors spec.md §3's in-memory launch inputs not already
// carried by the LaunchManifest/VersionProfile.
type StartParameter struct {
	MemoryMiB          int
	JVMExtra           []string
	Identity           Identity
	KeepLauncherOpen   bool
	ConcurrentDownload int
	JRESelection       jre.Selection
	Features           map[string]bool
}
