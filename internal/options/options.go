// Package options persists the launcher's user-facing settings
// (options.json, §6): chosen account, data paths, JVM/memory preferences,
// per-branch mod toggles, and the premium identity. Store writes are
// atomic (temp file + rename), matching the teacher's download-manager
// write pattern.
package options

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/jre"
)

// BranchOptions holds per-branch mod toggle state.
type BranchOptions struct {
	ModStates       map[string]bool `json:"modStates"`
	CustomModStates map[string]bool `json:"customModStates"`
}

// Start carries the launch-time account/runtime preferences.
type Start struct {
	Account          auth.Account    `json:"account"`
	CustomDataPath   string          `json:"customDataPath"`
	JavaDistribution jre.Distribution `json:"javaDistribution"`
	JVMArgs          []string        `json:"jvmArgs,omitempty"`
	MemoryMiB        int             `json:"memory"`
}

// Version carries the selected build and per-branch mod state.
type Version struct {
	BranchName string                   `json:"branchName,omitempty"`
	BuildID    int                      `json:"buildId"`
	Options    map[string]BranchOptions `json:"options"`
}

// LauncherPrefs carries launcher-wide UI/concurrency preferences.
type LauncherPrefs struct {
	ShowNightlyBuilds  bool `json:"showNightlyBuilds"`
	ConcurrentDownload int  `json:"concurrentDownloads"`
	KeepLauncherOpen   bool `json:"keepLauncherOpen"`
}

// Premium carries the launcher's own identity-service token and the
// mod-ad-skip preference it unlocks.
type Premium struct {
	Account           auth.ClientAccount `json:"account"`
	SkipAdvertisement bool               `json:"skipAdvertisement"`
}

// Options is the full persisted shape of options.json.
type Options struct {
	Start    Start         `json:"start"`
	Version  Version       `json:"version"`
	Launcher LauncherPrefs `json:"launcher"`
	Premium  Premium       `json:"premium"`
}

// Default returns the options a fresh install starts with: no account, no
// build pinned (-1 = newest), 2 GiB of heap, three concurrent downloads.
func Default() Options {
	return Options{
		Start: Start{
			JavaDistribution: jre.Temurin,
			MemoryMiB:        2048,
		},
		Version: Version{
			BuildID: -1,
			Options: map[string]BranchOptions{},
		},
		Launcher: LauncherPrefs{
			ConcurrentDownload: 3,
		},
	}
}

// legacyOptions is the flat shape older saved files used, accepted when the
// file lacks the current shape's top-level "start" or "version" key.
type legacyOptions struct {
	Account            auth.Account    `json:"account"`
	DataPath           string          `json:"dataPath"`
	JavaDistribution   jre.Distribution `json:"javaDistribution"`
	JVMArgs            []string        `json:"jvmArgs,omitempty"`
	Memory             int             `json:"memory"`
	BranchName         string          `json:"branchName,omitempty"`
	BuildID            int             `json:"buildId"`
	ShowNightlyBuilds  bool            `json:"showNightlyBuilds"`
	ConcurrentDownload int             `json:"concurrentDownloads"`
	KeepLauncherOpen   bool            `json:"keepLauncherOpen"`
}

func (l legacyOptions) migrate() Options {
	o := Default()
	o.Start.Account = l.Account
	o.Start.CustomDataPath = l.DataPath
	if l.JavaDistribution != "" {
		o.Start.JavaDistribution = l.JavaDistribution
	}
	o.Start.JVMArgs = l.JVMArgs
	if l.Memory != 0 {
		o.Start.MemoryMiB = l.Memory
	}
	o.Version.BranchName = l.BranchName
	o.Version.BuildID = l.BuildID
	o.Launcher.ShowNightlyBuilds = l.ShowNightlyBuilds
	if l.ConcurrentDownload != 0 {
		o.Launcher.ConcurrentDownload = l.ConcurrentDownload
	}
	o.Launcher.KeepLauncherOpen = l.KeepLauncherOpen
	return o
}

// Store reads and writes options.json under a configured directory.
type Store struct {
	Path string
}

// NewStore builds a Store rooted at dir/options.json.
func NewStore(dir string) Store {
	return Store{Path: filepath.Join(dir, "options.json")}
}

// Load reads options.json, returning Default() if the file does not yet
// exist. A file without both top-level "start" and "version" keys is read
// as the legacy flat shape and migrated; a file with both that fails to
// parse is an error, with no legacy fallback.
func (s Store) Load() (Options, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}

	// The current shape nests everything under "start"/"version"; a
	// legacy file is flat. Check shape before unmarshaling so a legacy
	// file doesn't silently parse into a zero-valued current Options.
	_, hasStart := probe["start"]
	_, hasVersion := probe["version"]
	if hasStart && hasVersion {
		var o Options
		if err := json.Unmarshal(data, &o); err != nil {
			return Options{}, fmt.Errorf("parse options: %w", err)
		}
		if o.Version.Options == nil {
			o.Version.Options = map[string]BranchOptions{}
		}
		return o, nil
	}

	var legacy legacyOptions
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Options{}, fmt.Errorf("parse legacy options: %w", err)
	}
	return legacy.migrate(), nil
}

// Store writes opts to disk atomically: write to a sibling temp file,
// then rename over the final path.
func (s Store) Store(opts Options) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create options directory: %w", err)
	}

	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write options temp file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("commit options file: %w", err)
	}
	return nil
}
