// Package mods resolves and installs a LaunchManifest's mod list into a
// build's game directory, per the ad-skip / repository / local source
// distinctions (§4.12).
package mods

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quasar/mclauncher/internal/manifest"
)

// ErrSkipFileUnresolved is returned when no resolve_skip_file resolver is
// configured for a premium account, or the call fails or doesn't carry a
// direct_url.
var ErrSkipFileUnresolved = errors.New("skip-ad file could not be resolved via premium account")

// ErrWebviewURLMissing is returned when no webview resolver is configured,
// or the ad-skip webview fails or closes without emitting a download URL.
var ErrWebviewURLMissing = errors.New("skip-ad webview closed without resolving a download url")

// SourceKind discriminates a LoaderMod's source variant.
type SourceKind int

const (
	SourceSkipAd SourceKind = iota
	SourceRepository
	SourceLocal
)

// String returns the wire discriminator for k ("SkipAd"/"Repository"/"Local").
func (k SourceKind) String() string {
	switch k {
	case SourceSkipAd:
		return "SkipAd"
	case SourceRepository:
		return "Repository"
	case SourceLocal:
		return "Local"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// MarshalJSON encodes k as its wire discriminator string, per spec.md §9's
// `type`-discriminator wire format for ModSource.
func (k SourceKind) MarshalJSON() ([]byte, error) {
	switch k {
	case SourceSkipAd, SourceRepository, SourceLocal:
		return json.Marshal(k.String())
	default:
		return nil, fmt.Errorf("unknown mod source kind %d", int(k))
	}
}

// UnmarshalJSON decodes a SourceKind from its wire discriminator string.
func (k *SourceKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "SkipAd":
		*k = SourceSkipAd
	case "Repository":
		*k = SourceRepository
	case "Local":
		*k = SourceLocal
	default:
		return fmt.Errorf("unknown mod source type %q", s)
	}
	return nil
}

// Source is the tagged variant backing a mod's download origin.
type Source struct {
	Kind SourceKind `json:"type"`

	// SkipAd
	ArtifactName string `json:"artifactName,omitempty"`
	AdURL        string `json:"adUrl,omitempty"`
	Extract      bool   `json:"extract,omitempty"`

	// Repository
	Repository string `json:"repository,omitempty"`
	Artifact   string `json:"artifact,omitempty"` // Maven coordinate

	// Local
	FileName string `json:"fileName,omitempty"`
}

// Path is the cache-relative path for this source, per §4.12: the artifact
// name for SkipAd, the Maven path for Repository, or the file name for
// Local.
func (s Source) Path() (string, error) {
	switch s.Kind {
	case SourceSkipAd:
		return s.ArtifactName + ".jar", nil
	case SourceRepository:
		return manifest.MavenPath(s.Artifact)
	case SourceLocal:
		return s.FileName, nil
	default:
		return "", fmt.Errorf("unknown mod source kind %d", s.Kind)
	}
}

// LoaderMod is one entry in a LaunchManifest's mod list.
type LoaderMod struct {
	Required bool   `json:"required"`
	Enabled  bool   `json:"enabled"`
	Name     string `json:"name"`
	Source   Source `json:"source"`
}

// ShouldInstall reports whether m should be installed at all, per §4.12's
// first rule ("if not required and not enabled, skip").
func (m LoaderMod) ShouldInstall() bool {
	return m.Required || m.Enabled
}

// Repositories maps a named repository (as referenced by Source.Repository)
// to its base URL.
type Repositories map[string]string
