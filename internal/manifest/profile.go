// Package manifest models the upstream Minecraft version.json in both its
// V14 (flat minecraftArguments string) and V21 (structured, rule-guarded
// game/jvm argument vectors) shapes, and implements the merge rules that
// let a modded build's child profile inherit from vanilla.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/quasar/mclauncher/internal/rules"
)

// Artifact is a single downloadable file with its expected SHA-1.
type Artifact struct {
	Path string `json:"path,omitempty"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url"`
}

// LibraryDownloads carries a library's classpath artifact and its
// platform-keyed native classifiers.
type LibraryDownloads struct {
	Artifact    *Artifact           `json:"artifact,omitempty"`
	Classifiers map[string]Artifact `json:"classifiers,omitempty"`
}

// Library is a single Maven-addressed dependency, optionally contributing
// platform-native code instead of (or in addition to) a classpath jar.
type Library struct {
	Name     string            `json:"name"`
	Downloads LibraryDownloads `json:"downloads,omitempty"`
	Natives  map[string]string `json:"natives,omitempty"`
	Rules    []rules.Rule      `json:"rules,omitempty"`
	URL      string            `json:"url,omitempty"`
}

// AssetIndexRef points at the asset index document for a version.
type AssetIndexRef struct {
	ID        string `json:"id"`
	SHA1      string `json:"sha1,omitempty"`
	Size      int64  `json:"size,omitempty"`
	TotalSize int64  `json:"totalSize,omitempty"`
	URL       string `json:"url"`
}

// Downloads is the version's own top-level jar downloads.
type Downloads struct {
	Client         *Artifact `json:"client,omitempty"`
	ClientMappings *Artifact `json:"client_mappings,omitempty"`
	Server         *Artifact `json:"server,omitempty"`
	ServerMappings *Artifact `json:"server_mappings,omitempty"`
}

// JavaVersionReq names the runtime component/version a profile requires.
type JavaVersionReq struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion,omitempty"`
}

// ArgElement is one entry of a V21 argument vector: either an unconditional
// value or a rule-guarded one. `Values` supports the JSON shape where
// `value` is a single string or an array of strings.
type ArgElement struct {
	Rules  []rules.Rule
	Values []string
}

// UnmarshalJSON accepts either a bare string or `{rules, value}`.
func (a *ArgElement) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		a.Values = []string{plain}
		return nil
	}

	var guarded struct {
		Rules []rules.Rule    `json:"rules"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &guarded); err != nil {
		return fmt.Errorf("decode argument element: %w", err)
	}
	a.Rules = guarded.Rules

	var single string
	if err := json.Unmarshal(guarded.Value, &single); err == nil {
		a.Values = []string{single}
		return nil
	}
	var multi []string
	if err := json.Unmarshal(guarded.Value, &multi); err != nil {
		return fmt.Errorf("decode argument value: %w", err)
	}
	a.Values = multi
	return nil
}

// MarshalJSON round-trips unconditional single-value elements as a bare
// string, matching upstream's own shape, and guarded elements as an object.
func (a ArgElement) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Values) == 1 {
		return json.Marshal(a.Values[0])
	}
	var value any
	if len(a.Values) == 1 {
		value = a.Values[0]
	} else {
		value = a.Values
	}
	return json.Marshal(struct {
		Rules []rules.Rule `json:"rules,omitempty"`
		Value any          `json:"value"`
	}{a.Rules, value})
}

// Arguments is the V21 structured argument declaration.
type Arguments struct {
	Game []ArgElement `json:"game,omitempty"`
	JVM  []ArgElement `json:"jvm,omitempty"`
}

// VersionProfile mirrors upstream version.json, tolerant of both the V14
// and V21 argument-declaration shapes.
type VersionProfile struct {
	ID                 string          `json:"id"`
	InheritsFrom        string          `json:"inheritsFrom,omitempty"`
	AssetIndex          *AssetIndexRef  `json:"assetIndex,omitempty"`
	Assets             string          `json:"assets,omitempty"`
	Downloads          Downloads       `json:"downloads,omitempty"`
	Libraries          []Library       `json:"libraries,omitempty"`
	MainClass          string          `json:"mainClass,omitempty"`
	MinecraftArguments string          `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments      `json:"arguments,omitempty"`
	JavaVersion        *JavaVersionReq `json:"javaVersion,omitempty"`
}

// Decode parses a version.json document. The untagged V14/V21 argument
// shape is resolved entirely by which of MinecraftArguments/Arguments is
// present after a plain json.Unmarshal.
func Decode(data []byte) (*VersionProfile, error) {
	var p VersionProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVersionProfile, err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidVersionProfile)
	}
	return &p, nil
}

// IsV21 reports whether the profile uses the structured argument shape.
func (p *VersionProfile) IsV21() bool { return p.Arguments != nil }

// IsV14 reports whether the profile uses the flat argument-string shape.
func (p *VersionProfile) IsV14() bool { return p.MinecraftArguments != "" }
