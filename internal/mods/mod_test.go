package mods

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/quasar/mclauncher/internal/cache"
)

func TestSourceKindMarshalsAsTypeDiscriminator(t *testing.T) {
	cases := []struct {
		kind SourceKind
		want string
	}{
		{SourceSkipAd, `"SkipAd"`},
		{SourceRepository, `"Repository"`},
		{SourceLocal, `"Local"`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(Source{Kind: tc.kind})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded map[string]json.RawMessage
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal into map: %v", err)
		}
		if string(decoded["type"]) != tc.want {
			t.Errorf("expected type %s, got %s (full: %s)", tc.want, decoded["type"], data)
		}

		var roundTripped Source
		if err := json.Unmarshal(data, &roundTripped); err != nil {
			t.Fatalf("round-trip unmarshal: %v", err)
		}
		if roundTripped.Kind != tc.kind {
			t.Errorf("expected round-tripped kind %v, got %v", tc.kind, roundTripped.Kind)
		}
	}
}

func TestSourceKindUnmarshalRejectsUnknownType(t *testing.T) {
	var s Source
	err := json.Unmarshal([]byte(`{"type":"Bogus"}`), &s)
	if err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestSourcePathVariants(t *testing.T) {
	cases := []struct {
		name string
		src  Source
		want string
	}{
		{"skipad", Source{Kind: SourceSkipAd, ArtifactName: "sodium"}, "sodium.jar"},
		{"repository", Source{Kind: SourceRepository, Artifact: "net.fabricmc:fabric-loader:0.14.22"}, "net/fabricmc/fabric-loader/0.14.22/fabric-loader-0.14.22.jar"},
		{"local", Source{Kind: SourceLocal, FileName: "mymod.jar"}, "mymod.jar"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.src.Path()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestShouldInstall(t *testing.T) {
	if (LoaderMod{Required: false, Enabled: false}).ShouldInstall() {
		t.Error("expected not-required-not-enabled mod to be skipped")
	}
	if !(LoaderMod{Required: true}).ShouldInstall() {
		t.Error("expected required mod to install")
	}
	if !(LoaderMod{Enabled: true}).ShouldInstall() {
		t.Error("expected enabled mod to install")
	}
}

func TestInstallSkipsDisabledOptionalMod(t *testing.T) {
	root := cache.NewRoot(t.TempDir())
	in := &Installer{Cache: root}
	err := in.Install(LoaderMod{Name: "optional-mod"}, "vanilla", "1.20.1", nil, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInstallLocalMissingLogsAndContinues(t *testing.T) {
	root := cache.NewRoot(t.TempDir())
	in := &Installer{Cache: root}
	m := LoaderMod{Required: true, Name: "custom", Source: Source{Kind: SourceLocal, FileName: "missing.jar"}}
	if err := in.Install(m, "vanilla", "1.20.1", nil, nil, false); err != nil {
		t.Fatalf("missing local mod should be skipped, not error: %v", err)
	}
}

func TestInstallLocalCopiesIntoModsDir(t *testing.T) {
	dir := t.TempDir()
	root := cache.NewRoot(dir)
	in := &Installer{Cache: root}

	customDir := root.CustomModsDir("vanilla", "1.20.1")
	if err := os.MkdirAll(customDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(customDir, "custom.jar"), []byte("jar-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := LoaderMod{Required: true, Name: "MyCustomMod", Source: Source{Kind: SourceLocal, FileName: "custom.jar"}}
	if err := in.Install(m, "vanilla", "1.20.1", nil, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root.GameModsDir("vanilla"), "MyCustomMod.jar"))
	if err != nil {
		t.Fatalf("expected mod copied into game mods dir: %v", err)
	}
	if string(data) != "jar-bytes" {
		t.Errorf("got %q", data)
	}
}

func TestInstallRepositoryUnknownRepoFails(t *testing.T) {
	root := cache.NewRoot(t.TempDir())
	in := &Installer{Cache: root}
	m := LoaderMod{Required: true, Name: "lib", Source: Source{Kind: SourceRepository, Repository: "maven-central", Artifact: "a:b:1"}}
	err := in.Install(m, "vanilla", "1.20.1", Repositories{}, nil, false)
	if err == nil {
		t.Fatal("expected error for unknown repository")
	}
}

func TestInstallSkipAdWithoutPremiumRequiresWebview(t *testing.T) {
	root := cache.NewRoot(t.TempDir())
	in := &Installer{Cache: root}
	m := LoaderMod{Required: true, Name: "sodium", Source: Source{Kind: SourceSkipAd, ArtifactName: "sodium", AdURL: "https://ads.example.com/page/123"}}
	err := in.Install(m, "vanilla", "1.20.1", nil, nil, false)
	if err == nil {
		t.Fatal("expected ErrWebviewURLMissing when no webview resolver is configured")
	}
}
