package options

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/quasar/mclauncher/internal/auth"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	s := NewStore(t.TempDir())
	o, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Version.BuildID != -1 {
		t.Errorf("expected default buildId -1, got %d", o.Version.BuildID)
	}
	if o.Start.MemoryMiB != 2048 {
		t.Errorf("expected default memory 2048, got %d", o.Start.MemoryMiB)
	}
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	s := NewStore(t.TempDir())
	o := Default()
	o.Start.Account = auth.Account{Kind: auth.KindOffline, Offline: auth.OfflineAccount{Name: "Steve", UUID: "abc"}}
	o.Version.BuildID = 42
	o.Version.Options["vanilla"] = BranchOptions{ModStates: map[string]bool{"foo": true}}

	if err := s.Store(o); err != nil {
		t.Fatalf("Store: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version.BuildID != 42 {
		t.Errorf("expected buildId 42, got %d", loaded.Version.BuildID)
	}
	if loaded.Start.Account.Offline.Name != "Steve" {
		t.Errorf("expected offline account name Steve, got %q", loaded.Start.Account.Offline.Name)
	}
	if !loaded.Version.Options["vanilla"].ModStates["foo"] {
		t.Errorf("expected mod state foo=true to survive round trip")
	}
}

func TestStoreWritesAtomicallyViaRename(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Store(Default()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "options.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be renamed away, got err=%v", err)
	}
}

func TestLoadFallsBackToLegacyShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.json")
	legacy := map[string]any{
		"account":    map[string]any{"type": "Offline", "offline": map[string]any{"name": "Alex", "uuid": "xyz"}},
		"dataPath":   "/custom/data",
		"memory":     4096,
		"buildId":    7,
		"branchName": "fabric",
	}
	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write legacy fixture: %v", err)
	}

	s := NewStore(dir)
	o, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if o.Start.CustomDataPath != "/custom/data" {
		t.Errorf("expected migrated customDataPath, got %q", o.Start.CustomDataPath)
	}
	if o.Start.MemoryMiB != 4096 {
		t.Errorf("expected migrated memory 4096, got %d", o.Start.MemoryMiB)
	}
	if o.Version.BuildID != 7 {
		t.Errorf("expected migrated buildId 7, got %d", o.Version.BuildID)
	}
	if o.Version.BranchName != "fabric" {
		t.Errorf("expected migrated branchName fabric, got %q", o.Version.BranchName)
	}
	if o.Start.Account.Offline.Name != "Alex" {
		t.Errorf("expected migrated account name Alex, got %q", o.Start.Account.Offline.Name)
	}
}
