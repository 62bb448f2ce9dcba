package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAssetObjectPath(t *testing.T) {
	r := NewRoot("/data")
	p, err := r.AssetObjectPath("abcdef123")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/data", "assets", "objects", "ab", "abcdef123")
	if p != want {
		t.Errorf("AssetObjectPath = %s, want %s", p, want)
	}
}

func TestAssetObjectPathTooShort(t *testing.T) {
	r := NewRoot("/data")
	if _, err := r.AssetObjectPath("a"); err == nil {
		t.Fatal("expected error for short hash")
	}
}

func TestClearGameModsKeepsSubdirsAndDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewRoot(dir)
	modsDir := r.GameModsDir("main")
	os.MkdirAll(filepath.Join(modsDir, "sub"), 0o755)
	os.WriteFile(filepath.Join(modsDir, "a.jar"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(modsDir, "sub", "b.jar"), []byte("y"), 0o644)

	if err := r.ClearGameMods("main"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(modsDir, "a.jar")); !os.IsNotExist(err) {
		t.Error("top-level mod file was not removed")
	}
	if _, err := os.Stat(filepath.Join(modsDir, "sub")); err != nil {
		t.Error("subdirectory should survive clear")
	}
}

func TestClearDataStaysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	r := NewRoot(dir)
	os.MkdirAll(r.join("libraries", "foo"), 0o755)
	if err := r.ClearData(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(r.join("libraries")); !os.IsNotExist(err) {
		t.Error("libraries should be removed")
	}
}
