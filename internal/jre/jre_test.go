package jre

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quasar/mclauncher/internal/platform"
)

func TestLocateBinaryLinux(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "jdk-17.0.9+9", "bin")
	os.MkdirAll(binDir, 0o755)
	javaPath := filepath.Join(binDir, "java")
	os.WriteFile(javaPath, []byte{}, 0o755)

	got, err := LocateBinary(dir, platform.Info{Family: platform.Linux})
	if err != nil {
		t.Fatal(err)
	}
	if got != javaPath {
		t.Errorf("LocateBinary = %s, want %s", got, javaPath)
	}
}

func TestLocateBinaryMacOS(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "graalvm-jdk-21", "Contents", "Home", "bin")
	os.MkdirAll(binDir, 0o755)
	javaPath := filepath.Join(binDir, "java")
	os.WriteFile(javaPath, []byte{}, 0o755)

	got, err := LocateBinary(dir, platform.Info{Family: platform.OSX})
	if err != nil {
		t.Fatal(err)
	}
	if got != javaPath {
		t.Errorf("LocateBinary = %s, want %s", got, javaPath)
	}
}

func TestLocateBinaryNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := LocateBinary(dir, platform.Info{Family: platform.Linux}); err != ErrBinaryNotFound {
		t.Errorf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestResolveCustomShortCircuits(t *testing.T) {
	r := &Resolver{Info: platform.Info{Family: platform.Linux}}
	got, err := r.Resolve(Selection{Mode: Custom, CustomPath: "/opt/java/bin/java"}, 17, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/opt/java/bin/java" {
		t.Errorf("Resolve(Custom) = %s", got)
	}
}

func TestTemurinURLContainsVersionAndArch(t *testing.T) {
	url, err := temurinURL(platform.Info{Family: platform.Linux, Arch: "amd64"}, "tar.gz", 17)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(url, "17") || !contains(url, "x64") || !contains(url, "linux") {
		t.Errorf("unexpected temurin url: %s", url)
	}
}

func TestOpenJDKRejectsUnpublishedVersion(t *testing.T) {
	_, err := openJDKURL(platform.Info{Family: platform.Windows, Arch: "amd64"}, "zip", 19)
	if err == nil {
		t.Error("expected unsupported-version error")
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
