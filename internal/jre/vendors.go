package jre

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/quasar/mclauncher/internal/platform"
)

// resolveURL composes the vendor-specific download URL for a distribution,
// parameterized by (os, arch, archive type, version), per §4.7.
func resolveURL(dist Distribution, info platform.Info, requiredMajor int) (string, error) {
	archiveType, err := info.ArchiveType()
	if err != nil {
		return "", err
	}

	switch dist {
	case Temurin:
		return temurinURL(info, archiveType, requiredMajor)
	case GraalVM:
		return graalURL(info, archiveType, requiredMajor)
	case OpenJDK:
		return openJDKURL(info, archiveType, requiredMajor)
	default:
		return "", fmt.Errorf("%w: unknown distribution %q", ErrDistributionUnsupported, dist)
	}
}

// temurinURL targets the Eclipse Adoptium v3 "latest binary" API, the same
// endpoint the Java downloader used for single-vendor resolution.
func temurinURL(info platform.Info, archiveType string, requiredMajor int) (string, error) {
	osName, err := info.AdoptiumOS()
	if err != nil {
		return "", err
	}
	arch, err := info.AdoptiumArch()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"https://api.adoptium.net/v3/binary/latest/%d/ga/%s/%s/jre/hotspot/normal/eclipse",
		requiredMajor, osName, arch,
	), nil
}

// graalURL targets the Oracle GraalVM CDN, whose releases are tagged by
// major Java version rather than an API lookup.
func graalURL(info platform.Info, archiveType string, requiredMajor int) (string, error) {
	osName, err := info.GraalName()
	if err != nil {
		return "", err
	}
	arch, err := info.AdoptiumArch()
	if err != nil {
		return "", err
	}
	if requiredMajor < 17 {
		return "", fmt.Errorf("%w: graalvm does not ship builds below java 17", ErrDistributionUnsupported)
	}
	return fmt.Sprintf(
		"https://download.oracle.com/graalvm/%d/latest/graalvm-jdk-%d_%s-%s_bin.%s",
		requiredMajor, requiredMajor, osName, arch, archiveType,
	), nil
}

// openJDKURL targets the Microsoft Build of OpenJDK CDN.
func openJDKURL(info platform.Info, archiveType string, requiredMajor int) (string, error) {
	osName, err := info.MicrosoftOpenJDKName()
	if err != nil {
		return "", err
	}
	arch, err := info.AdoptiumArch()
	if err != nil {
		return "", err
	}
	if requiredMajor != 8 && requiredMajor != 11 && requiredMajor != 17 && requiredMajor != 21 {
		return "", fmt.Errorf("%w: microsoft build of openjdk does not publish java %d", ErrDistributionUnsupported, requiredMajor)
	}
	return fmt.Sprintf(
		"https://aka.ms/download-jdk/microsoft-jdk-%d-%s-%s.%s",
		requiredMajor, osName, arch, archiveType,
	), nil
}

var versionDirPattern = regexp.MustCompile(`(\d+)(?:\.(\d+)(?:\.(\d+))?)?`)

// versionFromPath extracts a semantic version from the vendor directory
// name that sits two levels above the java binary (e.g. "jdk-17.0.9+9").
func versionFromPath(binPath string) *semver.Version {
	dir := filepath.Dir(binPath)
	for i := 0; i < 3 && dir != "." && dir != string(filepath.Separator); i++ {
		base := filepath.Base(dir)
		if m := versionDirPattern.FindString(base); m != "" {
			normalized := normalizeVersionString(m)
			if v, err := semver.NewVersion(normalized); err == nil {
				return v
			}
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func normalizeVersionString(s string) string {
	parts := strings.Split(s, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ".")
}
