// Package jre resolves, downloads, and locates a Java runtime distribution
// suitable for launching a given Minecraft version.
package jre

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/quasar/mclauncher/internal/archive"
	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/platform"
)

// Distribution names a JRE vendor.
type Distribution string

const (
	Temurin Distribution = "temurin"
	GraalVM Distribution = "graalvm"
	OpenJDK Distribution = "openjdk"
)

// SelectionMode discriminates the StartParameter JRE selection variant.
type SelectionMode int

const (
	Automatic SelectionMode = iota
	Manual
	Custom
)

// Selection is the user's JRE preference: automatic distribution choice,
// an explicit distribution, or an absolute path that short-circuits
// resolution entirely.
type Selection struct {
	Mode         SelectionMode
	Distribution Distribution
	CustomPath   string
}

// ErrDistributionUnsupported is returned when a distribution cannot serve
// the required major version.
var ErrDistributionUnsupported = errors.New("jre distribution does not support the required version")

// ErrBinaryNotFound is returned when extraction succeeded but no java
// binary was found at the expected location.
var ErrBinaryNotFound = errors.New("java binary not found after extraction")

// Resolver resolves a runnable java binary path for a required major
// version, downloading and extracting a distribution if necessary.
type Resolver struct {
	HTTP  *httpx.Client
	Root  cache.Root
	Info  platform.Info
}

// ProgressFunc reports download progress for a single large file.
type ProgressFunc func(downloaded, total int64)

// Resolve implements §4.7: Custom short-circuits; an existing runtime is
// reused; otherwise the distribution's archive is downloaded, any stale
// runtime directory is cleared, the archive is extracted, and the binary
// is located.
func (r *Resolver) Resolve(sel Selection, requiredMajor int, onProgress ProgressFunc) (string, error) {
	if sel.Mode == Custom {
		return sel.CustomPath, nil
	}

	dist := sel.Distribution
	if sel.Mode == Automatic || dist == "" {
		dist = Temurin
	}

	version := fmt.Sprintf("%d", requiredMajor)
	runtimeDir := r.Root.RuntimeDir(version)

	if bin, err := LocateBinary(runtimeDir, r.Info); err == nil {
		if compatible(bin, requiredMajor) {
			return bin, nil
		}
	}

	url, err := resolveURL(dist, r.Info, requiredMajor)
	if err != nil {
		return "", err
	}

	data, err := r.download(url, onProgress)
	if err != nil {
		return "", fmt.Errorf("download jre: %w", err)
	}

	if err := os.RemoveAll(runtimeDir); err != nil {
		return "", fmt.Errorf("clear stale runtime %s: %w", runtimeDir, err)
	}
	if err := os.MkdirAll(runtimeDir, 0o755); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}

	archiveType, err := r.Info.ArchiveType()
	if err != nil {
		return "", err
	}
	if err := extract(data, archiveType, runtimeDir); err != nil {
		return "", fmt.Errorf("extract jre: %w", err)
	}

	bin, err := LocateBinary(runtimeDir, r.Info)
	if err != nil {
		return "", err
	}
	return bin, nil
}

func (r *Resolver) download(url string, onProgress ProgressFunc) ([]byte, error) {
	resp, err := r.HTTP.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if onProgress == nil {
		return io.ReadAll(resp.Body)
	}

	var buf bytes.Buffer
	total := resp.ContentLength
	chunk := make([]byte, 32*1024)
	var read int64
	for {
		n, rerr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			read += int64(n)
			onProgress(read, total)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	return buf.Bytes(), nil
}

func extract(data []byte, archiveType, outDir string) error {
	switch archiveType {
	case "zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return err
		}
		return archive.ExtractZip(zr, outDir, archive.Options{})
	case "tar.gz":
		return archive.ExtractTarGz(bytes.NewReader(data), outDir, archive.Options{})
	default:
		return fmt.Errorf("unsupported archive type %q", archiveType)
	}
}

// LocateBinary walks runtimeDir for the platform-specific java binary
// location: Windows `<vendor>/bin/javaw.exe`, macOS
// `<vendor>/Contents/Home/bin/java`, Linux `<vendor>/bin/java`.
func LocateBinary(runtimeDir string, info platform.Info) (string, error) {
	var suffix string
	switch info.Family {
	case platform.Windows:
		suffix = filepath.Join("bin", "javaw.exe")
	case platform.OSX:
		suffix = filepath.Join("Contents", "Home", "bin", "java")
	case platform.Linux:
		suffix = filepath.Join("bin", "java")
	default:
		return "", platform.ErrUnsupportedOS
	}

	var found string
	err := filepath.Walk(runtimeDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return nil
		}
		if hasPathSuffix(path, suffix) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return "", fmt.Errorf("walk %s: %w", runtimeDir, err)
	}
	if found == "" {
		return "", ErrBinaryNotFound
	}
	return found, nil
}

func hasPathSuffix(path, suffix string) bool {
	return len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix
}

// compatible parses the installed runtime's reported version (the parent
// of `bin/`, e.g. "jdk-17.0.9+9") and checks it satisfies the required
// major version using semantic-version comparison.
func compatible(binPath string, requiredMajor int) bool {
	v := versionFromPath(binPath)
	if v == nil {
		return true // no parseable version component; trust the cache hit
	}
	constraint, err := semver.NewConstraint(fmt.Sprintf(">= %d.0.0", requiredMajor))
	if err != nil {
		return true
	}
	return constraint.Check(v)
}
