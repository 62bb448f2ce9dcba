package mods

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/httpx"
)

// SkipFileResolver calls the premium account's resolve_skip_file API for a
// given ad-page id and returns the resolved direct download URL.
type SkipFileResolver func(pid string) (directURL string, err error)

// WebviewResolver spawns the ad-skip webview for adURL and blocks until its
// embedded script emits a download URL or the webview is closed. The
// installer puts no timeout on this wait.
type WebviewResolver func(adURL string) (directURL string, err error)

// Installer materializes LoaderMods into a build's game directory, caching
// the downloaded jar by source path so repeated launches reuse it.
type Installer struct {
	HTTP  *httpx.Client
	Cache cache.Root

	ResolveSkipFile SkipFileResolver
	OpenWebview     WebviewResolver
}

// Install implements §4.12 for a single mod m within branch/mcVersion,
// given repos for Repository-sourced mods and an optional premium account
// (used only when skipAdvertisement is set).
func (in *Installer) Install(m LoaderMod, branch, mcVersion string, repos Repositories, premium *auth.ClientAccount, skipAdvertisement bool) error {
	if !m.ShouldInstall() {
		return nil
	}

	if m.Source.Kind == SourceLocal {
		return in.installLocal(m, branch, mcVersion)
	}

	sourcePath, err := m.Source.Path()
	if err != nil {
		return err
	}
	cachePath := in.Cache.ModCachePath(sourcePath)

	if _, err := os.Stat(cachePath); err != nil {
		if err := in.populateCache(m, cachePath, premium, skipAdvertisement, repos); err != nil {
			return err
		}
	}

	return copyIntoMods(cachePath, in.Cache.GameModsDir(branch), m.Name)
}

func (in *Installer) installLocal(m LoaderMod, branch, mcVersion string) error {
	src := filepath.Join(in.Cache.CustomModsDir(branch, mcVersion), m.Source.FileName)
	if _, err := os.Stat(src); err != nil {
		log.Printf("mods: local mod %q missing at %s, skipping", m.Name, src)
		return nil
	}
	return copyIntoMods(src, in.Cache.GameModsDir(branch), m.Name)
}

func (in *Installer) populateCache(m LoaderMod, cachePath string, premium *auth.ClientAccount, skipAdvertisement bool, repos Repositories) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("prepare mod cache dir: %w", err)
	}

	switch m.Source.Kind {
	case SourceSkipAd:
		return in.populateSkipAd(m, cachePath, premium, skipAdvertisement)
	case SourceRepository:
		return in.populateRepository(m, cachePath, repos)
	default:
		return fmt.Errorf("unsupported mod source kind for %q", m.Name)
	}
}

func (in *Installer) populateSkipAd(m LoaderMod, cachePath string, premium *auth.ClientAccount, skipAdvertisement bool) error {
	var directURL string

	if skipAdvertisement && premium != nil {
		if in.ResolveSkipFile == nil {
			return fmt.Errorf("mod %q: %w", m.Name, ErrSkipFileUnresolved)
		}
		pid := lastPathSegment(m.Source.AdURL)
		resolved, err := in.ResolveSkipFile(pid)
		if err != nil || resolved == "" {
			return fmt.Errorf("mod %q: %w", m.Name, ErrSkipFileUnresolved)
		}
		directURL = resolved
	} else {
		if in.OpenWebview == nil {
			return fmt.Errorf("mod %q: %w", m.Name, ErrWebviewURLMissing)
		}
		webviewURL := m.Source.AdURL + "&liquidlauncher=1"
		resolved, err := in.OpenWebview(webviewURL)
		if err != nil || resolved == "" {
			return fmt.Errorf("mod %q: %w", m.Name, ErrWebviewURLMissing)
		}
		directURL = resolved
	}

	data, err := in.fetch(directURL)
	if err != nil {
		return fmt.Errorf("mod %q: download: %w", m.Name, err)
	}
	if m.Source.Extract {
		data, err = firstJarEntry(data)
		if err != nil {
			return fmt.Errorf("mod %q: extract: %w", m.Name, err)
		}
	}
	return os.WriteFile(cachePath, data, 0o644)
}

func (in *Installer) populateRepository(m LoaderMod, cachePath string, repos Repositories) error {
	base, ok := repos[m.Source.Repository]
	if !ok {
		return fmt.Errorf("mod %q: unknown repository %q", m.Name, m.Source.Repository)
	}
	mavenPath, err := m.Source.Path()
	if err != nil {
		return err
	}
	url := strings.TrimRight(base, "/") + "/" + mavenPath

	data, err := in.fetch(url)
	if err != nil {
		return fmt.Errorf("mod %q: download: %w", m.Name, err)
	}
	return os.WriteFile(cachePath, data, 0o644)
}

func (in *Installer) fetch(url string) ([]byte, error) {
	resp, err := in.HTTP.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// firstJarEntry opens data as a ZIP archive and returns the decompressed
// bytes of its first entry whose name ends in ".jar".
func firstJarEntry(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".jar") {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("no .jar entry found in archive")
}

func lastPathSegment(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

func copyIntoMods(src, modsDir, name string) error {
	if err := os.MkdirAll(modsDir, 0o755); err != nil {
		return fmt.Errorf("prepare mods dir: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open cached mod: %w", err)
	}
	defer in.Close()

	dest := filepath.Join(modsDir, name+".jar")
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create mod file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy mod into game dir: %w", err)
	}
	return nil
}
