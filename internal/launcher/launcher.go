package launcher

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/quasar/mclauncher/internal/archive"
	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/checksum"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/jre"
	"github.com/quasar/mclauncher/internal/manifest"
	"github.com/quasar/mclauncher/internal/platform"
	"github.com/quasar/mclauncher/internal/progress"
	"github.com/quasar/mclauncher/internal/rules"
	"github.com/quasar/mclauncher/internal/scheduler"
)

// Prepared is everything needed to spawn the Java child process.
type Prepared struct {
	JavaBinary string
	Args       []string
	WorkDir    string
}

// Launcher drives §4.13 for one VersionProfile.
type Launcher struct {
	HTTP      *httpx.Client
	Cache     cache.Root
	Platform  platform.Info
	JRE       *jre.Resolver
	Scheduler *scheduler.Scheduler
	Progress  *progress.Aggregator
}

// Prepare runs steps 1-6: directories, JRE, client jar, libraries, assets,
// argument synthesis. Spawn (step 7 onward) is left to internal/process.
func (l *Launcher) Prepare(ctx context.Context, profile *manifest.VersionProfile, branch string, requiredJavaMajor int, sp StartParameter) (*Prepared, error) {
	if err := l.Cache.EnsureDirs(profile.ID, branch); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	l.Progress.SetForStep(progress.DownloadJRE, 0, 1)
	l.Progress.SetLabel("resolving java runtime")
	javaBin, err := l.JRE.Resolve(sp.JRESelection, requiredJavaMajor, func(downloaded, total int64) {
		l.Progress.SetForStep(progress.DownloadJRE, int(downloaded), maxInt(int(total), 1))
	})
	if err != nil {
		return nil, fmt.Errorf("resolve java runtime: %w", err)
	}

	classpath, err := l.resolveClientJar(profile)
	if err != nil {
		return nil, err
	}

	libCP, err := l.resolveLibraries(ctx, profile)
	if err != nil {
		return nil, err
	}
	classpath = append(classpath, libCP...)

	if err := l.resolveAssets(ctx, profile); err != nil {
		return nil, err
	}

	params := manifest.Params{
		AuthPlayerName:   sp.Identity.PlayerName,
		VersionName:      profile.ID,
		GameDirectory:    l.Cache.GameDir(branch),
		AssetsRoot:       filepath.Join(l.Cache.Path, "assets"),
		AssetsIndexName:  profile.Assets,
		AuthUUID:         sp.Identity.PlayerUUID,
		AuthAccessToken:  sp.Identity.AccessToken,
		UserType:         sp.Identity.UserType,
		VersionType:      "release",
		NativesDirectory: l.Cache.NativesDir(profile.ID),
		LauncherName:     "mclauncher",
		LauncherVersion:  "1.0",
		Classpath:        joinClasspath(classpath, l.Platform),
		ClientID:         sp.Identity.ClientID,
		AuthXUID:         sp.Identity.XUID,
		MemoryMiB:        sp.MemoryMiB,
		JVMExtra:         sp.JVMExtra,
	}

	argv, err := manifest.BuildArguments(profile, params, l.Platform, sp.Features)
	if err != nil {
		return nil, fmt.Errorf("synthesize arguments: %w", err)
	}

	return &Prepared{
		JavaBinary: javaBin,
		Args:       argv,
		WorkDir:    l.Cache.GameDir(branch),
	}, nil
}

func (l *Launcher) resolveClientJar(profile *manifest.VersionProfile) ([]string, error) {
	l.Progress.SetForStep(progress.DownloadClientJar, 0, 1)
	l.Progress.SetLabel("downloading client jar")

	jarPath := l.Cache.VersionJarPath(profile.ID)
	var expectedSHA1 string
	var url string
	if profile.Downloads.Client != nil {
		expectedSHA1 = profile.Downloads.Client.SHA1
		url = profile.Downloads.Client.URL
	}

	if ok, err := checksum.Matches(jarPath, expectedSHA1); err != nil {
		return nil, err
	} else if !ok {
		if url == "" {
			return nil, fmt.Errorf("client jar missing from cache and no download url in manifest")
		}
		if err := os.MkdirAll(filepath.Dir(jarPath), 0o755); err != nil {
			return nil, err
		}
		resp, err := l.HTTP.Get(url)
		if err != nil {
			return nil, fmt.Errorf("download client jar: %w", err)
		}
		defer resp.Body.Close()
		f, err := os.Create(jarPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		total := resp.ContentLength
		hasher := checksum.NewStreamingHasher()
		var written int64
		buf := make([]byte, 32*1024)
		for {
			n, rerr := resp.Body.Read(buf)
			if n > 0 {
				if _, werr := f.Write(buf[:n]); werr != nil {
					return nil, werr
				}
				hasher.Write(buf[:n])
				written += int64(n)
				l.Progress.SetForStep(progress.DownloadClientJar, int(written), maxInt(int(total), 1))
			}
			if rerr != nil {
				break
			}
		}
		if expectedSHA1 != "" && hasher.SHA1() != expectedSHA1 {
			os.Remove(jarPath)
			return nil, fmt.Errorf("client jar checksum mismatch: expected %s, got %s", expectedSHA1, hasher.SHA1())
		}
	}

	return []string{jarPath}, nil
}

func (l *Launcher) resolveLibraries(ctx context.Context, profile *manifest.VersionProfile) ([]string, error) {
	l.Progress.SetForStep(progress.DownloadLibraries, 0, 1)
	l.Progress.SetLabel("downloading libraries")

	var items []scheduler.Item
	var classpathPaths []string
	var nativesExtract []libraryExtract

	for _, lib := range profile.Libraries {
		allowed, err := rules.Check(lib.Rules, l.Platform, nil)
		if err != nil {
			return nil, fmt.Errorf("library %q rules: %w", lib.Name, err)
		}
		if !allowed {
			continue
		}

		if classifierKey, ok := l.nativesClassifier(lib); ok {
			artifact, ok := lib.Downloads.Classifiers[classifierKey]
			if ok {
				path := l.Cache.LibraryPath(artifact.Path)
				items = append(items, l.libraryItem(path, artifact.URL, artifact.SHA1, false))
				nativesExtract = append(nativesExtract, libraryExtract{archivePath: path, name: lib.Name})
			}
		}

		if lib.Downloads.Artifact != nil {
			path := l.Cache.LibraryPath(lib.Downloads.Artifact.Path)
			items = append(items, l.libraryItem(path, lib.Downloads.Artifact.URL, lib.Downloads.Artifact.SHA1, true))
			classpathPaths = append(classpathPaths, path)
		} else {
			item, path, err := l.resolveLibraryURLFallback(lib)
			if err != nil {
				return nil, fmt.Errorf("library %q has no downloads.artifact and no usable maven coordinate: %w", lib.Name, err)
			}
			items = append(items, item)
			classpathPaths = append(classpathPaths, path)
		}
	}

	if _, err := l.Scheduler.Download(ctx, items, nil, func(item scheduler.Item, err error) {
		if err != nil {
			log.Printf("library download failed for %s: %v", item.Path, err)
		}
	}); err != nil {
		return nil, fmt.Errorf("download libraries: %w", err)
	}

	for _, ne := range nativesExtract {
		if err := l.extractNatives(profile.ID, ne.archivePath); err != nil {
			return nil, fmt.Errorf("extract natives for %q: %w", ne.name, err)
		}
	}

	return classpathPaths, nil
}

// defaultLibraryRepo is the repository old-format/Forge-style libraries
// assume when they declare no url of their own.
const defaultLibraryRepo = "https://libraries.minecraft.net/"

// resolveLibraryURLFallback builds the download item for a library that
// declares no downloads.artifact: its on-disk path and download URL are
// derived from its Maven coordinate instead, against url (or
// defaultLibraryRepo when url is empty). Its checksum comes from a cached
// .sha1 sidecar, fetched from the repository on first use.
func (l *Launcher) resolveLibraryURLFallback(lib manifest.Library) (scheduler.Item, string, error) {
	mavenPath, err := manifest.MavenPath(lib.Name)
	if err != nil {
		return scheduler.Item{}, "", err
	}

	repo := lib.URL
	if repo == "" {
		repo = defaultLibraryRepo
	}
	url := repo + mavenPath
	path := l.Cache.LibraryPath(mavenPath)

	return scheduler.Item{URL: url, Path: path, SHA1: l.fetchLibrarySHA1Sidecar(mavenPath, url), Critical: true}, path, nil
}

// fetchLibrarySHA1Sidecar returns the cached .sha1 sidecar for mavenPath,
// fetching and caching it from url+".sha1" on first use. A fetch failure
// leaves the checksum unverified rather than failing the library download,
// mirroring the original's "sha1 unavailable, assume it matches" fallback.
func (l *Launcher) fetchLibrarySHA1Sidecar(mavenPath, url string) string {
	sidecarPath := l.Cache.LibrarySHA1SidecarPath(mavenPath)
	if data, err := os.ReadFile(sidecarPath); err == nil {
		return strings.TrimSpace(string(data))
	}

	resp, err := l.HTTP.Get(url + ".sha1")
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	sha1 := strings.TrimSpace(string(data))
	if sha1 == "" {
		return ""
	}
	if err := os.MkdirAll(filepath.Dir(sidecarPath), 0o755); err == nil {
		_ = os.WriteFile(sidecarPath, []byte(sha1), 0o644)
	}
	return sha1
}

type libraryExtract struct {
	archivePath string
	name        string
}

func (l *Launcher) nativesClassifier(lib manifest.Library) (string, bool) {
	if lib.Natives == nil {
		return "", false
	}
	name, err := l.Platform.SimpleName()
	if err != nil {
		return "", false
	}
	classifier, ok := lib.Natives[name]
	return classifier, ok
}

func (l *Launcher) libraryItem(path, url, sha1 string, critical bool) scheduler.Item {
	return scheduler.Item{URL: url, Path: path, SHA1: sha1, Critical: critical}
}

func (l *Launcher) extractNatives(versionID, archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("open natives archive: %w", err)
	}
	return archive.ExtractZip(zr, l.Cache.NativesDir(versionID), archive.Options{})
}

func (l *Launcher) resolveAssets(ctx context.Context, profile *manifest.VersionProfile) error {
	l.Progress.SetForStep(progress.DownloadAssets, 0, 1)
	l.Progress.SetLabel("downloading assets")

	if profile.AssetIndex == nil {
		return nil
	}

	indexPath := l.Cache.AssetIndexPath(profile.AssetIndex.ID)
	if _, err := os.Stat(indexPath); err != nil {
		resp, err := l.HTTP.Get(profile.AssetIndex.URL)
		if err != nil {
			return fmt.Errorf("download asset index: %w", err)
		}
		defer resp.Body.Close()
		if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(indexPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(f, resp.Body); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return err
	}
	index, err := manifest.DecodeAssetIndex(data)
	if err != nil {
		return err
	}

	var items []scheduler.Item
	for _, obj := range index.Objects {
		path, err := l.Cache.AssetObjectPath(obj.Hash)
		if err != nil {
			continue
		}
		url := assetDownloadURL(obj.Hash)
		items = append(items, scheduler.Item{URL: url, Path: path, SHA1: obj.Hash, Size: obj.Size, Critical: false})
	}

	total := len(items)
	done := 0
	_, err = l.Scheduler.Download(ctx, items, nil, func(item scheduler.Item, err error) {
		done++
		l.Progress.SetForStep(progress.DownloadAssets, done, maxInt(total, 1))
		if err != nil {
			log.Printf("asset download failed for %s: %v", item.Path, err)
		}
	})
	return err
}

func assetDownloadURL(hash string) string {
	return "https://resources.download.minecraft.net/" + hash[:2] + "/" + hash
}

func joinClasspath(paths []string, info platform.Info) string {
	sep, err := info.PathSeparator()
	if err != nil {
		sep = string(os.PathListSeparator)
	}
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteString(sep)
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
