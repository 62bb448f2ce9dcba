package prelauncher

import (
	"fmt"
	"io"
	"log"

	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/manifest"
	"github.com/quasar/mclauncher/internal/mods"
	"github.com/quasar/mclauncher/internal/progress"
)

// Result is everything resolved by the pipeline and handed off to the
// launcher.
type Result struct {
	Profile   *manifest.VersionProfile
	GameDir   string
	VersionID string
}

const defaultUpstreamManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

// Pipeline drives §4.11 end to end.
type Pipeline struct {
	HTTP     *httpx.Client
	Cache    cache.Root
	Mods     *mods.Installer
	Progress *progress.Aggregator

	// UpstreamManifestURL overrides the default Mojang manifest endpoint,
	// for tests.
	UpstreamManifestURL string
}

// Options carries the per-launch inputs the pipeline needs beyond the
// LaunchManifest itself.
type Options struct {
	ExtraMods         []mods.LoaderMod
	Premium           *auth.ClientAccount
	SkipAdvertisement bool
}

// Run executes the full prelauncher sequence and returns the merged
// VersionProfile ready for the launcher.
func (p *Pipeline) Run(lm LaunchManifest, opts Options) (*Result, error) {
	p.Progress.SetMax()
	p.Progress.SetForStep(progress.DownloadRecommendedMods, 0, 1)
	p.Progress.SetLabel("loading version manifest")
	log.Println("loading version manifest")

	upstream, err := p.fetchUpstreamManifest()
	if err != nil {
		return nil, fmt.Errorf("fetch upstream manifest: %w", err)
	}

	branch := lm.Build.Branch

	if err := p.Cache.ClearGameMods(branch); err != nil {
		return nil, fmt.Errorf("clear game mods: %w", err)
	}

	allMods := make([]mods.LoaderMod, 0, len(lm.Mods)+len(opts.ExtraMods))
	allMods = append(allMods, lm.Mods...)
	allMods = append(allMods, opts.ExtraMods...)

	for _, m := range allMods {
		if err := p.Mods.Install(m, branch, lm.Build.MinecraftVersion, lm.Repositories, opts.Premium, opts.SkipAdvertisement); err != nil {
			return nil, fmt.Errorf("install mod %q: %w", m.Name, err)
		}
	}

	childURL := lm.ComposeManifestURL()
	child, err := p.loadProfile(childURL)
	if err != nil {
		return nil, fmt.Errorf("load version profile: %w", err)
	}

	profile := child
	if child.InheritsFrom != "" {
		parentURL, ok := upstream.URLFor(child.InheritsFrom)
		if !ok {
			return nil, fmt.Errorf("inherited version %q not found in upstream manifest", child.InheritsFrom)
		}
		parent, err := p.loadProfile(parentURL)
		if err != nil {
			return nil, fmt.Errorf("load parent version profile: %w", err)
		}
		profile, err = manifest.Merge(child, parent)
		if err != nil {
			return nil, fmt.Errorf("merge version profiles: %w", err)
		}
	}

	return &Result{
		Profile:   profile,
		GameDir:   p.Cache.GameDir(branch),
		VersionID: profile.ID,
	}, nil
}

func (p *Pipeline) fetchUpstreamManifest() (*manifest.UpstreamManifest, error) {
	url := p.UpstreamManifestURL
	if url == "" {
		url = defaultUpstreamManifestURL
	}
	data, err := p.getBody(url)
	if err != nil {
		return nil, err
	}
	return manifest.DecodeUpstreamManifest(data)
}

func (p *Pipeline) loadProfile(url string) (*manifest.VersionProfile, error) {
	data, err := p.getBody(url)
	if err != nil {
		return nil, err
	}
	return manifest.Decode(data)
}

func (p *Pipeline) getBody(url string) ([]byte, error) {
	resp, err := p.HTTP.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
