package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/mods"
	"github.com/quasar/mclauncher/internal/prelauncher"
)

const defaultBuildsAPIBaseURL = "https://api.mclauncher.example/v1"

// BuildsAPI is the upstream launcher API client backing the §4.15
// retry-wrapped list endpoints (`branches`, `builds_by_branch`, `news`,
// `changelog`, `mods`, `health_check`) and the `launch_manifest` direct
// endpoint. It is self-contained in the style of the teacher's
// MojangClient/ModrinthClient: one struct per upstream service, all
// requests going through the shared retrying httpx.Client so every call
// already carries exponential-backoff retry for free.
type BuildsAPI struct {
	HTTP    *httpx.Client
	BaseURL string
}

// NewBuildsAPI builds a BuildsAPI client against the default base URL.
func NewBuildsAPI(client *httpx.Client) *BuildsAPI {
	return &BuildsAPI{HTTP: client, BaseURL: defaultBuildsAPIBaseURL}
}

// Branch is one distribution channel (e.g. "vanilla", "fabric-beta").
type Branch struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Nightly     bool   `json:"nightly"`
}

// BuildSummary is a build_id-indexed entry in a branch's build list.
type BuildSummary struct {
	BuildID          int    `json:"buildId"`
	MinecraftVersion string `json:"minecraftVersion"`
	Release          bool   `json:"release"`
	Timestamp        string `json:"timestamp"`
}

// NewsItem is one entry from the content-delivery blog endpoint.
type NewsItem struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published string `json:"published"`
}

// HealthStatus is the `health_check` response.
type HealthStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (a *BuildsAPI) get(path string, out any) error {
	resp, err := a.HTTP.Get(a.BaseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Branches implements `branches`.
func (a *BuildsAPI) Branches() ([]Branch, error) {
	var out []Branch
	err := a.get("/branches", &out)
	return out, err
}

// BuildsByBranch implements `builds_by_branch(branch, release)`.
func (a *BuildsAPI) BuildsByBranch(branch string, release bool) ([]BuildSummary, error) {
	var out []BuildSummary
	path := fmt.Sprintf("/branches/%s/builds?release=%t", url.PathEscape(branch), release)
	err := a.get(path, &out)
	return out, err
}

// News implements `news`.
func (a *BuildsAPI) News() ([]NewsItem, error) {
	var out []NewsItem
	err := a.get("/news", &out)
	return out, err
}

// Changelog implements `changelog(build_id)`.
func (a *BuildsAPI) Changelog(buildID int) (string, error) {
	var out struct {
		Changelog string `json:"changelog"`
	}
	err := a.get(fmt.Sprintf("/builds/%d/changelog", buildID), &out)
	return out.Changelog, err
}

// Mods implements `mods(mc_version, subsystem)`: the recommended mod list
// for a given Minecraft version and loader subsystem, independent of any
// particular build.
func (a *BuildsAPI) Mods(mcVersion string, subsystem prelauncher.Subsystem) ([]mods.LoaderMod, error) {
	var out []mods.LoaderMod
	path := fmt.Sprintf("/mods?mcVersion=%s&subsystem=%s", url.QueryEscape(mcVersion), url.QueryEscape(string(subsystem)))
	err := a.get(path, &out)
	return out, err
}

// HealthCheck implements `health_check`.
func (a *BuildsAPI) HealthCheck() (HealthStatus, error) {
	var out HealthStatus
	err := a.get("/health", &out)
	return out, err
}

// LaunchManifest implements `launch_manifest(build_id)`.
func (a *BuildsAPI) LaunchManifest(buildID int) (prelauncher.LaunchManifest, error) {
	var out prelauncher.LaunchManifest
	err := a.get(fmt.Sprintf("/builds/%d/manifest", buildID), &out)
	return out, err
}
