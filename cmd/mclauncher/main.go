// Command mclauncher runs the bubbletea TUI shell over the launch
// pipeline's external command surface (internal/commands).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"

	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/commands"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/jre"
	"github.com/quasar/mclauncher/internal/launcher"
	"github.com/quasar/mclauncher/internal/mods"
	"github.com/quasar/mclauncher/internal/options"
	"github.com/quasar/mclauncher/internal/platform"
	"github.com/quasar/mclauncher/internal/prelauncher"
	"github.com/quasar/mclauncher/internal/progress"
	"github.com/quasar/mclauncher/internal/scheduler"
	"github.com/quasar/mclauncher/internal/ui"
)

// defaultMSAClientID is the launcher's registered Azure AD application,
// used for the Microsoft device-code login flow.
const defaultMSAClientID = "c36a9fb6-4f2a-41ff-90bd-ae7cc92031eb"

// premiumOAuth2 is the launcher's own identity-service OAuth2 endpoint,
// used only for the optional mod-ad-skip "premium" login.
var premiumOAuth2 = oauth2.Config{
	ClientID: "mclauncher-premium",
	Endpoint: oauth2.Endpoint{
		AuthURL:  "https://id.mclauncher.example/oauth2/authorize",
		TokenURL: "https://id.mclauncher.example/oauth2/token",
	},
	Scopes: []string{"profile"},
}

func main() {
	dataDir, err := defaultDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error resolving data directory: %v\n", err)
		os.Exit(1)
	}

	root := cache.NewRoot(dataDir)
	info, err := platform.Current("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error resolving platform: %v\n", err)
		os.Exit(1)
	}

	httpClient := httpx.New()

	// The aggregator needs somewhere to send events before the tea.Program
	// exists; p is filled in once NewProgram returns, and every event after
	// that point is forwarded as a ProgressUpdate message.
	var p *tea.Program
	progressAgg := progress.New(progress.SinkFunc(func(e progress.Event) {
		if p != nil {
			p.Send(ui.ProgressUpdate{Event: e})
		}
	}))

	svc := &commands.Service{
		HTTP:     httpClient,
		Cache:    root,
		Platform: info,
		Options:  options.NewStore(dataDir),
		API:      commands.NewBuildsAPI(httpClient),
		Prelauncher: &prelauncher.Pipeline{
			HTTP:  httpClient,
			Cache: root,
			Mods: &mods.Installer{
				HTTP:  httpClient,
				Cache: root,
			},
			Progress: progressAgg,
		},
		Launcher: &launcher.Launcher{
			HTTP:     httpClient,
			Cache:    root,
			Platform: info,
			JRE: &jre.Resolver{
				HTTP: httpClient,
				Root: root,
				Info: info,
			},
			Scheduler: &scheduler.Scheduler{HTTP: httpClient, Concurrency: 8},
			Progress:  progressAgg,
		},
		MSA:     &auth.MSAClient{HTTP: httpClient.StandardClient(), ClientID: defaultMSAClientID},
		Offline: &auth.OfflineClient{HTTP: httpClient.StandardClient()},
		Client:  &auth.ClientAuthenticator{Config: &premiumOAuth2},
	}

	p = tea.NewProgram(
		ui.New(svc),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}

// defaultDataDir mirrors the teacher's portable-mode-then-XDG resolution:
// a "data" directory next to the executable wins if present, otherwise the
// platform's standard per-user application data directory is used.
func defaultDataDir() (string, error) {
	if exe, err := os.Executable(); err == nil {
		portable := filepath.Join(filepath.Dir(exe), "data")
		if _, err := os.Stat(portable); err == nil {
			return portable, nil
		}
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mclauncher"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "mclauncher"), nil
	}
	return filepath.Join(home, ".local", "share", "mclauncher"), nil
}
