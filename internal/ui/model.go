// Package ui is a thin bubbletea adapter over internal/commands: it lists
// branches/builds, drives the login and run_client/terminate commands, and
// renders the five-step progress bar and captured process output. It is a
// boundary adapter (spec.md §1), not part of the launch pipeline itself,
// so it stays deliberately small.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/commands"
	"github.com/quasar/mclauncher/internal/launcher"
	"github.com/quasar/mclauncher/internal/options"
	"github.com/quasar/mclauncher/internal/prelauncher"
	"github.com/quasar/mclauncher/internal/progress"
)

// State is the current screen.
type State int

const (
	StateHome State = iota
	StateLogin
	StateLaunching
)

type keyMap struct {
	Quit   key.Binding
	Launch key.Binding
	Login  key.Binding
	Cancel key.Binding
	Up      key.Binding
	Down    key.Binding
	Premium key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Launch:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch")),
		Login:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up", "previous build")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down", "next build")),
		Premium: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "premium login")),
	}
}

// Model is the top-level bubbletea model.
type Model struct {
	svc  *commands.Service
	keys keyMap

	state    State
	account  auth.Account
	hasAcct  bool
	branches []commands.Branch
	builds   []commands.BuildSummary
	selected int

	deviceCode string
	authURL    string

	progressLabel string
	progressPct   int
	outputLines   []string
	err           error

	width, height int
	cancel        context.CancelFunc
}

// New builds the top-level model wired to svc.
func New(svc *commands.Service) *Model {
	return &Model{svc: svc, keys: defaultKeyMap(), state: StateHome}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadBranches()
}

func (m *Model) loadBranches() tea.Cmd {
	return func() tea.Msg {
		branches, err := m.svc.API.Branches()
		return BranchesLoaded{Branches: branches, Error: err}
	}
}

func (m *Model) loadBuilds(branch string) tea.Cmd {
	return func() tea.Msg {
		builds, err := m.svc.API.BuildsByBranch(branch, false)
		return BuildsLoaded{Builds: builds, Error: err}
	}
}

func (m *Model) loginMicrosoft() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		acc, err := m.svc.LoginMicrosoft(ctx, func(dc *auth.DeviceCode) {
			m.deviceCode = dc.UserCode
		})
		return LoginComplete{Account: acc, Error: err}
	}
}

func (m *Model) loginPremium() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		premium, err := m.svc.LoginPremium(ctx, func(url string) {
			m.authURL = url
		})
		if err != nil {
			return PremiumLoginComplete{Error: err}
		}
		opts, err := m.svc.GetOptions()
		if err != nil {
			return PremiumLoginComplete{Error: err}
		}
		opts.Premium.Account = premium
		return PremiumLoginComplete{Error: m.svc.StoreOptions(opts)}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case BranchesLoaded:
		m.branches = msg.Branches
		m.err = msg.Error
		if len(m.branches) > 0 {
			return m, m.loadBuilds(m.branches[0].Name)
		}

	case BuildsLoaded:
		m.builds = msg.Builds
		m.err = msg.Error
		m.selected = 0

	case LoginComplete:
		m.state = StateHome
		m.err = msg.Error
		if msg.Error == nil {
			m.account, m.hasAcct = msg.Account, true
		}

	case PremiumLoginComplete:
		m.state = StateHome
		m.err = msg.Error

	case ProgressUpdate:
		switch msg.Event.Kind {
		case progress.EventSetLabel:
			m.progressLabel = msg.Event.Label
		case progress.EventSetProgress:
			m.progressPct = msg.Event.Value
		}

	case ProcessOutput:
		m.outputLines = append(m.outputLines, msg.Line)

	case ClientExited:
		m.err = msg.Error
		m.state = StateHome

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Login) && m.state == StateHome:
			m.state = StateLogin
			return m, m.loginMicrosoft()
		case key.Matches(msg, m.keys.Premium) && m.state == StateHome:
			m.state = StateLogin
			return m, m.loginPremium()
		case key.Matches(msg, m.keys.Cancel):
			if m.cancel != nil {
				m.cancel()
			}
			if m.state == StateLaunching {
				_ = m.svc.Terminate()
			}
			m.state = StateHome
		case key.Matches(msg, m.keys.Launch) && m.state == StateHome && m.selected < len(m.builds):
			m.state = StateLaunching
			return m, m.runClient(m.builds[m.selected].BuildID)
		case key.Matches(msg, m.keys.Up) && m.state == StateHome && m.selected > 0:
			m.selected--
		case key.Matches(msg, m.keys.Down) && m.state == StateHome && m.selected < len(m.builds)-1:
			m.selected++
		}
	}
	return m, nil
}

func (m *Model) runClient(buildID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel

		lm, err := m.svc.LaunchManifestFor(buildID)
		if err != nil {
			return ClientExited{Error: err}
		}

		opts, err := m.svc.GetOptions()
		if err != nil {
			return ClientExited{Error: err}
		}

		sp := optionsToStartParameter(opts)
		sp.Identity = launcher.Identity{
			PlayerName:  m.account.PlayerName(),
			PlayerUUID:  m.account.PlayerUUID(),
			AccessToken: m.account.AccessToken(),
		}

		err = m.svc.RunClient(ctx, lm, prelauncher.Options{}, sp, lm.Build.RequiredJavaMajor,
			func(b []byte) { m.outputLines = append(m.outputLines, string(b)) },
			func(b []byte) { m.outputLines = append(m.outputLines, string(b)) },
		)
		return ClientExited{Error: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("mclauncher"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	switch m.state {
	case StateLogin:
		switch {
		case m.deviceCode != "":
			fmt.Fprintf(&b, "Visit the Microsoft device-code page and enter: %s\n", m.deviceCode)
		case m.authURL != "":
			fmt.Fprintf(&b, "Open this URL to finish premium login:\n%s\n", m.authURL)
		default:
			b.WriteString("Starting login...\n")
		}

	case StateLaunching:
		fmt.Fprintf(&b, "%s (%d/%d)\n", m.progressLabel, m.progressPct, 5*1024)
		for _, line := range lastN(m.outputLines, 10) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(HelpStyle.Render("esc: terminate"))

	default:
		if m.hasAcct {
			fmt.Fprintf(&b, "Signed in as %s\n\n", m.account.PlayerName())
		} else {
			b.WriteString(HelpStyle.Render("l: log in"))
			b.WriteString("\n\n")
		}
		for i, build := range m.builds {
			cursor := "  "
			if i == m.selected {
				cursor = SelectedStyle.Render("> ")
			}
			fmt.Fprintf(&b, "%s%s (%s)\n", cursor, build.MinecraftVersion, buildLabel(build))
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("enter: launch  l: log in  p: premium login  q: quit"))
	}

	return ContainerStyle.Render(b.String())
}

func buildLabel(b commands.BuildSummary) string {
	if b.Release {
		return "release"
	}
	return "nightly"
}

func lastN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// optionsToStartParameter translates the persisted memory/JVM preferences
// into the launcher's in-memory parameter shape.
func optionsToStartParameter(o options.Options) launcher.StartParameter {
	return launcher.StartParameter{
		MemoryMiB: o.Start.MemoryMiB,
		JVMExtra:  o.Start.JVMArgs,
	}
}
