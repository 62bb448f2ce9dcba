package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/mclauncher/internal/commands"
	"github.com/quasar/mclauncher/internal/progress"
)

func TestUpdateBranchesLoadedTriggersBuildsLoad(t *testing.T) {
	m := New(&commands.Service{})
	_, cmd := m.Update(BranchesLoaded{Branches: []commands.Branch{{Name: "vanilla"}}})
	if cmd == nil {
		t.Fatal("expected a follow-up command to load builds")
	}
	if len(m.branches) != 1 || m.branches[0].Name != "vanilla" {
		t.Errorf("unexpected branches: %+v", m.branches)
	}
}

func TestUpdateBranchesLoadedEmptyDoesNotLoadBuilds(t *testing.T) {
	m := New(&commands.Service{})
	_, cmd := m.Update(BranchesLoaded{Branches: nil})
	if cmd != nil {
		t.Error("expected no follow-up command when there are no branches")
	}
}

func TestUpdateBuildsLoadedResetsSelection(t *testing.T) {
	m := New(&commands.Service{})
	m.selected = 3
	m.Update(BuildsLoaded{Builds: []commands.BuildSummary{{BuildID: 1}, {BuildID: 2}}})
	if m.selected != 0 {
		t.Errorf("expected selection reset to 0, got %d", m.selected)
	}
	if len(m.builds) != 2 {
		t.Errorf("expected 2 builds, got %d", len(m.builds))
	}
}

func TestNavigationStaysInBounds(t *testing.T) {
	m := New(&commands.Service{})
	m.builds = []commands.BuildSummary{{BuildID: 1}, {BuildID: 2}}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Errorf("expected selection to stay at 0, got %d", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("expected selection 1, got %d", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("expected selection to stay at 1 (last index), got %d", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Errorf("expected selection 0, got %d", m.selected)
	}
}

func TestLaunchOnlyFiresWithinBounds(t *testing.T) {
	m := New(&commands.Service{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no launch command with an empty build list")
	}
	if m.state != StateHome {
		t.Error("expected state to remain Home with no builds selected")
	}
}

func TestQuitKeyReturnsQuitCommand(t *testing.T) {
	m := New(&commands.Service{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected tea.Quit command")
	}
}

func TestLoginKeySwitchesToLoginState(t *testing.T) {
	m := New(&commands.Service{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if m.state != StateLogin {
		t.Errorf("expected StateLogin, got %v", m.state)
	}
	if cmd == nil {
		t.Fatal("expected a login command")
	}
}

func TestCancelFromLaunchingTerminatesAndReturnsHome(t *testing.T) {
	m := New(&commands.Service{})
	m.state = StateLaunching
	m.cancel = func() {}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHome {
		t.Errorf("expected StateHome after cancel, got %v", m.state)
	}
}

func TestProgressUpdateTracksLabelAndValue(t *testing.T) {
	m := New(&commands.Service{})
	m.Update(ProgressUpdate{Event: progress.Event{Kind: progress.EventSetLabel, Label: "Downloading libraries"}})
	if m.progressLabel != "Downloading libraries" {
		t.Errorf("unexpected progress label: %q", m.progressLabel)
	}
	m.Update(ProgressUpdate{Event: progress.Event{Kind: progress.EventSetProgress, Value: 512}})
	if m.progressPct != 512 {
		t.Errorf("expected progress value 512, got %d", m.progressPct)
	}
}

func TestProcessOutputAppendsLines(t *testing.T) {
	m := New(&commands.Service{})
	m.Update(ProcessOutput{Line: "hello"})
	m.Update(ProcessOutput{Line: "world"})
	if len(m.outputLines) != 2 || m.outputLines[1] != "world" {
		t.Errorf("unexpected output lines: %v", m.outputLines)
	}
}

func TestClientExitedReturnsHomeAndRecordsError(t *testing.T) {
	m := New(&commands.Service{})
	m.state = StateLaunching
	exitErr := errors.New("client crashed")
	m.Update(ClientExited{Error: exitErr})
	if m.state != StateHome {
		t.Errorf("expected StateHome after exit, got %v", m.state)
	}
	if m.err != exitErr {
		t.Errorf("expected exit error to be recorded, got %v", m.err)
	}
}

func TestViewDoesNotPanicAcrossStates(t *testing.T) {
	m := New(&commands.Service{})
	m.builds = []commands.BuildSummary{{MinecraftVersion: "1.20.1", Release: true}}

	for _, state := range []State{StateHome, StateLogin, StateLaunching} {
		m.state = state
		if out := m.View(); !strings.Contains(out, "mclauncher") {
			t.Errorf("expected title in view for state %v", state)
		}
	}
}

func TestBuildLabel(t *testing.T) {
	if got := buildLabel(commands.BuildSummary{Release: true}); got != "release" {
		t.Errorf("expected release, got %q", got)
	}
	if got := buildLabel(commands.BuildSummary{Release: false}); got != "nightly" {
		t.Errorf("expected nightly, got %q", got)
	}
}

func TestLastN(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := lastN(lines, 2); len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Errorf("unexpected tail: %v", got)
	}
	if got := lastN(lines, 10); len(got) != 4 {
		t.Errorf("expected full slice when n exceeds length, got %v", got)
	}
}
