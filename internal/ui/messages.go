// Package ui provides TUI view messages shared between components.
package ui

import (
	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/commands"
	"github.com/quasar/mclauncher/internal/progress"
)

// BranchesLoaded is sent once the `branches` command resolves.
type BranchesLoaded struct {
	Branches []commands.Branch
	Error    error
}

// BuildsLoaded is sent once `builds_by_branch` resolves for the selected
// branch.
type BuildsLoaded struct {
	Builds []commands.BuildSummary
	Error  error
}

// LoginComplete is sent when a Microsoft or offline login flow finishes.
type LoginComplete struct {
	Account auth.Account
	Error   error
}

// PremiumLoginComplete is sent when the premium (ad-skip) OAuth2 flow
// finishes and the resulting ClientAccount has been persisted.
type PremiumLoginComplete struct {
	Error error
}

// ProgressUpdate mirrors the `progress-update` event.
type ProgressUpdate struct {
	Event progress.Event
}

// ProcessOutput mirrors the `process-output` event: one captured chunk of
// the child's stdout or stderr.
type ProcessOutput struct {
	Line string
}

// ClientExited mirrors the `client-exited`/`client-error` events.
type ClientExited struct {
	Error error
}
