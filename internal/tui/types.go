package tui

import (
	"context"

	"envcheck/internal/check"
)

// Screen represents different TUI screens
type Screen string

const (
	// ScreenReport lists every check with its outcome
	ScreenReport Screen = "report"
	// ScreenDetail shows the lines of the selected check
	ScreenDetail Screen = "detail"
	// ScreenHelp shows key bindings
	ScreenHelp Screen = "help"
)

// SuiteRunner runs the checks; *check.Suite implements it.
type SuiteRunner interface {
	Run(ctx context.Context, progress func(check.Result)) check.Summary
}

// summaryMsg carries a finished run back into Update.
type summaryMsg struct {
	summary check.Summary
}
