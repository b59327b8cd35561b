package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"envcheck/internal/check"
	"envcheck/internal/logging"
	"envcheck/internal/report"
)

const down = "down"

// Model is the interactive environment report.
type Model struct {
	ctx      context.Context
	newSuite func() SuiteRunner
	logger   *logging.Logger
	styles   report.Styles

	currentScreen Screen
	selection     int
	running       bool
	runs          int
	summary       check.Summary
	hasSummary    bool
	quitting      bool
	startTime     time.Time
}

// NewModel creates a model that runs a suite from newSuite on start and on
// every "r". Each run gets a fresh suite so nothing probed earlier is reused.
func NewModel(ctx context.Context, newSuite func() SuiteRunner, styles report.Styles, logger *logging.Logger) Model {
	return Model{
		ctx:           ctx,
		newSuite:      newSuite,
		logger:        logger,
		styles:        styles,
		currentScreen: ScreenReport,
		running:       true,
		startTime:     time.Now(),
	}
}

// Summary returns the last finished run and whether there is one.
func (m Model) Summary() (check.Summary, bool) {
	return m.summary, m.hasSummary
}

// Init starts the first run
func (m Model) Init() tea.Cmd {
	return m.runChecks()
}

func (m Model) runChecks() tea.Cmd {
	newSuite, ctx := m.newSuite, m.ctx
	return func() tea.Msg {
		return summaryMsg{summary: newSuite().Run(ctx, nil)}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.running = false
		m.runs++
		m.summary = msg.summary
		m.hasSummary = true
		if m.selection >= len(m.summary.Results) {
			m.selection = 0
		}
		m.logger.Debug("tui.run.complete", "Check run finished", map[string]interface{}{
			"run":         m.runs,
			"critical_ok": m.summary.CriticalOK,
		})
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if next, handled, cmd := m.handleQuitKeys(key); handled {
		return next, cmd
	}
	if next, handled, cmd := m.handleRerunKey(key); handled {
		return next, cmd
	}
	if next, handled := m.handleEscapeKey(key); handled {
		return next, nil
	}
	if next, handled := m.handleNavigationKeys(key); handled {
		return next, nil
	}
	return m, nil
}

func (m Model) handleQuitKeys(key string) (tea.Model, bool, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, true, tea.Quit
	}
	return m, false, nil
}

func (m Model) handleRerunKey(key string) (tea.Model, bool, tea.Cmd) {
	if key != "r" {
		return m, false, nil
	}
	if m.running {
		return m, true, nil
	}
	m.running = true
	m.currentScreen = ScreenReport
	return m, true, m.runChecks()
}

func (m Model) handleEscapeKey(key string) (tea.Model, bool) {
	if key != "esc" && key != "backspace" {
		return m, false
	}
	m.currentScreen = ScreenReport
	return m, true
}

func (m Model) handleNavigationKeys(key string) (tea.Model, bool) {
	switch key {
	case "up", "k":
		return m.navigateUp(), true
	case down, "j":
		return m.navigateDown(), true
	case "enter", " ":
		if m.currentScreen == ScreenReport && m.hasSummary {
			m.currentScreen = ScreenDetail
		}
		return m, true
	case "?":
		m.currentScreen = ScreenHelp
		return m, true
	}
	return m, false
}

func (m Model) navigateUp() Model {
	n := len(m.summary.Results)
	if n == 0 {
		return m
	}
	m.selection = (m.selection - 1 + n) % n
	return m
}

func (m Model) navigateDown() Model {
	n := len(m.summary.Results)
	if n == 0 {
		return m
	}
	m.selection = (m.selection + 1) % n
	return m
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.currentScreen {
	case ScreenDetail:
		return m.renderDetailScreen()
	case ScreenHelp:
		return m.renderHelpScreen()
	default:
		return m.renderReportScreen()
	}
}
