package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"envcheck/internal/check"
	"envcheck/internal/pkgcheck"
	"envcheck/internal/python"
	"envcheck/internal/python/pythontest"
	"envcheck/internal/report"
)

type fakeSuite struct {
	calls   int
	summary check.Summary
}

func (f *fakeSuite) Run(context.Context, func(check.Result)) check.Summary {
	f.calls++
	return f.summary
}

func testSummary(gpuPassed bool) check.Summary {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	var results []check.Result
	for _, name := range check.Order {
		r := check.NewResult(name, strings.ToUpper(name))
		r.Okf("%s ok", name)
		results = append(results, r.Finish(name != check.NameGPU || gpuPassed))
	}
	if !gpuPassed {
		results[1].Err = context.DeadlineExceeded
	}
	return check.Summary{
		Started:    start,
		Finished:   start.Add(2 * time.Second),
		Results:    results,
		Critical:   check.CriticalNames,
		CriticalOK: gpuPassed,
	}
}

func newTestModel(suite SuiteRunner) Model {
	var buf bytes.Buffer
	return NewModel(context.Background(), func() SuiteRunner { return suite }, report.NewStyles(&buf), nil)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatal("Expected Model type from Update")
	}
	return nm, cmd
}

// finishRun executes cmd and feeds its message back into the model.
func finishRun(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	m, _ = update(t, m, cmd())
	return m
}

func TestModel_InitRunsChecks(t *testing.T) {
	suite := &fakeSuite{summary: testSummary(true)}
	m := newTestModel(suite)

	if !strings.Contains(m.View(), "Running checks...") {
		t.Error("Expected running placeholder before the first summary")
	}

	m = finishRun(t, m, m.Init())

	if suite.calls != 1 {
		t.Errorf("Expected 1 suite run, got %d", suite.calls)
	}
	sum, ok := m.Summary()
	if !ok || !sum.CriticalOK {
		t.Error("Expected passing summary after first run")
	}
	view := m.View()
	if !strings.Contains(view, "ALL CRITICAL CHECKS PASSED") {
		t.Errorf("Expected closing verdict in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Python (critical)") {
		t.Errorf("Expected critical marker in view, got:\n%s", view)
	}
}

func TestModel_RerunOnR(t *testing.T) {
	suite := &fakeSuite{summary: testSummary(true)}
	m := finishRun(t, newTestModel(suite), newTestModel(suite).Init())

	suite.summary = testSummary(false)
	m, cmd := update(t, m, key("r"))
	if !m.running {
		t.Error("Expected running=true while re-running")
	}

	// A second r while running is ignored
	m, second := update(t, m, key("r"))
	if second != nil {
		t.Error("Expected no command while a run is in progress")
	}

	m = finishRun(t, m, cmd)
	sum, _ := m.Summary()
	if sum.CriticalOK {
		t.Error("Expected failing summary after re-run")
	}
	if m.runs != 2 {
		t.Errorf("Expected 2 runs, got %d", m.runs)
	}
	if !strings.Contains(m.View(), "SOME CRITICAL CHECKS FAILED") {
		t.Error("Expected failure verdict after re-run")
	}
}

func TestModel_RerunIgnoredDuringFirstRun(t *testing.T) {
	suite := &fakeSuite{summary: testSummary(true)}
	m := newTestModel(suite)
	initCmd := m.Init()

	m, cmd := update(t, m, key("r"))
	if cmd != nil {
		t.Error("Expected no second run while the first is in progress")
	}

	m = finishRun(t, m, initCmd)
	if suite.calls != 1 || m.running {
		t.Errorf("Expected exactly one finished run, got calls=%d running=%v", suite.calls, m.running)
	}
}

func TestModel_RerunSeesNewlyInstalledPackage(t *testing.T) {
	f := pythontest.New()
	builds := 0
	newSuite := func() SuiteRunner {
		builds++
		return check.NewSuite(nil, &pkgcheck.Packages{
			Probe:    python.NewProbe(f, "", time.Second, nil),
			Required: []string{"numpy"},
		})
	}

	var buf bytes.Buffer
	m := NewModel(context.Background(), newSuite, report.NewStyles(&buf), nil)
	m = finishRun(t, m, m.Init())

	sum, _ := m.Summary()
	if sum.Results[0].Passed {
		t.Fatal("Expected numpy to be missing on the first run")
	}

	f.WithModules(map[string]string{"numpy": "1.26.4"})
	m, cmd := update(t, m, key("r"))
	m = finishRun(t, m, cmd)

	sum, _ = m.Summary()
	if !sum.Results[0].Passed {
		t.Errorf("Expected numpy to be found after re-run, got lines %v", sum.Results[0].Lines)
	}
	if builds != 2 {
		t.Errorf("Expected a fresh suite per run, got %d builds", builds)
	}
	if runs := f.Runs(); len(runs) != 2 {
		t.Errorf("Expected one interpreter run per suite run, got %v", runs)
	}
}

func TestModel_NavigationWraps(t *testing.T) {
	suite := &fakeSuite{summary: testSummary(true)}
	m := finishRun(t, newTestModel(suite), newTestModel(suite).Init())

	m, _ = update(t, m, key("up"))
	if m.selection != len(check.Order)-1 {
		t.Errorf("Expected wrap to last check, got %d", m.selection)
	}
	m, _ = update(t, m, key("down"))
	if m.selection != 0 {
		t.Errorf("Expected wrap to first check, got %d", m.selection)
	}
}

func TestModel_DetailScreen(t *testing.T) {
	suite := &fakeSuite{summary: testSummary(false)}
	m := finishRun(t, newTestModel(suite), newTestModel(suite).Init())

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("enter"))
	if m.currentScreen != ScreenDetail {
		t.Fatalf("Expected detail screen, got %s", m.currentScreen)
	}
	view := m.View()
	if !strings.Contains(view, "GPU ok") || !strings.Contains(view, "Cause:") {
		t.Errorf("Expected GPU section with cause, got:\n%s", view)
	}

	m, _ = update(t, m, key("esc"))
	if m.currentScreen != ScreenReport {
		t.Errorf("Expected report screen after esc, got %s", m.currentScreen)
	}
}

func TestModel_EnterBeforeSummaryStaysOnReport(t *testing.T) {
	m := newTestModel(&fakeSuite{})

	m, _ = update(t, m, key("enter"))
	if m.currentScreen != ScreenReport {
		t.Errorf("Expected report screen, got %s", m.currentScreen)
	}
}

func TestModel_HelpScreen(t *testing.T) {
	m := newTestModel(&fakeSuite{})

	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "Re-run all checks") {
		t.Error("Expected help text")
	}
}

func TestModel_QuitOnQ(t *testing.T) {
	m := newTestModel(&fakeSuite{})

	m, cmd := update(t, m, key("q"))
	if !m.quitting {
		t.Error("Expected quitting to be true after 'q' key")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
	if m.View() != "" {
		t.Error("Expected empty view when quitting")
	}
}

func TestPrettyDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{2 * time.Second, "2s"},
		{1540 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		if got := prettyDuration(tt.in); got != tt.want {
			t.Errorf("prettyDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
