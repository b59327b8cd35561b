package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"envcheck/internal/report"
)

func (m Model) renderReportScreen() string {
	var b strings.Builder

	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)

	if !m.hasSummary {
		b.WriteString(m.styles.Title.Render("ENVIRONMENT CHECK") + "\n\n")
		b.WriteString("Running checks...\n")
		return b.String()
	}

	b.WriteString(m.styles.Header(m.summary.Started))
	b.WriteString("\n")
	for i, r := range m.summary.Results {
		status := m.styles.OK.Render("✅")
		if !r.Passed {
			status = m.styles.Fail.Render("❌")
		}
		label := r.Name
		if m.summary.IsCritical(r.Name) {
			label += " (critical)"
		}
		if i == m.selection {
			label = selectedStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("   %s %s\n", status, label))
	}

	if fp := report.Fingerprint(m.summary); fp != "" {
		b.WriteString(m.styles.Muted.Render("   Fingerprint: "+report.ShortFingerprint(fp)) + "\n")
	}
	b.WriteString(m.styles.Closing(m.summary))

	status := fmt.Sprintf("Run #%d finished in %s", m.runs, prettyDuration(m.summary.Finished.Sub(m.summary.Started)))
	if m.running {
		status = "Re-running checks..."
	}
	b.WriteString(m.styles.Muted.Render(status) + "\n")
	b.WriteString(m.styles.Hint.Render("↑/↓ select • enter details • r re-run • ? help • q quit") + "\n")
	return b.String()
}

func (m Model) renderDetailScreen() string {
	if !m.hasSummary || m.selection >= len(m.summary.Results) {
		return m.renderReportScreen()
	}

	var b strings.Builder
	r := m.summary.Results[m.selection]
	b.WriteString("\n")
	b.WriteString(m.styles.Section(r))
	if r.Err != nil {
		b.WriteString("\n" + m.styles.Fail.Render("   Cause: "+r.ErrorText()) + "\n")
	}
	b.WriteString("\n" + m.styles.Hint.Render("↑/↓ next check • esc back • r re-run • q quit") + "\n")
	return b.String()
}

func (m Model) renderHelpScreen() string {
	var b strings.Builder

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af")).Bold(true)

	b.WriteString(m.styles.Title.Render("Key bindings") + "\n\n")
	bindings := [][2]string{
		{"↑/k ↓/j", "Select check"},
		{"enter", "Show check details"},
		{"esc", "Back to report"},
		{"r", "Re-run all checks"},
		{"q", "Quit"},
	}
	for _, kb := range bindings {
		b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-8s", kb[0])), kb[1]))
	}
	b.WriteString("\n" + m.styles.Hint.Render("esc back") + "\n")
	return b.String()
}

func prettyDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}
