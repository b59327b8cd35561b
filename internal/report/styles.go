package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for the console report. On a
// non-terminal writer lipgloss renders them as plain text.
type Styles struct {
	Rule    lipgloss.Style
	Title   lipgloss.Style
	Heading lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Fail    lipgloss.Style
	Info    lipgloss.Style
	Hint    lipgloss.Style
	Detail  lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles bound to the color profile of w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Rule:    r.NewStyle().Foreground(lipgloss.Color("#808080")),
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")),
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")),
		OK:      r.NewStyle().Foreground(lipgloss.Color("#87d7af")),
		Warn:    r.NewStyle().Foreground(lipgloss.Color("#ffaf5f")),
		Fail:    r.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true),
		Info:    r.NewStyle().Foreground(lipgloss.Color("#ffffff")),
		Hint:    r.NewStyle().Foreground(lipgloss.Color("#5fafff")),
		Detail:  r.NewStyle().Foreground(lipgloss.Color("#d0d0d0")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
	}
}
