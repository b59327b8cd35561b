// Package report renders a check summary for the console and as JSON.
package report

import (
	"fmt"
	"strings"
	"time"

	"envcheck/internal/check"
)

// RuleWidth is the width of the "=" separator lines.
const RuleWidth = 60

// TimestampLayout formats the header timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

var markers = map[check.LineKind]string{
	check.KindOK:     "✅ ",
	check.KindWarn:   "⚠️  ",
	check.KindFail:   "❌ ",
	check.KindInfo:   "ℹ️  ",
	check.KindHint:   "→ ",
	check.KindDetail: "   ",
	check.KindText:   "",
}

var nextSteps = []string{
	"Next steps:",
	"  1. Start exploring in notebooks/",
	"  2. Put reusable code in lib/",
	"  3. Entry point scripts go in scripts/",
}

var commonFixes = []string{
	"Common fixes:",
	"  - Run 'uv sync' to install dependencies",
	"  - Check GPU passthrough in devcontainer.json",
	"  - Run 'nvidia-smi' to verify GPU access",
}

func (s Styles) rule() string {
	return s.Rule.Render(strings.Repeat("=", RuleWidth))
}

// Header renders the opening banner.
func (s Styles) Header(started time.Time) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.rule() + "\n")
	b.WriteString(s.Title.Render("ENVIRONMENT CHECK - "+started.Format(TimestampLayout)) + "\n")
	b.WriteString(s.rule() + "\n")
	return b.String()
}

// Section renders one check's heading and lines.
func (s Styles) Section(r check.Result) string {
	var b strings.Builder
	b.WriteString(s.Heading.Render(r.Title) + "\n")
	for _, line := range r.Lines {
		b.WriteString("   " + s.line(line) + "\n")
	}
	return b.String()
}

func (s Styles) line(l check.Line) string {
	text := markers[l.Kind] + l.Text
	switch l.Kind {
	case check.KindOK:
		return s.OK.Render(text)
	case check.KindWarn:
		return s.Warn.Render(text)
	case check.KindFail:
		return s.Fail.Render(text)
	case check.KindHint:
		return s.Hint.Render(text)
	case check.KindDetail:
		return s.Detail.Render(text)
	default:
		return s.Info.Render(text)
	}
}

// SummaryTable renders the per-check pass/fail list with critical markers.
func (s Styles) SummaryTable(sum check.Summary) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.rule() + "\n")
	b.WriteString(s.Title.Render("SUMMARY") + "\n")
	b.WriteString(s.rule() + "\n")
	for _, r := range sum.Results {
		status := s.OK.Render("✅")
		if !r.Passed {
			status = s.Fail.Render("❌")
		}
		critical := ""
		if sum.IsCritical(r.Name) {
			critical = "(critical)"
		}
		b.WriteString(fmt.Sprintf("   %s %s %s\n", status, r.Name, critical))
	}
	if fp := Fingerprint(sum); fp != "" {
		b.WriteString(s.Muted.Render("   Fingerprint: "+ShortFingerprint(fp)) + "\n")
	}
	return b.String()
}

// Closing renders the final verdict and guidance.
func (s Styles) Closing(sum check.Summary) string {
	var b strings.Builder
	b.WriteString("\n")
	if sum.CriticalOK {
		b.WriteString(s.OK.Render("✅ ALL CRITICAL CHECKS PASSED - Environment ready!") + "\n\n")
		b.WriteString(strings.Join(nextSteps, "\n") + "\n\n")
		b.WriteString(s.Hint.Render("💡 Tip: Open default.code-workspace to see data mounts in explorer") + "\n")
	} else {
		b.WriteString(s.Fail.Render("❌ SOME CRITICAL CHECKS FAILED") + "\n\n")
		b.WriteString(strings.Join(commonFixes, "\n") + "\n")
	}
	b.WriteString(s.rule() + "\n\n")
	return b.String()
}
