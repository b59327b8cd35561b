package report

import (
	"fmt"
	"io"
	"time"

	"envcheck/internal/check"
)

// Printer streams the report to a writer as checks finish.
type Printer struct {
	out      io.Writer
	styles   Styles
	sections int
}

// NewPrinter creates a printer styled for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, styles: NewStyles(w)}
}

// Start prints the header.
func (p *Printer) Start(started time.Time) {
	p.sections = 0
	fmt.Fprint(p.out, p.styles.Header(started))
}

// Progress prints one finished check. It matches the suite progress callback.
func (p *Printer) Progress(r check.Result) {
	if p.sections > 0 {
		fmt.Fprintln(p.out)
	}
	p.sections++
	fmt.Fprint(p.out, p.styles.Section(r))
}

// Finish prints the summary table and closing guidance.
func (p *Printer) Finish(sum check.Summary) {
	fmt.Fprint(p.out, p.styles.SummaryTable(sum))
	fmt.Fprint(p.out, p.styles.Closing(sum))
}
