package report

import (
	"encoding/json"
	"fmt"
	"time"

	"envcheck/internal/check"
	"envcheck/internal/fsutil"
	"envcheck/internal/logging"
)

// Document is the machine-readable form of a run.
type Document struct {
	Timestamp   time.Time    `json:"timestamp"`
	DurationMS  int64        `json:"duration_ms"`
	CriticalOK  bool         `json:"critical_ok"`
	ExitCode    int          `json:"exit_code"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Checks      []CheckEntry `json:"checks"`
}

// CheckEntry is one check in a Document.
type CheckEntry struct {
	Name     string            `json:"name"`
	Passed   bool              `json:"passed"`
	Critical bool              `json:"critical"`
	Error    string            `json:"error,omitempty"`
	Lines    []check.Line      `json:"lines"`
	Facts    map[string]string `json:"facts,omitempty"`
}

// NewDocument converts a summary.
func NewDocument(sum check.Summary) Document {
	doc := Document{
		Timestamp:   sum.Started.UTC(),
		DurationMS:  sum.Finished.Sub(sum.Started).Milliseconds(),
		CriticalOK:  sum.CriticalOK,
		ExitCode:    sum.ExitCode(),
		Fingerprint: Fingerprint(sum),
		Checks:      make([]CheckEntry, 0, len(sum.Results)),
	}
	for _, r := range sum.Results {
		doc.Checks = append(doc.Checks, CheckEntry{
			Name:     r.Name,
			Passed:   r.Passed,
			Critical: sum.IsCritical(r.Name),
			Error:    r.ErrorText(),
			Lines:    r.Lines,
			Facts:    r.Facts,
		})
	}
	return doc
}

// Save writes the summary as indented JSON, atomically.
func Save(path string, sum check.Summary, logger *logging.Logger) error {
	data, err := json.MarshalIndent(NewDocument(sum), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.EnsureParentDir(path); err != nil {
		return err
	}
	if err := fsutil.AtomicWriteFile(path, data, fsutil.DefaultFilePermissions, logger); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("report.saved", "Report written", map[string]interface{}{
		"path":        path,
		"critical_ok": sum.CriticalOK,
	})
	return nil
}
