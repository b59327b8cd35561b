package check

import (
	"context"
	"fmt"
	"slices"
	"time"

	"envcheck/internal/logging"
)

// Summary is the aggregated outcome of one run.
type Summary struct {
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
	Results    []Result  `json:"results"`
	Critical   []string  `json:"critical"`
	CriticalOK bool      `json:"critical_ok"`
}

// ExitCode is 0 when every critical check passed and 1 otherwise.
func (s Summary) ExitCode() int {
	if s.CriticalOK {
		return 0
	}
	return 1
}

// IsCritical reports whether name belongs to the critical set.
func (s Summary) IsCritical(name string) bool {
	return slices.Contains(s.Critical, name)
}

// Result looks up a result by check name.
func (s Summary) Result(name string) (Result, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Suite runs checks sequentially in a fixed order.
type Suite struct {
	checks   []Checker
	critical []string
	logger   *logging.Logger
	now      func() time.Time
}

// NewSuite creates a suite over checks using CriticalNames.
func NewSuite(logger *logging.Logger, checks ...Checker) *Suite {
	return &Suite{
		checks:   checks,
		critical: CriticalNames,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes every check, calling progress after each one. No check can
// stop the run: a panic becomes a failed result.
func (s *Suite) Run(ctx context.Context, progress func(Result)) Summary {
	summary := Summary{
		Started:  s.now(),
		Results:  make([]Result, 0, len(s.checks)),
		Critical: s.critical,
	}

	for _, c := range s.checks {
		result := s.runOne(ctx, c)
		summary.Results = append(summary.Results, result)
		if progress != nil {
			progress(result)
		}
	}

	summary.CriticalOK = criticalOK(summary.Results, s.critical)
	summary.Finished = s.now()

	s.logger.Info("suite.complete", "Environment checks finished", map[string]interface{}{
		"checks":      len(summary.Results),
		"critical_ok": summary.CriticalOK,
		"duration_ms": summary.Finished.Sub(summary.Started).Milliseconds(),
	})
	return summary
}

func (s *Suite) runOne(ctx context.Context, c Checker) (result Result) {
	name := c.Name()
	start := s.now()
	s.logger.Info("check.start", "Running check", map[string]interface{}{"check": name})

	defer func() {
		if rec := recover(); rec != nil {
			r := NewResult(name, c.Title())
			result = r.Failf("check aborted: %v", rec)
			s.logger.Error("check.panic", "Check panicked", map[string]interface{}{
				"check": name,
				"panic": fmt.Sprint(rec),
			})
		}
		// Names come from the checker so a result cannot masquerade as another check.
		result.Name = name
		s.logger.Info("check.done", "Check finished", map[string]interface{}{
			"check":       name,
			"passed":      result.Passed,
			"duration_ms": s.now().Sub(start).Milliseconds(),
		})
	}()

	return c.Run(ctx)
}

// criticalOK is the AND over the critical names. A critical check that did
// not run counts as failed.
func criticalOK(results []Result, critical []string) bool {
	for _, name := range critical {
		passed := false
		for _, r := range results {
			if r.Name == name {
				passed = r.Passed
				break
			}
		}
		if !passed {
			return false
		}
	}
	return true
}
