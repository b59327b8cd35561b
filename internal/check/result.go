package check

import (
	"errors"
	"fmt"
)

// LineKind classifies a report line; the renderer picks the marker from it.
type LineKind string

const (
	KindOK     LineKind = "ok"
	KindWarn   LineKind = "warn"
	KindFail   LineKind = "fail"
	KindInfo   LineKind = "info"
	KindHint   LineKind = "hint"
	KindDetail LineKind = "detail"
	KindText   LineKind = "text"
)

// Line is one printed line of a check section.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string            `json:"name"`  // e.g. "GPU", "Dev Tools"
	Title  string            `json:"title"` // section heading
	Passed bool              `json:"passed"`
	Lines  []Line            `json:"lines"`
	Facts  map[string]string `json:"facts,omitempty"` // detected versions, fingerprint input
	Err    error             `json:"-"`
}

// NewResult starts an empty, not yet passed result.
func NewResult(name, title string) *Result {
	return &Result{Name: name, Title: title}
}

func (r *Result) add(kind LineKind, format string, args ...interface{}) *Result {
	r.Lines = append(r.Lines, Line{Kind: kind, Text: fmt.Sprintf(format, args...)})
	return r
}

// Okf appends a success line.
func (r *Result) Okf(format string, args ...interface{}) *Result {
	return r.add(KindOK, format, args...)
}

// Warnf appends a warning line. Warnings never change the outcome.
func (r *Result) Warnf(format string, args ...interface{}) *Result {
	return r.add(KindWarn, format, args...)
}

// Errorf appends a failure line without finishing the result.
func (r *Result) Errorf(format string, args ...interface{}) *Result {
	return r.add(KindFail, format, args...)
}

// Infof appends a neutral line.
func (r *Result) Infof(format string, args ...interface{}) *Result {
	return r.add(KindInfo, format, args...)
}

// Hintf appends a remediation hint.
func (r *Result) Hintf(format string, args ...interface{}) *Result {
	return r.add(KindHint, format, args...)
}

// Detailf appends an indented sub-line (e.g. one line per GPU).
func (r *Result) Detailf(format string, args ...interface{}) *Result {
	return r.add(KindDetail, format, args...)
}

// Textf appends an unmarked line such as "Version: 3.12.3".
func (r *Result) Textf(format string, args ...interface{}) *Result {
	return r.add(KindText, format, args...)
}

// Fact records a detected value such as a module version.
func (r *Result) Fact(key, value string) *Result {
	if r.Facts == nil {
		r.Facts = make(map[string]string)
	}
	r.Facts[key] = value
	return r
}

// Failf appends a failure line and finishes the result as failed.
func (r *Result) Failf(format string, args ...interface{}) Result {
	msg := fmt.Sprintf(format, args...)
	r.add(KindFail, "%s", msg)
	return r.Fail(errors.New(msg))
}

// Fail finishes the result as failed with err as the cause.
func (r *Result) Fail(err error) Result {
	r.Passed = false
	r.Err = err
	return *r
}

// Pass finishes the result as passed.
func (r *Result) Pass() Result {
	r.Passed = true
	r.Err = nil
	return *r
}

// Finish sets the outcome explicitly.
func (r *Result) Finish(passed bool) Result {
	if passed {
		return r.Pass()
	}
	return r.Fail(nil)
}

// ErrorText returns the failure cause or an empty string.
func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
