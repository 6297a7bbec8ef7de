package runner

import (
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
)

// FileResult is the validation result for one file.
type FileResult struct {
	Path     string
	Language config.Language

	// Content is the file content, kept for source context in reports.
	Content []byte

	// Errors are sorted by line.
	Errors []diag.ErrorInfo
}

// FileOutcome pairs a discovered path with its result or error.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *FileResult

	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesWithIssues counts files with at least one error or warning.
	FilesWithIssues int

	IssuesTotal int

	// IssuesBySeverity maps "error" and "warning" to counts.
	IssuesBySeverity map[config.Severity]int
}

// Result is the outcome of a run.
type Result struct {
	// Files are in deterministic (sorted path) order.
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any error-severity issue was found.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.IssuesBySeverity[config.SeverityError] > 0
}

// HasWarnings reports whether any warning was found.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.IssuesBySeverity[config.SeverityWarning] > 0
}

// HasIssues reports whether anything was found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.IssuesTotal > 0
}

func newStats() Stats {
	return Stats{IssuesBySeverity: make(map[config.Severity]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if n := len(outcome.Result.Errors); n > 0 {
		r.Stats.FilesWithIssues++
		r.Stats.IssuesTotal += n
	}
	for _, e := range outcome.Result.Errors {
		severity := e.Severity
		if severity == "" {
			severity = config.SeverityError
		}
		r.Stats.IssuesBySeverity[severity]++
	}
}
