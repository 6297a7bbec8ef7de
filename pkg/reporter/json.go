package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/runner"
)

// jsonVersion identifies the layout of JSONOutput. Bump it on breaking changes.
const jsonVersion = "1.0.0"

// JSONOutput is the document written by JSONReporter.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult holds the diagnostics of one file, or the reason it could
// not be checked.
type JSONFileResult struct {
	Path     string           `json:"path"`
	Language string           `json:"language,omitempty"`
	Errors   []diag.ErrorInfo `json:"errors"`
	Error    string           `json:"error,omitempty"`
}

// JSONSummary mirrors runner.Stats with stable field names.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter emits a single JSON document per run.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter returns a reporter writing to opts.Writer.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts, bw: bufio.NewWriterSize(opts.Writer, bufWriterSize)}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	doc := JSONOutput{
		Version: jsonVersion,
		Files:   []JSONFileResult{},
		Summary: JSONSummary{BySeverity: map[string]int{}},
	}
	if result != nil {
		for _, outcome := range result.Files {
			doc.Files = append(doc.Files, r.fileEntry(outcome))
		}
		doc.Summary = summarize(result)
	}

	enc := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(&doc); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return doc.Summary.TotalIssues, nil
}

func (r *JSONReporter) fileEntry(outcome runner.FileOutcome) JSONFileResult {
	entry := JSONFileResult{
		Path:   displayPath(outcome.Path, r.opts.WorkingDir),
		Errors: []diag.ErrorInfo{},
	}
	if outcome.Error != nil {
		entry.Error = outcome.Error.Error()
	}
	if fr := outcome.Result; fr != nil {
		entry.Language = string(fr.Language)
		entry.Errors = append(entry.Errors, fr.Errors...)
	}
	return entry
}

// summarize converts the runner's counters. FilesChecked includes files that
// failed to load so it always equals the number of entries in Files.
func summarize(result *runner.Result) JSONSummary {
	stats := result.Stats
	summary := JSONSummary{
		FilesChecked:    len(result.Files),
		FilesWithIssues: stats.FilesWithIssues,
		FilesErrored:    stats.FilesErrored,
		TotalIssues:     stats.IssuesTotal,
		BySeverity:      make(map[string]int, len(stats.IssuesBySeverity)),
	}
	for severity, n := range stats.IssuesBySeverity {
		if n > 0 {
			summary.BySeverity[string(severity)] = n
		}
	}
	return summary
}
