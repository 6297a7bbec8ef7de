package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/diff"
	"github.com/yaklabco/codeblock/pkg/reporter"
	"github.com/yaklabco/codeblock/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "sarif is not supported", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatJSON, true},
		{reporter.FormatTable, true},
		{reporter.Format("unknown"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text", format: reporter.FormatText},
		{name: "json", format: reporter.FormatJSON},
		{name: "table", format: reporter.FormatTable},
		{name: "empty defaults to text", format: ""},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.NotNil(t, opts.Writer)
}

func createTestResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/work/config/app.json",
				Result: &runner.FileResult{
					Path:     "/work/config/app.json",
					Language: config.LanguageJSON,
					Content:  []byte("{\n  \"name\": \"demo\",\n  \"port\": \"80\"\n"),
					Errors: []diag.ErrorInfo{
						{ID: "a", Line: 3, Type: diag.TypeSchema, Severity: config.SeverityWarning, Message: "expected number", Token: "\"80\""},
						{ID: "b", Line: 4, Type: diag.TypeBracket, Severity: config.SeverityError, Message: "unclosed '{'"},
					},
				},
			},
			{
				Path:   "/work/config/ok.yaml",
				Result: &runner.FileResult{Path: "/work/config/ok.yaml", Language: config.LanguageYAML},
			},
			{
				Path:  "/work/config/gone.json",
				Error: errors.New("read gone.json: permission denied"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesProcessed:  2,
			FilesErrored:    1,
			FilesWithIssues: 1,
			IssuesTotal:     2,
			IssuesBySeverity: map[config.Severity]int{
				config.SeverityError:   1,
				config.SeverityWarning: 1,
			},
		},
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_WithErrors(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		ShowContext: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "config/app.json (2 issues)")
	assert.Contains(t, output, "config/app.json:3")
	assert.Contains(t, output, "expected number")
	assert.Contains(t, output, "(schema)")
	assert.Contains(t, output, `"port": "80"`)
	assert.Contains(t, output, "config/gone.json: error: read gone.json: permission denied")
	assert.NotContains(t, output, "ok.yaml")
	assert.Contains(t, output, "2 issues (1 error, 1 warning) in 1 file, 1 unreadable")
	assert.NotContains(t, output, "/work/")
}

func TestTextReporter_NoContext(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), `"port": "80"`)
	assert.NotContains(t, buf.String(), "2 issues (")
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithErrors(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 3)

	first := output.Files[0]
	assert.Equal(t, "config/app.json", first.Path)
	assert.Equal(t, "json", first.Language)
	require.Len(t, first.Errors, 2)
	assert.Equal(t, diag.TypeSchema, first.Errors[0].Type)
	assert.Equal(t, 3, first.Errors[0].Line)

	assert.NotNil(t, output.Files[1].Errors)
	assert.Empty(t, output.Files[1].Errors)
	assert.Contains(t, output.Files[2].Error, "permission denied")

	assert.Equal(t, 3, output.Summary.FilesChecked)
	assert.Equal(t, 1, output.Summary.FilesWithIssues)
	assert.Equal(t, 1, output.Summary.FilesErrored)
	assert.Equal(t, 2, output.Summary.TotalIssues)
	assert.Equal(t, map[string]int{"error": 1, "warning": 1}, output.Summary.BySeverity)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "config/app.json")
	assert.Contains(t, output, "expected number")
	assert.Contains(t, output, "Summary")
}

func TestDiffWriter_WriteDiff(t *testing.T) {
	records := diff.Lines([]string{"a", "b"}, []string{"a", "c"})

	var buf bytes.Buffer
	w := reporter.NewDiffWriter(reporter.Options{Writer: &buf, Color: "never"})
	require.NoError(t, w.WriteDiff(records, "old.json", "new.json"))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "--- old.json\n+++ new.json\n"))
	assert.Contains(t, output, "- b")
	assert.Contains(t, output, "+ c")
	assert.Contains(t, output, "1 insertion(+), 1 deletion(-)")
}

func TestDiffWriter_NoChanges(t *testing.T) {
	records := diff.Lines([]string{"a"}, []string{"a"})

	var buf bytes.Buffer
	w := reporter.NewDiffWriter(reporter.Options{Writer: &buf, Color: "never"})
	require.NoError(t, w.WriteDiff(records, "a", "b"))
	assert.Contains(t, buf.String(), "No changes")
}

func TestDiffWriter_WriteUnified(t *testing.T) {
	records := diff.Lines([]string{"a", "b"}, []string{"a", "c"})

	var buf bytes.Buffer
	w := reporter.NewDiffWriter(reporter.Options{Writer: &buf, Color: "never"})
	require.NoError(t, w.WriteUnified(records, "old.json", "new.json", 3))

	output := buf.String()
	assert.Contains(t, output, "@@")
	assert.Contains(t, output, "-b\n")
	assert.Contains(t, output, "+c\n")
}
