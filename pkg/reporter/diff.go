package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/codeblock/internal/ui/pretty"
	"github.com/yaklabco/codeblock/pkg/diff"
)

// DiffWriter writes diffs between two documents.
type DiffWriter struct {
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffWriter creates a DiffWriter for opts.Writer.
func NewDiffWriter(opts Options) *DiffWriter {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	return &DiffWriter{
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// WriteDiff writes records side by side with old and new line numbers, fold
// markers included, followed by a change summary.
func (w *DiffWriter) WriteDiff(records []diff.Record, oldName, newName string) error {
	var b strings.Builder
	b.WriteString(w.styles.DiffRemove.Render("--- "+oldName) + "\n")
	b.WriteString(w.styles.DiffAdd.Render("+++ "+newName) + "\n")

	width := pretty.GutterWidth(records)
	for _, rec := range records {
		b.WriteString(w.styles.FormatDiffRecord(rec, width) + "\n")
	}
	b.WriteString(w.summary(records))

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

// WriteUnified writes records as a unified diff with @@ hunk headers.
func (w *DiffWriter) WriteUnified(records []diff.Record, oldName, newName string, contextLines int) error {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(diff.Unified(records, oldName, newName, contextLines), "\n"), "\n") {
		if line == "" {
			continue
		}
		b.WriteString(w.styleUnified(line) + "\n")
	}

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

func (w *DiffWriter) styleUnified(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return w.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return w.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return w.styles.DiffRemove.Render(line)
	default:
		return w.styles.DiffContext.Render(line)
	}
}

func (w *DiffWriter) summary(records []diff.Record) string {
	added, removed := diff.Stats(records)
	if added == 0 && removed == 0 {
		return w.styles.Dim.Render("No changes") + "\n"
	}

	var parts []string
	if added > 0 {
		parts = append(parts, w.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", added, plural(added, "insertion", "insertions"))))
	}
	if removed > 0 {
		parts = append(parts, w.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", removed, plural(removed, "deletion", "deletions"))))
	}
	return strings.Join(parts, ", ") + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
