package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/runner"
)

const (
	tablePadding     = 2
	minFileWidth     = 16
	minMessageWidth  = 30
	defaultTermWidth = 100
	heavySeparator   = "="
	lightSeparator   = "-"
)

// TableRow is one error in the table.
type TableRow struct {
	File     string
	Location string
	Type     string
	Severity config.Severity
	Message  string
}

// TableFormatter formats validation results as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a table formatter for a terminal of termWidth
// columns; zero or negative uses a default width.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// ErrorToTableRow converts one error of a file into a row.
func ErrorToTableRow(path string, e diag.ErrorInfo) TableRow {
	loc := fmt.Sprintf("%d", e.Line)
	if e.Column > 0 {
		loc += fmt.Sprintf(":%d", e.Column)
	}
	if e.EndLine > e.Line {
		loc += fmt.Sprintf("-%d", e.EndLine)
	}
	return TableRow{File: path, Location: loc, Type: string(e.Type), Severity: e.Severity, Message: e.Message}
}

type tableWidths struct {
	file, loc, typ, message int
}

// FormatTable renders every error of the run as one table.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	var rows []TableRow
	for _, f := range result.Files {
		if f.Result == nil {
			continue
		}
		for _, e := range f.Result.Errors {
			rows = append(rows, ErrorToTableRow(f.Path, e))
		}
	}
	if len(rows) == 0 {
		return ""
	}

	w := t.widths(rows)
	total := w.file + w.loc + w.typ + w.message + 3*tablePadding

	var b strings.Builder
	b.WriteString(t.formatRow(t.styles.TableHeader, TableRow{File: "FILE", Location: "LOC", Type: "TYPE", Message: "MESSAGE"}, w))
	b.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")

	prev := ""
	for _, row := range rows {
		if prev != "" && row.File != prev {
			b.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)) + "\n")
		}
		style := t.styles.TableErrorRow
		if row.Severity == config.SeverityWarning {
			style = t.styles.TableWarnRow
		}
		if row.File == prev {
			row.File = ""
		} else {
			prev = row.File
		}
		b.WriteString(t.formatRow(style, row, w))
	}
	return b.String()
}

func (t *TableFormatter) widths(rows []TableRow) tableWidths {
	w := tableWidths{file: len("FILE"), loc: len("LOC"), typ: len("TYPE")}
	for _, row := range rows {
		w.file = max(w.file, lipgloss.Width(row.File))
		w.loc = max(w.loc, len(row.Location))
		w.typ = max(w.typ, len(row.Type))
	}

	// The message column takes the rest; the file column shrinks first.
	fixed := w.loc + w.typ + 3*tablePadding
	w.message = t.termWidth - fixed - w.file
	if w.message < minMessageWidth {
		w.file = max(minFileWidth, w.file-(minMessageWidth-w.message))
		w.message = max(minMessageWidth, t.termWidth-fixed-w.file)
	}
	return w
}

func (t *TableFormatter) formatRow(style lipgloss.Style, row TableRow, w tableWidths) string {
	pad := strings.Repeat(" ", tablePadding)
	cell := func(s string, width int) string {
		s = fit(s, width)
		return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
	}
	line := cell(row.File, w.file) + pad + cell(row.Location, w.loc) + pad +
		cell(row.Type, w.typ) + pad + fit(row.Message, w.message)
	return style.Render(strings.TrimRight(line, " ")) + "\n"
}

// fit shortens s to width columns with a trailing ellipsis. Text that already
// fits is returned unchanged since the tail counts against the width.
func fit(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…") //nolint:gosec // width is positive.
}
