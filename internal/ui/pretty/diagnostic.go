package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
)

// FormatError formats a single validation error for terminal output.
func (s *Styles) FormatError(path string, e diag.ErrorInfo, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), e.Line)
	if e.Column > 0 {
		location += fmt.Sprintf(":%d", e.Column)
	}
	if e.EndLine > e.Line {
		location += s.Location.Render(fmt.Sprintf("-%d", e.EndLine))
	}

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(e.Severity),
		s.Message.Render(e.Message),
		s.ErrorType.Render("("+string(e.Type)+")"),
	)

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, caretColumn(e, sourceLine)))
	}

	return builder.String()
}

// caretColumn places the marker at the column, else under the offending token.
func caretColumn(e diag.ErrorInfo, line string) int {
	if e.Column > 0 {
		return e.Column
	}
	if e.Token == "" {
		return 0
	}
	if idx := strings.Index(line, e.Token); idx >= 0 {
		return len([]rune(line[:idx])) + 1
	}
	return 0
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	default:
		return s.Error.Render("error")
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
