// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/codeblock/pkg/token"
)

// Styles contains all styled renderers for CLI and TUI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Error report components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	ErrorType  lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style
	DiffFold    lipgloss.Style
	LineNumber  lipgloss.Style

	// Token styles, by highlight class
	Tokens map[token.Type]lipgloss.Style

	// Editor surface
	Cursor    lipgloss.Style
	Selection lipgloss.Style
	ErrorSpan lipgloss.Style
	Preview   lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   fg("9").Bold(true),
		Warning: fg("11").Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   fg("8"),
		ErrorType:  fg("8"),
		Message:    lipgloss.NewStyle(),
		SourceLine: fg("7"),
		Caret:      fg("9"),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    fg("14"),
		DiffAdd:     fg("10"),
		DiffRemove:  fg("9"),
		DiffContext: fg("8"),
		DiffFold:    fg("12").Italic(true),
		LineNumber:  fg("8"),

		Tokens: map[token.Type]lipgloss.Style{
			token.Key:         fg("12"),
			token.String:      fg("10"),
			token.Number:      fg("13"),
			token.Boolean:     fg("11"),
			token.Null:        fg("11").Italic(true),
			token.Punctuation: fg("8"),
			token.Comment:     fg("8").Italic(true),
		},

		Cursor:    lipgloss.NewStyle().Reverse(true),
		Selection: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		ErrorSpan: fg("9").Underline(true),
		Preview:   fg("14").Italic(true),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      fg("10").Bold(true),
		Failure:      fg("9").Bold(true),

		TableHeader:    fg("7").Bold(true),
		TableErrorRow:  fg("9"),
		TableWarnRow:   fg("11"),
		TableSeparator: fg("8"),

		Dim:  fg("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting. The cursor stays
// reversed so the editor remains usable.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		FilePath:       plain,
		Location:       plain,
		ErrorType:      plain,
		Message:        plain,
		SourceLine:     plain,
		Caret:          plain,
		DiffHeader:     plain,
		DiffHunk:       plain,
		DiffAdd:        plain,
		DiffRemove:     plain,
		DiffContext:    plain,
		DiffFold:       plain,
		LineNumber:     plain,
		Tokens:         map[token.Type]lipgloss.Style{},
		Cursor:         plain.Reverse(true),
		Selection:      plain.Reverse(true),
		ErrorSpan:      plain,
		Preview:        plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableErrorRow:  plain,
		TableWarnRow:   plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// Token returns the style for a highlight class.
func (s *Styles) Token(t token.Type) lipgloss.Style {
	if style, ok := s.Tokens[t]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
