// Package diag defines validation feedback for code blocks and an in-memory
// store that publishes it to subscribers.
package diag

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/yaklabco/codeblock/pkg/config"
)

// Type classifies the source of an error.
type Type string

// Error types.
const (
	TypeSyntax     Type = "syntax"
	TypeBracket    Type = "bracket"
	TypeValidation Type = "validation"
	TypeStructural Type = "structural"
	TypeSchema     Type = "schema"
)

// ErrorInfo is a single piece of validation feedback attached to a line.
type ErrorInfo struct {
	// ID identifies the error; equal IDs describe the same problem.
	ID string `json:"id"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Line is the 1-based line the error is attached to (0 if unknown).
	Line int `json:"line,omitempty"`

	// Column is the 1-based column (0 if unknown).
	Column int `json:"column,omitempty"`

	// EndLine is the last line of a multi-line block error (0 for single-line).
	EndLine int `json:"endLine,omitempty"`

	// Type classifies the error.
	Type Type `json:"type"`

	// Severity is error or warning.
	Severity config.Severity `json:"severity"`

	// Token is the offending literal, property name or type name, used to mark
	// matching highlight spans. Empty marks the whole line.
	Token string `json:"token,omitempty"`

	// Source names the pass that produced the error.
	Source string `json:"source,omitempty"`
}

// String formats the error as "line:col type: message".
func (e ErrorInfo) String() string {
	if e.Column > 0 {
		return fmt.Sprintf("%d:%d %s: %s", e.Line, e.Column, e.Type, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Line, e.Type, e.Message)
}

// IsError reports whether the severity is error.
func (e ErrorInfo) IsError() bool {
	return e.Severity != config.SeverityWarning
}

// Builder constructs ErrorInfo values.
type Builder struct {
	info ErrorInfo
}

// NewError starts building an error of the given type on a line.
func NewError(typ Type, line int, message string) *Builder {
	return &Builder{info: ErrorInfo{
		Type:     typ,
		Line:     line,
		Message:  message,
		Severity: config.SeverityError,
	}}
}

// WithColumn sets the column.
func (b *Builder) WithColumn(col int) *Builder {
	b.info.Column = col
	return b
}

// WithEndLine sets the last line of a block error.
func (b *Builder) WithEndLine(line int) *Builder {
	b.info.EndLine = line
	return b
}

// WithToken sets the offending token text.
func (b *Builder) WithToken(tok string) *Builder {
	b.info.Token = tok
	return b
}

// WithSeverity sets the severity.
func (b *Builder) WithSeverity(s config.Severity) *Builder {
	b.info.Severity = s
	return b
}

// WithSource names the producing pass.
func (b *Builder) WithSource(source string) *Builder {
	b.info.Source = source
	return b
}

// Build returns the ErrorInfo with a stable ID derived from its content.
func (b *Builder) Build() ErrorInfo {
	info := b.info
	info.ID = stableID(info)
	return info
}

// stableID hashes the identifying fields so re-validation of unchanged content
// yields the same IDs.
func stableID(e ErrorInfo) string {
	h := xxhash.New()
	_, _ = h.WriteString(string(e.Type))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strconv.Itoa(e.Line))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strconv.Itoa(e.Column))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(e.Message)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(e.Token)
	return fmt.Sprintf("%s-%d-%016x", e.Type, e.Line, h.Sum64())
}

// Merge concatenates error lists, drops duplicate IDs (first wins) and sorts by
// line, column, type and message.
func Merge(lists ...[]ErrorInfo) []ErrorInfo {
	seen := make(map[string]bool)
	var out []ErrorInfo
	for _, list := range lists {
		for _, e := range list {
			if e.ID == "" {
				e.ID = stableID(e)
			}
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	Sort(out)
	return out
}

// Sort orders errors by position, then type and message.
func Sort(errs []ErrorInfo) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Message < b.Message
	})
}

// GroupByLine indexes errors by their line. Errors without a line are grouped
// under line 1.
func GroupByLine(errs []ErrorInfo) map[int][]ErrorInfo {
	groups := make(map[int][]ErrorInfo)
	for _, e := range errs {
		line := e.Line
		if line < 1 {
			line = 1
		}
		groups[line] = append(groups[line], e)
	}
	return groups
}

// Count returns the number of errors and warnings.
func Count(errs []ErrorInfo) (int, int) {
	var errors, warnings int
	for _, e := range errs {
		if e.IsError() {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

// SameIDs reports whether two lists contain the same IDs in the same order.
func SameIDs(a, b []ErrorInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
