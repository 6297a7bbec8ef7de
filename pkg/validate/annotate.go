package validate

import (
	"strings"

	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/token"
)

// maxIndicatorMessages caps the messages carried by the block indicator.
const maxIndicatorMessages = 5

// Annotate attaches errs to the block: line error lists, span flags and
// messages, the block flag and the block indicator. Nothing is written when the
// annotation is already current. It reports whether anything changed.
func Annotate(block *document.Block, errs []diag.ErrorInfo) bool {
	groups := diag.GroupByLine(errs)
	spacesPerTab := block.Config().SpacesPerTab
	changed := false

	for i, line := range block.Lines {
		lineErrs := groups[i+1]
		if !diag.SameIDs(line.Errors, lineErrs) {
			line.Errors = lineErrs
			changed = true
		}

		marks := spanMarks(line, lineErrs, spacesPerTab)
		for j, child := range line.Children {
			msg, flagged := marks[j]
			if child.HasValidationError != flagged || child.ValidationMessage != msg {
				child.HasValidationError = flagged
				child.ValidationMessage = msg
				changed = true
			}
		}
	}

	hasErrors := len(errs) > 0
	if block.HasValidationError != hasErrors {
		block.HasValidationError = hasErrors
		changed = true
	}

	indicator := buildIndicator(errs)
	if !sameIndicator(block.Indicator, indicator) {
		block.Indicator = indicator
		changed = true
	}
	return changed
}

// spanMarks decides which children of a line carry which error messages. An
// error with a token marks spans whose text (quotes removed) equals it; one
// with a column marks the span at that column; otherwise all content spans
// that are not whitespace or punctuation are marked.
func spanMarks(line *document.Line, errs []diag.ErrorInfo, spacesPerTab int) map[int]string {
	marks := make(map[int]string)
	if len(errs) == 0 {
		return marks
	}

	add := func(idx int, msg string) {
		if existing, ok := marks[idx]; ok && existing != "" {
			if !strings.Contains(existing, msg) {
				marks[idx] = existing + "; " + msg
			}
			return
		}
		marks[idx] = msg
	}

	for _, e := range errs {
		matched := false

		if e.Token != "" {
			for j, child := range line.Children {
				if child.Kind == document.KindTab {
					continue
				}
				if child.Text == e.Token || strings.Trim(child.Text, `"'`) == e.Token {
					add(j, e.Message)
					matched = true
				}
			}
		}

		if !matched && e.Column > 0 {
			col := 1
			for j, child := range line.Children {
				width := child.Len()
				if child.Kind == document.KindTab {
					width = spacesPerTab
				}
				if e.Column >= col && e.Column < col+width && child.Kind != document.KindTab {
					add(j, e.Message)
					matched = true
					break
				}
				col += width
			}
		}

		if !matched {
			for j, child := range line.Children {
				if child.Kind == document.KindTab {
					continue
				}
				switch child.HighlightType {
				case token.Whitespace, token.Punctuation:
					continue
				case token.Plain, token.Key, token.String, token.Number, token.Boolean, token.Null, token.Comment:
				}
				add(j, e.Message)
				matched = true
			}
		}

		if !matched {
			// Punctuation-only line, such as a lone bracket.
			for j, child := range line.Children {
				if child.Kind != document.KindTab && child.HighlightType != token.Whitespace {
					add(j, e.Message)
				}
			}
		}
	}
	return marks
}

func buildIndicator(errs []diag.ErrorInfo) *document.ErrorIndicator {
	if len(errs) == 0 {
		return nil
	}
	indicator := &document.ErrorIndicator{Count: len(errs)}
	for i, e := range errs {
		if i == maxIndicatorMessages {
			break
		}
		indicator.Messages = append(indicator.Messages, e.String())
	}
	return indicator
}

func sameIndicator(a, b *document.ErrorIndicator) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Count != b.Count || len(a.Messages) != len(b.Messages) {
		return false
	}
	for i := range a.Messages {
		if a.Messages[i] != b.Messages[i] {
			return false
		}
	}
	return true
}
