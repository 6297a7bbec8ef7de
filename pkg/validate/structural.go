package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/value"
)

var (
	// completePair matches a `"key": value` line that does not end in a comma
	// or an opening delimiter.
	completePair = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"\s*:\s*\S.*[^,{\[\s]$|^"(?:[^"\\]|\\.)*"\s*:\s*[^,{\[\s]$`)

	// completeValue matches a line ending an element: a closer or scalar.
	completeValue = regexp.MustCompile(`^(?:[}\]]|"(?:[^"\\]|\\.)*"|-?\d[\d.eE+-]*|true|false|null)$`)

	// keyStart matches a line that begins a new property.
	keyStart = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"\s*:`)
)

// structuralErrors classifies a parse failure: an unclosed region, a missing
// comma between properties, or a generic syntax error at the failure line.
func (v *Validator) structuralErrors(text string, lang config.Language, serr *value.SyntaxError) []diag.ErrorInfo {
	if lang == config.LanguageJSON {
		if region, ok := innermostUnclosed(text, serr.Line); ok {
			return v.regionErrors(diag.TypeStructural, sourceStructural, region)
		}
		if line, ok := missingComma(text, serr.Line); ok {
			return []diag.ErrorInfo{
				diag.NewError(diag.TypeStructural, line, "Missing comma after this property").
					WithSource(sourceStructural).Build(),
			}
		}
	}

	msg := serr.Message
	if msg == "" {
		msg = "invalid syntax"
	}
	return []diag.ErrorInfo{
		diag.NewError(diag.TypeStructural, serr.Line, "Syntax error: "+msg).
			WithColumn(serr.Column).WithSource(sourceStructural).Build(),
	}
}

// innermostUnclosed returns the unclosed region whose opener is nearest above
// the failure line.
func innermostUnclosed(text string, failLine int) (unclosedRegion, bool) {
	scan := scanBrackets(text)

	best := -1
	for i, region := range scan.unclosed {
		if region.open.line > failLine {
			continue
		}
		if best < 0 || region.open.line > scan.unclosed[best].open.line ||
			(region.open.line == scan.unclosed[best].open.line && region.open.column > scan.unclosed[best].open.column) {
			best = i
		}
	}
	if best < 0 {
		return unclosedRegion{}, false
	}
	return scan.unclosed[best], true
}

// missingComma reports the line that lacks a trailing comma when the failure
// line starts a new key and the previous non-blank line is a complete element.
func missingComma(text string, failLine int) (int, bool) {
	lines := strings.Split(text, "\n")
	if failLine < 2 || failLine > len(lines) {
		return 0, false
	}

	current := strings.TrimSpace(lines[failLine-1])
	if !keyStart.MatchString(current) {
		return 0, false
	}

	prev := lastContentLine(lines, failLine-1)
	if prev == 0 {
		return 0, false
	}
	prevText := strings.TrimSpace(lines[prev-1])
	if completePair.MatchString(prevText) || completeValue.MatchString(prevText) {
		return prev, true
	}
	return 0, false
}

// describe is used in messages for values of unexpected type.
func describe(v any) string {
	s, err := value.Format(v, config.LanguageJSON)
	if err != nil || strings.Contains(s, "\n") {
		return fmt.Sprintf("%T", v)
	}
	return s
}
