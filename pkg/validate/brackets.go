package validate

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codeblock/pkg/diag"
)

// bracket is an opening or closing delimiter and where it appears.
type bracket struct {
	char   byte
	line   int
	column int
}

// unclosedRegion is an opener without a matching closer. lastLine is the last
// non-blank line that belongs to the region.
type unclosedRegion struct {
	open     bracket
	lastLine int
}

type mismatch struct {
	open  bracket
	close bracket
}

// bracketScan is the result of one pass over the text.
type bracketScan struct {
	unclosed   []unclosedRegion
	unmatched  []bracket
	mismatched []mismatch
}

var pairs = map[byte]byte{'{': '}', '[': ']'}

func kindName(open byte) string {
	if open == '[' {
		return "array"
	}
	return "object"
}

// scanBrackets matches delimiters outside strings and comments. A closer that
// does not match the innermost opener but matches an enclosing one closes the
// inner openers implicitly; they are reported as unclosed.
func scanBrackets(text string) bracketScan {
	var res bracketScan
	var stack []bracket
	lines := strings.Split(text, "\n")

	inString, escaped := false, false
	inBlockComment := false

	for li, lineText := range lines {
		lineNo := li + 1
		for ci := 0; ci < len(lineText); ci++ {
			c := lineText[ci]

			switch {
			case inBlockComment:
				if c == '*' && ci+1 < len(lineText) && lineText[ci+1] == '/' {
					inBlockComment = false
					ci++
				}
				continue
			case inString:
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}

			switch c {
			case '"':
				inString = true
			case '/':
				if ci+1 < len(lineText) && lineText[ci+1] == '/' {
					ci = len(lineText)
				} else if ci+1 < len(lineText) && lineText[ci+1] == '*' {
					inBlockComment = true
					ci++
				}
			case '{', '[':
				stack = append(stack, bracket{char: c, line: lineNo, column: ci + 1})
			case '}', ']':
				closer := bracket{char: c, line: lineNo, column: ci + 1}
				if len(stack) == 0 {
					res.unmatched = append(res.unmatched, closer)
					continue
				}
				top := stack[len(stack)-1]
				if pairs[top.char] == c {
					stack = stack[:len(stack)-1]
					continue
				}

				res.mismatched = append(res.mismatched, mismatch{open: top, close: closer})
				match := -1
				for i := len(stack) - 1; i >= 0; i-- {
					if pairs[stack[i].char] == c {
						match = i
						break
					}
				}
				if match < 0 {
					continue
				}
				last := lastContentLine(lines, lineNo-1)
				if strings.TrimSpace(lineText[:ci]) != "" {
					last = lineNo
				}
				for i := len(stack) - 1; i > match; i-- {
					res.unclosed = append(res.unclosed, unclosedRegion{open: stack[i], lastLine: last})
				}
				stack = stack[:match]
			}
		}
		// Strings do not span lines in JSON.
		inString, escaped = false, false
	}

	last := lastContentLine(lines, len(lines))
	for i := len(stack) - 1; i >= 0; i-- {
		res.unclosed = append(res.unclosed, unclosedRegion{open: stack[i], lastLine: last})
	}
	return res
}

// lastContentLine returns the 1-based number of the last non-blank line at or
// before line upTo (1-based), or 0.
func lastContentLine(lines []string, upTo int) int {
	if upTo > len(lines) {
		upTo = len(lines)
	}
	for i := upTo; i >= 1; i-- {
		if strings.TrimSpace(lines[i-1]) != "" {
			return i
		}
	}
	return 0
}

// bracketErrors reports unmatched, mismatched and unclosed delimiters.
func (v *Validator) bracketErrors(text string) []diag.ErrorInfo {
	scan := scanBrackets(text)
	var errs []diag.ErrorInfo

	for _, b := range scan.unmatched {
		errs = append(errs, diag.NewError(diag.TypeBracket, b.line,
			fmt.Sprintf("Unmatched closing '%c'", b.char)).
			WithColumn(b.column).WithToken(string(b.char)).WithSource(sourceBracket).Build())
	}

	for _, m := range scan.mismatched {
		errs = append(errs, diag.NewError(diag.TypeBracket, m.close.line,
			fmt.Sprintf("Mismatched '%c': expected '%c' to close '%c' from line %d",
				m.close.char, pairs[m.open.char], m.open.char, m.open.line)).
			WithColumn(m.close.column).WithToken(string(m.close.char)).WithSource(sourceBracket).Build())
	}

	for _, region := range scan.unclosed {
		errs = append(errs, v.regionErrors(diag.TypeBracket, sourceBracket, region)...)
	}
	return errs
}

// regionErrors reports an unclosed region as one error on its opening line and
// one on its last content line, instead of one per line in between.
func (v *Validator) regionErrors(typ diag.Type, source string, region unclosedRegion) []diag.ErrorInfo {
	open := region.open
	name := kindName(open.char)

	first := diag.NewError(typ, open.line,
		fmt.Sprintf("Unclosed %s: opening '%c' has no matching '%c'", name, open.char, pairs[open.char])).
		WithColumn(open.column).WithToken(string(open.char)).WithSource(source)

	if region.lastLine <= open.line {
		return []diag.ErrorInfo{first.Build()}
	}

	end := region.lastLine
	if span := v.cfg.MaxBlockErrorSpan; span > 0 && end-open.line+1 > span {
		end = open.line + span - 1
	}
	first.WithEndLine(end)

	last := diag.NewError(typ, region.lastLine,
		fmt.Sprintf("Last content of unclosed %s opened on line %d", name, open.line)).
		WithSource(source).Build()

	return []diag.ErrorInfo{first.Build(), last}
}
