package paste

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/value"
)

// Pipeline applies pastes to blocks.
type Pipeline struct {
	// Members inserts the members of a pasted object, rather than the object
	// itself, when the caret sits on an empty line inside a JSON object.
	Members bool
}

// New returns a pipeline with member insertion enabled.
func New() *Pipeline {
	return &Pipeline{Members: true}
}

// piece is one pasted line: indentation units and the remaining text.
type piece struct {
	tabs int
	text string
}

// Apply inserts text at pos and returns the caret at the end of the inserted
// content. The current line is split at the caret; the part before the caret
// joins the first pasted line and the part after joins the last.
func (p *Pipeline) Apply(block *document.Block, pos caret.Position, raw string) caret.Position {
	line := block.Line(pos.Line)
	if line == nil {
		return pos
	}

	prep := Prepare(raw, block.Language)
	if prep.Text == "" {
		return pos
	}

	cfg := block.Config()
	lineText := []rune(line.Text())
	col := min(caret.Column(block, pos), len(lineText))
	indent := line.Indent()
	if col < indent && line.IsBlank() {
		col = indent
	}
	beforeTabs := min(col, indent)
	beforeText := string(lineText[beforeTabs:col])
	// afterTabs are the indentation units to the right of a caret that sits
	// inside the leading tab run. They follow the pasted text.
	afterTabs := max(indent-col, 0)
	afterText := string(lineText[max(col, indent):])

	pieces := p.members(block, pos.Line, prep, beforeTabs, beforeText, afterText)
	if pieces == nil {
		pieces = split(prep, cfg.SpacesPerTab)
	}

	build := func(tabs int, content string, rawCode bool) *document.Line {
		if rawCode {
			return block.BuildRawLine(content, tabs)
		}
		built := block.NewLine()
		for range tabs {
			built.Children = append(built.Children, block.NewTab())
		}
		built.Children = append(built.Children, block.Tokens(content)...)
		return built
	}

	var newLines []*document.Line
	endCol := 0
	last := len(pieces) - 1
	for i, pc := range pieces {
		content := pc.text
		tabs := indent + pc.tabs
		if i == 0 {
			content = beforeText + content
			tabs = beforeTabs
			if strings.TrimSpace(beforeText) == "" {
				tabs += pc.tabs
			}
		}
		var built *document.Line
		switch {
		case i != last:
			built = build(tabs, content, prep.Code && i != 0)
		case afterTabs > 0 && pc.text != "":
			endCol = tabs + utf8.RuneCountInString(content)
			built = build(tabs, content, false)
			for range afterTabs {
				built.Children = append(built.Children, block.NewTab())
			}
			if afterText != "" {
				built.Children = append(built.Children, block.Tokens(afterText)...)
			}
		default:
			endCol = tabs + utf8.RuneCountInString(content)
			if i == 0 {
				tabs += afterTabs
			}
			built = build(tabs, content+afterText, false)
		}
		if i == 0 {
			// The caret line keeps its identity.
			line.Children = built.Children
			built = line
		}
		newLines = append(newLines, built)
	}

	if len(newLines) > 1 {
		block.InsertLine(pos.Line+1, newLines[1:]...)
	}
	block.RecomputeFoldable()
	block.RecomputeHidden()

	return caret.Locate(block, pos.Line+last, endCol)
}

// split breaks prepared text into pieces. Code keeps its whitespace; document
// text has leading spaces converted to indentation units.
func split(prep Prepared, spacesPerTab int) []piece {
	width := spacesPerTab
	if prep.Formatted {
		width = formatIndent
	}

	lines := strings.Split(prep.Text, "\n")
	pieces := make([]piece, 0, len(lines))
	for _, l := range lines {
		if prep.Code {
			pieces = append(pieces, piece{text: l})
			continue
		}
		tabs, rest := document.SplitIndent(l, width)
		pieces = append(pieces, piece{tabs: tabs, text: rest})
	}
	return pieces
}

// closerLine matches a line that only closes a container.
var closerLine = regexp.MustCompile(`^[}\]]`)

// members returns the member lines of a pasted object when the caret is on an
// otherwise empty, indented line directly inside a JSON object, or nil.
func (p *Pipeline) members(block *document.Block, lineIdx int, prep Prepared, tabs int, before, after string) []piece {
	if !p.Members || block.Language != config.LanguageJSON || tabs == 0 {
		return nil
	}
	if strings.TrimSpace(before) != "" || strings.TrimSpace(after) != "" {
		return nil
	}
	obj, ok := prep.Value.(*value.Object)
	if !ok || obj.Len() == 0 || !insideObject(block, lineIdx, tabs) {
		return nil
	}

	lines := strings.Split(prep.Text, "\n")
	inner := lines[1 : len(lines)-1]
	pieces := make([]piece, 0, len(inner))
	for _, l := range inner {
		n, rest := document.SplitIndent(l, formatIndent)
		pieces = append(pieces, piece{tabs: max(n-1, 0), text: rest})
	}

	if next := nextContent(block, lineIdx); next != "" && !closerLine.MatchString(next) {
		pieces[len(pieces)-1].text += ","
	}
	return pieces
}

// insideObject reports whether the nearest shallower line above lineIdx opens
// an object.
func insideObject(block *document.Block, lineIdx, tabs int) bool {
	for i := lineIdx - 1; i >= 0; i-- {
		l := block.Lines[i]
		if l.IsBlank() || l.Indent() >= tabs {
			continue
		}
		return strings.HasSuffix(strings.TrimSpace(block.LineSource(l)), "{")
	}
	return false
}

// nextContent returns the trimmed text of the next non-blank line below
// lineIdx.
func nextContent(block *document.Block, lineIdx int) string {
	for i := lineIdx + 1; i < len(block.Lines); i++ {
		if text := strings.TrimSpace(block.LineSource(block.Lines[i])); text != "" {
			return text
		}
	}
	return ""
}
