package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/token"
	"github.com/yaklabco/codeblock/pkg/value"
)

// closers maps auto-closed openers to their closers.
//
//nolint:gochecknoglobals // Read-only lookup table.
var closers = map[rune]rune{'{': '}', '[': ']', '"': '"'}

const invisible = "\u200b\u200c\u200d\u2060\ufeff"

func zeroWidth(r rune) bool {
	return strings.ContainsRune(invisible, r)
}

func (e *Editor) editable() bool {
	return e.mode == ModeEdit
}

// setLine rebuilds a line from text whose leading tab characters are
// indentation units.
func (e *Editor) setLine(line *document.Line, text string) {
	tabs := len(text) - len(strings.TrimLeft(text, "\t"))
	children := make([]*document.Inline, 0, tabs+1)
	for range tabs {
		children = append(children, e.block.NewTab())
	}
	line.Children = append(children, e.block.Tokens(text[tabs:])...)
}

func (e *Editor) newLine(text string) *document.Line {
	line := e.block.NewLine()
	e.setLine(line, text)
	return line
}

// replace replaces columns [from, to) of line idx with insert, which has no
// newlines, and puts the caret after it. An edit inside one text span swaps
// in a new span of the same class and leaves re-tokenizing to the highlight
// pass; anything else rebuilds the line.
func (e *Editor) replace(idx, from, to int, insert string) {
	line := e.block.Lines[idx]
	size := utf8.RuneCountInString(insert)

	start := 0
	for n, child := range line.Children {
		end := start + child.Len()
		if child.IsText() && start <= from && to <= end {
			rs := []rune(child.Text)
			line.Children[n] = e.block.NewHighlight(token.Token{
				Content: string(rs[:from-start]) + insert + string(rs[to-start:]),
				Type:    child.HighlightType,
			})
			e.sel = caret.Collapsed(caret.Position{Line: idx, Node: n, Offset: from - start + size})
			return
		}
		start = end
	}

	rs := []rune(line.Text())
	from = max(0, min(from, len(rs)))
	to = max(from, min(to, len(rs)))
	e.setLine(line, string(rs[:from])+insert+string(rs[to:]))
	e.sel = caret.Collapsed(caret.Locate(e.block, idx, from+size))
}

// changed finishes a user edit: folding is refreshed and listeners notified.
func (e *Editor) changed(lines ...*document.Line) {
	e.goal = -1
	e.block.RecomputeFoldable()
	e.emit(Update{Origin: OriginUser, Lines: lines, TextChanged: true})
}

// cutSelection deletes a non-empty selection and returns the affected line.
func (e *Editor) cutSelection() []*document.Line {
	if e.sel.IsCollapsed(e.block) {
		return nil
	}
	start, end := e.sel.Ordered(e.block)
	return []*document.Line{e.deleteRange(start, end)}
}

func (e *Editor) deleteRange(start, end caret.Position) *document.Line {
	colA := caret.Column(e.block, start)
	colB := caret.Column(e.block, end)
	if start.Line == end.Line {
		e.replace(start.Line, colA, colB, "")
		return e.block.Lines[start.Line]
	}

	first := e.block.Lines[start.Line]
	head := []rune(first.Text())[:colA]
	tail := []rune(e.block.Lines[end.Line].Text())[colB:]
	e.setLine(first, string(head)+string(tail))
	for i := end.Line; i > start.Line; i-- {
		e.block.RemoveLine(i)
	}
	e.sel = caret.Collapsed(caret.Locate(e.block, start.Line, colA))
	return first
}

// InsertText inserts text at the caret, replacing the selection. Newlines
// split the line; no formatting is applied.
func (e *Editor) InsertText(text string) bool {
	if !e.editable() || text == "" {
		return false
	}
	e.record()
	lines := e.cutSelection()

	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	idx, col := e.CaretColumn()
	line := e.block.Lines[idx]

	if len(parts) == 1 {
		e.replace(idx, col, col, text)
		e.changed(append(lines, line)...)
		return true
	}

	rs := []rune(line.Text())
	after := string(rs[col:])
	e.setLine(line, string(rs[:col])+parts[0])

	added := make([]*document.Line, 0, len(parts)-1)
	for i, part := range parts[1:] {
		if i == len(parts)-2 {
			part += after
		}
		added = append(added, e.newLine(part))
	}
	e.block.InsertLine(idx+1, added...)

	last := parts[len(parts)-1]
	e.sel = caret.Collapsed(caret.Locate(e.block, idx+len(parts)-1, utf8.RuneCountInString(last)))
	e.changed(append(append(lines, line), added...)...)
	return true
}

// Paste inserts clipboard text through the paste pipeline, which detects the
// language, pretty-prints JSON and converts indentation to tab nodes.
func (e *Editor) Paste(text string) bool {
	if !e.editable() || text == "" {
		return false
	}
	e.record()
	lines := e.cutSelection()

	startLine := e.sel.Focus.Line
	end := e.paste.Apply(e.block, e.sel.Focus, text)
	for i := startLine; i <= end.Line && i < len(e.block.Lines); i++ {
		lines = append(lines, e.block.Lines[i])
	}
	e.sel = caret.Collapsed(end)
	e.changed(lines...)
	return true
}

// typeRune inserts a typed character with bracket and quote handling: openers
// insert their closer after the caret, and typing a closer that is already
// next moves over it.
func (e *Editor) typeRune(r rune) bool {
	if !e.editable() {
		return false
	}

	idx, col := e.CaretColumn()
	rs := []rune(e.block.Lines[idx].Text())
	var prev, next rune
	if col > 0 {
		prev = rs[col-1]
	}
	if col < len(rs) {
		next = rs[col]
	}

	collapsed := e.sel.IsCollapsed(e.block)
	if collapsed && (r == '}' || r == ']' || r == '"') && next == r && prev != '\\' {
		e.sel = caret.Collapsed(caret.Locate(e.block, idx, col+1))
		e.goal = -1
		return true
	}

	closer, pairs := closers[r]
	if r == '"' && (prev == '\\' || unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
		pairs = false
	}
	if !pairs {
		return e.InsertText(string(r))
	}

	e.record()
	lines := e.cutSelection()
	idx, col = e.CaretColumn()
	e.replace(idx, col, col, string(r)+string(closer))
	e.sel = caret.Collapsed(caret.Locate(e.block, idx, col+1))
	e.changed(append(lines, e.block.Lines[idx])...)
	return true
}

// enter splits the line at the caret. The new line keeps the indentation and
// gains a level after an opener (or a YAML key). Between an opener and its
// closer the closer moves to a third line.
func (e *Editor) enter() bool {
	if !e.editable() {
		return false
	}
	e.record()
	lines := e.cutSelection()

	idx, col := e.CaretColumn()
	line := e.block.Lines[idx]
	rs := []rune(line.Text())
	indent := min(line.Indent(), col)
	before := string(rs[:col])
	after := strings.TrimLeft(string(rs[col:]), " \t")

	trimmed := strings.TrimRight(value.StripInvisible(before), " \t")
	var opener rune
	if trimmed != "" {
		opener, _ = utf8.DecodeLastRuneInString(trimmed)
	}
	extra := 0
	if opener == '{' || opener == '[' ||
		(e.block.Language == config.LanguageYAML && opener == ':') {
		extra = 1
	}

	e.setLine(line, before)
	tabs := strings.Repeat("\t", indent)

	var added []*document.Line
	first, _ := utf8.DecodeRuneInString(after)
	if extra == 1 && after != "" && closers[opener] == first && opener != '"' {
		added = append(added, e.newLine(tabs+"\t"), e.newLine(tabs+after))
	} else {
		added = append(added, e.newLine(tabs+strings.Repeat("\t", extra)+after))
	}
	e.block.InsertLine(idx+1, added...)

	e.sel = caret.Collapsed(caret.Locate(e.block, idx+1, indent+extra))
	e.changed(append(append(lines, line), added...)...)
	return true
}

// childAt returns the index and start column of the child covering the rune
// before (dir Backward) or after (dir Forward) col, or -1.
func childAt(line *document.Line, col int, dir caret.Direction) (int, int) {
	start := 0
	for n, child := range line.Children {
		end := start + child.Len()
		if dir == caret.Backward && start < col && col <= end {
			return n, start
		}
		if dir == caret.Forward && start <= col && col < end {
			return n, start
		}
		start = end
	}
	return -1, 0
}

func (e *Editor) removeChild(line *document.Line, n int) {
	line.Children = append(line.Children[:n:n], line.Children[n+1:]...)
}

// backspace deletes before the caret. Tab nodes and wrapped strings go as a
// whole, an empty auto-closed pair goes together, and zero-width filler is
// removed along with the visible character before it.
func (e *Editor) backspace() bool {
	if !e.editable() {
		return false
	}
	if !e.sel.IsCollapsed(e.block) {
		e.record()
		e.changed(e.cutSelection()...)
		return true
	}

	idx, col := e.CaretColumn()
	line := e.block.Lines[idx]

	if col == 0 {
		if idx == 0 {
			return false
		}
		e.record()
		prev := e.block.Lines[idx-1]
		prevLen := prev.Len()
		e.setLine(prev, prev.Text()+strings.TrimLeft(line.Text(), "\t"))
		e.block.RemoveLine(idx)
		e.sel = caret.Collapsed(caret.Locate(e.block, idx-1, prevLen))
		e.changed(prev)
		return true
	}

	e.record()
	if n, start := childAt(line, col, caret.Backward); n >= 0 && !line.Children[n].IsText() {
		e.removeChild(line, n)
		e.sel = caret.Collapsed(caret.Locate(e.block, idx, start))
		e.changed(line)
		return true
	}

	rs := []rune(line.Text())
	from, to := col-1, col
	for from > 0 && zeroWidth(rs[from]) {
		from--
	}
	if closer, ok := closers[rs[col-1]]; ok && col < len(rs) && rs[col] == closer {
		to = col + 1
	}
	e.replace(idx, from, to, "")
	e.changed(line)
	return true
}

// deleteForward deletes after the caret, joining the next line at line end.
func (e *Editor) deleteForward() bool {
	if !e.editable() {
		return false
	}
	if !e.sel.IsCollapsed(e.block) {
		e.record()
		e.changed(e.cutSelection()...)
		return true
	}

	idx, col := e.CaretColumn()
	line := e.block.Lines[idx]
	rs := []rune(line.Text())

	if col >= len(rs) {
		if idx >= len(e.block.Lines)-1 {
			return false
		}
		e.record()
		next := e.block.Lines[idx+1]
		e.setLine(line, line.Text()+strings.TrimLeft(next.Text(), "\t"))
		e.block.RemoveLine(idx + 1)
		e.sel = caret.Collapsed(caret.Locate(e.block, idx, col))
		e.changed(line)
		return true
	}

	e.record()
	if n, start := childAt(line, col, caret.Forward); n >= 0 && !line.Children[n].IsText() {
		e.removeChild(line, n)
		e.sel = caret.Collapsed(caret.Locate(e.block, idx, start))
		e.changed(line)
		return true
	}

	to := col + 1
	for to < len(rs) && zeroWidth(rs[to]) {
		to++
	}
	e.replace(idx, col, to, "")
	e.changed(line)
	return true
}

// indent adds (or with outdent removes) one tab node. In the indentation
// region, or with a multi-line selection, it works on line starts; elsewhere
// Tab inserts spaces.
func (e *Editor) indent(outdent bool) bool {
	if !e.editable() {
		return false
	}

	start, end := e.sel.Ordered(e.block)
	if start.Line != end.Line || outdent {
		return e.shiftLines(start.Line, end.Line, outdent)
	}

	idx, col := e.CaretColumn()
	line := e.block.Lines[idx]
	if col > line.Indent() {
		return e.InsertText(strings.Repeat(" ", e.cfg.SpacesPerTab))
	}

	e.record()
	tab := e.block.NewTab()
	line.Children = append(line.Children[:col:col], append([]*document.Inline{tab}, line.Children[col:]...)...)
	e.sel = caret.Collapsed(caret.Locate(e.block, idx, col+1))
	e.changed(line)
	return true
}

func (e *Editor) shiftLines(from, to int, outdent bool) bool {
	anchorLine, anchorCol := e.sel.Anchor.Line, caret.Column(e.block, e.sel.Anchor)
	focusLine, focusCol := e.CaretColumn()

	var lines []*document.Line
	delta := map[int]int{}
	for i := from; i <= to; i++ {
		line := e.block.Lines[i]
		switch {
		case outdent && line.Indent() > 0:
			line.Children = line.Children[1:]
			delta[i] = -1
		case !outdent && !line.IsBlank():
			line.Children = append([]*document.Inline{e.block.NewTab()}, line.Children...)
			delta[i] = 1
		default:
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return false
	}

	// The snapshot must precede the change, so take it from the reverted state.
	for i, d := range delta {
		line := e.block.Lines[i]
		if d > 0 {
			line.Children = line.Children[1:]
		} else {
			line.Children = append([]*document.Inline{e.block.NewTab()}, line.Children...)
		}
	}
	e.record()
	for i, d := range delta {
		line := e.block.Lines[i]
		if d > 0 {
			line.Children = append([]*document.Inline{e.block.NewTab()}, line.Children...)
		} else {
			line.Children = line.Children[1:]
		}
	}

	e.sel = caret.Selection{
		Anchor: caret.Locate(e.block, anchorLine, max(anchorCol+delta[anchorLine], 0)),
		Focus:  caret.Locate(e.block, focusLine, max(focusCol+delta[focusLine], 0)),
	}
	e.changed(lines...)
	return true
}

// ToggleFold collapses or expands line idx. In diff mode it expands a folded
// run of unchanged lines.
func (e *Editor) ToggleFold(idx int) bool {
	if e.mode == ModeDiff {
		return e.expandDiffFold(idx)
	}
	if !e.block.ToggleFold(idx) {
		return false
	}
	if focus := e.block.Line(e.sel.Focus.Line); focus != nil && focus.Hidden {
		e.sel = caret.Collapsed(caret.LineEnd(e.block, idx))
	}
	e.emit(Update{Origin: OriginCommand})
	return true
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() {
	last := len(e.block.Lines) - 1
	e.sel = caret.Selection{
		Anchor: caret.Locate(e.block, 0, 0),
		Focus:  caret.LineEnd(e.block, last),
	}
	e.goal = -1
}

// SelectedText returns the selected text with tab nodes as tab characters.
func (e *Editor) SelectedText() string {
	start, end := e.sel.Ordered(e.block)
	if start == end {
		return ""
	}
	colA := caret.Column(e.block, start)
	colB := caret.Column(e.block, end)

	if start.Line == end.Line {
		rs := []rune(e.block.Lines[start.Line].Text())
		return value.StripInvisible(string(rs[colA:colB]))
	}

	parts := []string{string([]rune(e.block.Lines[start.Line].Text())[colA:])}
	for i := start.Line + 1; i < end.Line; i++ {
		parts = append(parts, e.block.Lines[i].Text())
	}
	parts = append(parts, string([]rune(e.block.Lines[end.Line].Text())[:colB]))
	return value.StripInvisible(strings.Join(parts, "\n"))
}
