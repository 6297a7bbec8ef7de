package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/editor"
	"github.com/yaklabco/codeblock/pkg/token"
	"github.com/yaklabco/codeblock/pkg/value"
)

const helpHint = "ctrl+s save · ctrl+d review · ctrl+l language · ctrl+q quit"

type cellKind uint8

const (
	cellText cellKind = iota
	cellPreview
	cellSelected
	cellCursor
)

// cellStyle identifies how a run of characters is drawn. Adjacent cells with
// the same style are rendered together.
type cellStyle struct {
	kind cellKind
	tok  token.Type
	err  bool
}

type cell struct {
	text  string
	style cellStyle
}

// View implements tea.Model.
func (m *Model) View() string {
	ed := m.active()
	block := ed.Block()

	rows := make([]string, 0, m.bodyHeight()+2)
	rows = append(rows, m.header())

	visible := block.VisibleLines()
	end := min(m.top+m.bodyHeight(), len(visible))
	gutter := len(strconv.Itoa(len(block.Lines)))
	for _, idx := range visible[m.top:end] {
		rows = append(rows, m.renderLine(ed, idx, gutter))
	}
	for len(rows) < m.bodyHeight()+1 {
		rows = append(rows, "")
	}

	rows = append(rows, m.statusLine())
	for i, row := range rows {
		rows[i] = truncate.String(row, uint(max(m.width, 1)))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) header() string {
	name := filepath.Base(m.opts.Path)
	if m.Modified() {
		name += "*"
	}

	parts := []string{string(m.ed.Language())}
	if m.review != nil {
		parts = append(parts, "review")
	}

	var errs, warns int
	for _, e := range m.ed.Errors() {
		if e.Severity == config.SeverityWarning {
			warns++
		} else {
			errs++
		}
	}
	switch {
	case errs > 0:
		parts = append(parts, m.styles.Error.Render(plural(errs, "error", "errors")))
	case warns > 0:
		parts = append(parts, m.styles.Warning.Render(plural(warns, "warning", "warnings")))
	case !m.ed.Dirty():
		parts = append(parts, m.styles.Success.Render("valid"))
	}

	return m.styles.Bold.Render(name) + m.styles.Dim.Render(" · ") +
		strings.Join(parts, m.styles.Dim.Render(" · "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func (m *Model) statusLine() string {
	ed := m.active()
	line, col := ed.CaretColumn()
	position := m.styles.Dim.Render(fmt.Sprintf("Ln %d, Col %d", line+1, col+1))

	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = m.styles.Error.Render(m.status)
	case m.status != "":
		left = m.status
	default:
		if l := ed.Block().Line(line); l != nil && len(l.Errors) > 0 {
			left = m.styles.Error.Render(l.Errors[0].Message)
		} else {
			left = m.styles.Dim.Render(helpHint)
		}
	}

	// The position always stays visible; the message gives way.
	room := m.width - lipgloss.Width(position) - 1
	switch {
	case room <= 0:
		left = ""
	case lipgloss.Width(left) > room:
		left = truncate.StringWithTail(left, uint(room), "…") //nolint:gosec // room is positive.
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(position), 1)
	return left + strings.Repeat(" ", gap) + position
}

func (m *Model) renderLine(ed *editor.Editor, idx, gutter int) string {
	block := ed.Block()
	line := block.Lines[idx]

	var prefix string
	if line.Diff != nil {
		prefix = m.diffGutter(line.Diff, gutter)
	} else {
		prefix = m.styles.LineNumber.Render(fmt.Sprintf("%*d", gutter, idx+1)) + m.marker(line)
	}

	if line.Diff != nil && line.Diff.Type == document.DiffFold {
		text := m.styles.DiffFold.Render(value.StripInvisible(line.Text()))
		if caretLine, _ := ed.CaretColumn(); caretLine == idx {
			text = m.styles.Cursor.Render(">") + text
		}
		return prefix + text
	}

	body := m.renderCells(m.lineCells(ed, idx))
	if line.Collapsed {
		body += m.styles.Dim.Render(" …")
	}
	return prefix + body
}

func (m *Model) marker(line *document.Line) string {
	switch {
	case len(line.Errors) > 0:
		return m.styles.Error.Render(" ●")
	case line.Collapsed:
		return m.styles.Dim.Render(" ▸")
	case line.Foldable:
		return m.styles.Dim.Render(" ▾")
	default:
		return "  "
	}
}

func (m *Model) diffGutter(meta *document.DiffMeta, width int) string {
	num := func(n int) string {
		if n <= 0 {
			return strings.Repeat(" ", width)
		}
		return fmt.Sprintf("%*d", width, n)
	}
	gutter := m.styles.LineNumber.Render(num(meta.OldLine) + " " + num(meta.NewLine))

	switch meta.Type {
	case document.DiffAdded:
		return gutter + m.styles.DiffAdd.Render(" + ")
	case document.DiffRemoved:
		return gutter + m.styles.DiffRemove.Render(" - ")
	case document.DiffFold:
		return gutter + m.styles.DiffFold.Render(" ⋯ ")
	default:
		return gutter + "   "
	}
}

// lineCells lays out one line as styled cells. Columns count runes of the
// logical text, so a tab node is one column drawn as several spaces and a
// zero-width filler is a column with nothing drawn.
func (m *Model) lineCells(ed *editor.Editor, idx int) []cell {
	block := ed.Block()
	line := block.Lines[idx]
	cfg := block.Config()

	caretCol := -1
	if focus := ed.Caret(); focus.Line == idx {
		caretCol = caret.Column(block, focus)
	}
	selFrom, selTo := selectionColumns(ed, idx)

	var cells []cell
	pendingCursor := false
	col := 0

	for _, child := range line.Children {
		start := col
		col += child.Len()

		switch child.Kind {
		case document.KindTab:
			style := cellStyle{kind: cellText, tok: token.Whitespace}
			for i := range cfg.SpacesPerTab {
				c := cell{text: " ", style: style}
				if i == 0 {
					c.style = m.overlay(style, start, caretCol, selFrom, selTo, &pendingCursor)
				}
				cells = append(cells, c)
			}

		case document.KindBase64, document.KindLongText:
			style := cellStyle{kind: cellPreview, tok: child.HighlightType, err: child.HasValidationError}
			if selFrom < col && selTo > start {
				style.kind = cellSelected
			}
			for i, r := range []rune(child.Preview(cfg.PreviewWidth)) {
				c := cell{text: string(r), style: style}
				if i == 0 {
					c.style = m.overlay(style, start, caretCol, -1, -1, &pendingCursor)
				}
				cells = append(cells, c)
			}

		default:
			style := cellStyle{kind: cellText, tok: child.HighlightType, err: child.HasValidationError}
			for i, r := range []rune(child.Text) {
				if isInvisible(r) {
					if start+i == caretCol {
						pendingCursor = true
					}
					continue
				}
				cells = append(cells, cell{
					text:  string(r),
					style: m.overlay(style, start+i, caretCol, selFrom, selTo, &pendingCursor),
				})
			}
		}
	}

	if pendingCursor || caretCol >= col {
		cells = append(cells, cell{text: " ", style: cellStyle{kind: cellCursor}})
	}
	return cells
}

// overlay applies the cursor and selection to the cell at column col.
func (m *Model) overlay(style cellStyle, col, caretCol, selFrom, selTo int, pending *bool) cellStyle {
	if col == caretCol || *pending {
		*pending = false
		style.kind = cellCursor
		return style
	}
	if col >= selFrom && col < selTo {
		style.kind = cellSelected
	}
	return style
}

// selectionColumns returns the selected column range on line idx, or (-1, -1).
func selectionColumns(ed *editor.Editor, idx int) (int, int) {
	if ed.Mode() != editor.ModeEdit {
		return -1, -1
	}
	block := ed.Block()
	sel := ed.Selection()
	if sel.IsCollapsed(block) {
		return -1, -1
	}

	start, end := sel.Ordered(block)
	if idx < start.Line || idx > end.Line {
		return -1, -1
	}

	from, to := 0, block.Lines[idx].Len()+1
	if idx == start.Line {
		from = caret.Column(block, start)
	}
	if idx == end.Line {
		to = caret.Column(block, end)
	}
	return from, to
}

func (m *Model) renderCells(cells []cell) string {
	var sb strings.Builder
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].style == cells[i].style {
			run.WriteString(cells[j].text)
			j++
		}
		sb.WriteString(m.cellRenderer(cells[i].style).Render(run.String()))
		i = j
	}
	return sb.String()
}

func (m *Model) cellRenderer(style cellStyle) lipgloss.Style {
	switch style.kind {
	case cellCursor:
		return m.styles.Cursor
	case cellSelected:
		return m.styles.Selection
	case cellPreview:
		if style.err {
			return m.styles.ErrorSpan
		}
		return m.styles.Preview
	default:
		if style.err {
			return m.styles.ErrorSpan
		}
		return m.styles.Token(style.tok)
	}
}

func isInvisible(r rune) bool {
	return value.StripInvisible(string(r)) == ""
}
