// Package caret implements caret positions and arrow-key navigation over a
// document block.
//
// A position is canonically an absolute column within a line. Node and Offset
// are derived from it by Locate, which is the single place that decides how a
// column maps onto inline nodes. Tabs and other atomic nodes are never entered,
// and runs of zero-width filler characters are stepped over as if absent.
package caret

import (
	"github.com/yaklabco/codeblock/pkg/document"
)

// Direction of a caret movement.
type Direction int

// Movement directions.
const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Position is a caret location: a line index, a child index within that line
// and a rune offset within the child. On an empty line Node and Offset are 0.
type Position struct {
	Line   int
	Node   int
	Offset int
}

// Column returns the absolute rune column of pos within its line.
func Column(block *document.Block, pos Position) int {
	line := block.Line(pos.Line)
	if line == nil {
		return 0
	}

	col := 0
	for i, child := range line.Children {
		if i == pos.Node {
			offset := pos.Offset
			if offset > child.Len() {
				offset = child.Len()
			}
			if offset < 0 {
				offset = 0
			}
			return col + offset
		}
		col += child.Len()
	}
	return col
}

// Locate maps a column on a line to a canonical position. The column is clamped
// to the line. At a boundary between two nodes a text node is preferred, the
// earlier one when both are text, so typing extends the token before the caret.
func Locate(block *document.Block, lineIdx, col int) Position {
	line := block.Line(lineIdx)
	if line == nil || len(line.Children) == 0 {
		return Position{Line: lineIdx}
	}

	if col < 0 {
		col = 0
	}
	if total := line.Len(); col > total {
		col = total
	}

	var candidates []Position
	start := 0
	for i, child := range line.Children {
		end := start + child.Len()
		if col >= start && col <= end {
			offset := col - start
			if child.IsText() || offset == 0 || offset == child.Len() {
				candidates = append(candidates, Position{Line: lineIdx, Node: i, Offset: offset})
			} else if offset <= end-col {
				// Inside an atomic node: snap to its nearer edge.
				return Locate(block, lineIdx, start)
			} else {
				return Locate(block, lineIdx, end)
			}
		}
		start = end
	}

	for _, c := range candidates {
		if line.Children[c.Node].IsText() {
			return c
		}
	}
	for _, c := range candidates {
		if c.Offset == 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// DocOffset returns the absolute rune offset of pos in the block's text, with
// lines separated by one newline.
func DocOffset(block *document.Block, pos Position) int {
	offset := 0
	for i := 0; i < pos.Line && i < len(block.Lines); i++ {
		offset += block.Lines[i].Len() + 1
	}
	return offset + Column(block, pos)
}

// FromDocOffset is the inverse of DocOffset.
func FromDocOffset(block *document.Block, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	for i, line := range block.Lines {
		if offset <= line.Len() {
			return Locate(block, i, offset)
		}
		offset -= line.Len() + 1
	}
	last := len(block.Lines) - 1
	if last < 0 {
		return Position{}
	}
	return Locate(block, last, block.Lines[last].Len())
}

// Compare orders two positions in document order.
func Compare(block *document.Block, a, b Position) int {
	oa, ob := DocOffset(block, a), DocOffset(block, b)
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	default:
		return 0
	}
}

// Selection is an anchored range; Focus is the moving end.
type Selection struct {
	Anchor Position
	Focus  Position
}

// Collapsed returns a selection with both ends at pos.
func Collapsed(pos Position) Selection {
	return Selection{Anchor: pos, Focus: pos}
}

// Collapse moves both ends to pos.
func (s *Selection) Collapse(pos Position) {
	s.Anchor = pos
	s.Focus = pos
}

// Extend moves the focus to pos, keeping the anchor.
func (s *Selection) Extend(pos Position) {
	s.Focus = pos
}

// IsCollapsed reports whether the selection is empty.
func (s Selection) IsCollapsed(block *document.Block) bool {
	return Compare(block, s.Anchor, s.Focus) == 0
}

// Ordered returns the selection's ends in document order.
func (s Selection) Ordered(block *document.Block) (Position, Position) {
	if Compare(block, s.Anchor, s.Focus) <= 0 {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}
