package caret

import (
	"github.com/yaklabco/codeblock/pkg/document"
)

// zeroWidth reports whether r renders with no width.
func zeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	default:
		return false
	}
}

// stops returns the columns of a line where the caret may rest, ascending. A
// column is a stop when the rune after it is visible and it does not fall
// strictly inside an atomic node. The end of the line is always a stop.
func stops(line *document.Line) []int {
	var out []int
	col := 0
	for _, child := range line.Children {
		if !child.IsText() {
			out = append(out, col)
			col += child.Len()
			continue
		}
		for _, r := range child.Text {
			if !zeroWidth(r) {
				out = append(out, col)
			}
			col++
		}
	}
	if len(out) == 0 || out[len(out)-1] != col {
		out = append(out, col)
	}
	return dedupe(out)
}

func dedupe(cols []int) []int {
	out := cols[:0]
	for i, c := range cols {
		if i == 0 || c != cols[i-1] {
			out = append(out, c)
		}
	}
	return out
}

// NextValidPosition moves the caret one visible step in dir. Atomic nodes are
// crossed in one step, zero-width runs are skipped, and at a line end the caret
// moves to the nearest stop of the adjacent visible line. It returns false at
// the document boundary. Every successful step strictly advances the document
// offset in dir.
func NextValidPosition(block *document.Block, pos Position, dir Direction) (Position, bool) {
	line := block.Line(pos.Line)
	if line == nil {
		return pos, false
	}

	col := Column(block, pos)
	lineStops := stops(line)

	if dir == Forward {
		for _, stop := range lineStops {
			if stop > col {
				return Locate(block, pos.Line, stop), true
			}
		}
		next := adjacentVisible(block, pos.Line, Forward)
		if next < 0 {
			return pos, false
		}
		return Locate(block, next, stops(block.Lines[next])[0]), true
	}

	for i := len(lineStops) - 1; i >= 0; i-- {
		if lineStops[i] < col {
			return Locate(block, pos.Line, lineStops[i]), true
		}
	}
	prev := adjacentVisible(block, pos.Line, Backward)
	if prev < 0 {
		return pos, false
	}
	prevStops := stops(block.Lines[prev])
	return Locate(block, prev, prevStops[len(prevStops)-1]), true
}

// adjacentVisible returns the index of the nearest non-hidden line in dir, or -1.
func adjacentVisible(block *document.Block, from int, dir Direction) int {
	for i := from + int(dir); i >= 0 && i < len(block.Lines); i += int(dir) {
		if !block.Lines[i].Hidden {
			return i
		}
	}
	return -1
}

// Snap moves pos to the nearest stop at or after its column on the same line.
func Snap(block *document.Block, pos Position) Position {
	line := block.Line(pos.Line)
	if line == nil {
		return pos
	}
	col := Column(block, pos)
	for _, stop := range stops(line) {
		if stop >= col {
			return Locate(block, pos.Line, stop)
		}
	}
	return Locate(block, pos.Line, line.Len())
}

// LineStart returns the first stop after the indentation of the line.
func LineStart(block *document.Block, lineIdx int) Position {
	line := block.Line(lineIdx)
	if line == nil {
		return Position{Line: lineIdx}
	}
	return Snap(block, Locate(block, lineIdx, line.Indent()))
}

// LineEnd returns the end of the line.
func LineEnd(block *document.Block, lineIdx int) Position {
	line := block.Line(lineIdx)
	if line == nil {
		return Position{Line: lineIdx}
	}
	return Locate(block, lineIdx, line.Len())
}

// Vertical moves to the adjacent visible line in dir, keeping the column and
// clamping it to the target line. It returns false at the first or last line.
func Vertical(block *document.Block, pos Position, dir Direction) (Position, bool) {
	return VerticalTo(block, pos, Column(block, pos), dir)
}

// VerticalTo is Vertical with an explicit goal column, so repeated movement
// through short lines returns to the original column.
func VerticalTo(block *document.Block, pos Position, goal int, dir Direction) (Position, bool) {
	target := adjacentVisible(block, pos.Line, dir)
	if target < 0 {
		return pos, false
	}
	return Snap(block, Locate(block, target, goal)), true
}

// MoveLine swaps the line at index with its neighbour in dir and returns the
// line's new index. Folding state is recomputed. It returns false when there is
// no neighbour.
func MoveLine(block *document.Block, index int, dir Direction) (int, bool) {
	target := index + int(dir)
	if index < 0 || index >= len(block.Lines) || target < 0 || target >= len(block.Lines) {
		return index, false
	}
	block.Lines[index], block.Lines[target] = block.Lines[target], block.Lines[index]
	block.RecomputeFoldable()
	return target, true
}
