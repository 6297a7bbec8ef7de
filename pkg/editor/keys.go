package editor

import (
	"github.com/yaklabco/codeblock/pkg/caret"
)

// Key identifies a key press.
type Key uint8

// Keys the editor handles.
const (
	KeyRune Key = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// KeyEvent is one key press with its modifiers. Rune is set for KeyRune.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Shift bool
	Alt   bool
	Ctrl  bool
}

// HandleKey applies a key press and reports whether it was consumed.
func (e *Editor) HandleKey(ev KeyEvent) bool {
	if ev.Ctrl {
		return e.handleShortcut(ev)
	}

	switch ev.Key {
	case KeyRune:
		if ev.Rune == 0 {
			return false
		}
		return e.typeRune(ev.Rune)
	case KeyEnter:
		return e.enter()
	case KeyBackspace:
		return e.backspace()
	case KeyDelete:
		return e.deleteForward()
	case KeyTab:
		return e.indent(ev.Shift)
	case KeyLeft:
		return e.horizontal(caret.Backward, ev.Shift)
	case KeyRight:
		return e.horizontal(caret.Forward, ev.Shift)
	case KeyUp:
		if ev.Alt {
			return e.moveLine(caret.Backward)
		}
		return e.vertical(caret.Backward, ev.Shift)
	case KeyDown:
		if ev.Alt {
			return e.moveLine(caret.Forward)
		}
		return e.vertical(caret.Forward, ev.Shift)
	case KeyHome:
		e.moveTo(caret.LineStart(e.block, e.sel.Focus.Line), ev.Shift)
		e.goal = -1
		return true
	case KeyEnd:
		e.moveTo(caret.LineEnd(e.block, e.sel.Focus.Line), ev.Shift)
		e.goal = -1
		return true
	}
	return false
}

func (e *Editor) handleShortcut(ev KeyEvent) bool {
	if ev.Key != KeyRune {
		return false
	}
	switch ev.Rune {
	case 'z', 'Z':
		if ev.Shift {
			return e.Redo()
		}
		return e.Undo()
	case 'y', 'Y':
		return e.Redo()
	case 'a', 'A':
		e.SelectAll()
		return true
	}
	return false
}

func (e *Editor) moveTo(pos caret.Position, extend bool) {
	if extend {
		e.sel.Extend(pos)
		return
	}
	e.sel.Collapse(pos)
}

// horizontal steps the caret one valid position. Without Shift a selection
// collapses to its edge in the direction of travel.
func (e *Editor) horizontal(dir caret.Direction, extend bool) bool {
	e.goal = -1
	if !extend && !e.sel.IsCollapsed(e.block) {
		start, end := e.sel.Ordered(e.block)
		if dir == caret.Backward {
			e.sel = caret.Collapsed(start)
		} else {
			e.sel = caret.Collapsed(end)
		}
		return true
	}

	next, ok := caret.NextValidPosition(e.block, e.sel.Focus, dir)
	if !ok {
		return false
	}
	e.moveTo(next, extend)
	return true
}

// vertical moves to the adjacent visible line, aiming for the column the
// caret had when vertical movement started.
func (e *Editor) vertical(dir caret.Direction, extend bool) bool {
	if e.goal < 0 {
		e.goal = caret.Column(e.block, e.sel.Focus)
	}
	next, ok := caret.VerticalTo(e.block, e.sel.Focus, e.goal, dir)
	if !ok {
		return false
	}
	e.moveTo(next, extend)
	return true
}

// moveLine swaps the caret's line with its neighbour.
func (e *Editor) moveLine(dir caret.Direction) bool {
	if !e.editable() {
		return false
	}
	idx, col := e.CaretColumn()
	if target := idx + int(dir); target < 0 || target >= len(e.block.Lines) {
		return false
	}

	e.record()
	target, _ := caret.MoveLine(e.block, idx, dir)
	e.sel = caret.Collapsed(caret.Locate(e.block, target, col))
	e.changed(e.block.Lines[idx], e.block.Lines[target])
	return true
}
