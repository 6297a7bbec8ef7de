package editor

import (
	"fmt"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/document"
)

// snapshot is a serialized block plus the caret as a document offset.
type snapshot struct {
	data  []byte
	caret int
}

// history is a bounded undo stack with a redo stack.
type history struct {
	limit int
	undo  []snapshot
	redo  []snapshot
}

func newHistory(limit int) *history {
	return &history{limit: max(limit, 1)}
}

func (h *history) push(s snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

func (h *history) reset() {
	h.undo, h.redo = nil, nil
}

func (h *history) popUndo(current snapshot) (snapshot, bool) {
	if len(h.undo) == 0 {
		return snapshot{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

func (h *history) popRedo(current snapshot) (snapshot, bool) {
	if len(h.redo) == 0 {
		return snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool {
	return len(e.history.undo) > 0
}

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool {
	return len(e.history.redo) > 0
}

// Undo restores the state before the last edit.
func (e *Editor) Undo() bool {
	current, err := e.snapshot()
	if err != nil {
		e.logger.Warn("undo snapshot failed", logging.FieldError, err)
		return false
	}
	prev, ok := e.history.popUndo(current)
	if !ok {
		return false
	}
	return e.restore(prev)
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() bool {
	current, err := e.snapshot()
	if err != nil {
		e.logger.Warn("redo snapshot failed", logging.FieldError, err)
		return false
	}
	next, ok := e.history.popRedo(current)
	if !ok {
		return false
	}
	return e.restore(next)
}

func (e *Editor) snapshot() (snapshot, error) {
	data, err := document.Export(e.block)
	if err != nil {
		return snapshot{}, fmt.Errorf("exporting block: %w", err)
	}
	return snapshot{data: data, caret: caret.DocOffset(e.block, e.sel.Focus)}, nil
}

// record pushes the current state before an edit.
func (e *Editor) record() {
	s, err := e.snapshot()
	if err != nil {
		e.logger.Warn("history snapshot failed", logging.FieldError, err)
		return
	}
	e.history.push(s)
}

func (e *Editor) restore(s snapshot) bool {
	block, err := document.Import(s.data, e.cfg)
	if err != nil {
		e.logger.Warn("restoring snapshot failed", logging.FieldError, err)
		return false
	}
	e.block = block
	e.sel = caret.Collapsed(caret.FromDocOffset(block, s.caret))
	e.goal = -1
	e.emit(Update{Origin: OriginHistory, Lines: block.Lines, TextChanged: true})
	return true
}
