package editor

import (
	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/document"
)

// Origin tags who made a change.
type Origin string

// Change origins.
const (
	OriginUser       Origin = "user"
	OriginHighlight  Origin = "highlight"
	OriginValidation Origin = "validation"
	OriginHistory    Origin = "history"
	OriginHydrate    Origin = "hydrate"
	OriginCommand    Origin = "command"
)

// Update describes one applied change.
type Update struct {
	Origin Origin

	// Lines are the lines whose text or spans changed.
	Lines []*document.Line

	// TextChanged is set when the document text may differ.
	TextChanged bool
}

// UpdateListener observes updates.
type UpdateListener func(u Update)

type listenerEntry struct {
	id     int
	origin Origin
	fn     UpdateListener
}

// OnUpdate registers fn for every update not made by origin, so a listener
// that edits the block never sees its own changes. It returns an unsubscribe
// function.
func (e *Editor) OnUpdate(origin Origin, fn UpdateListener) func() {
	e.nextListenerID++
	id := e.nextListenerID
	e.listeners = append(e.listeners, listenerEntry{id: id, origin: origin, fn: fn})

	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// emit queues u and, unless already dispatching, delivers queued updates in
// order. Updates emitted by listeners are delivered after the current one.
func (e *Editor) emit(u Update) {
	e.pending = append(e.pending, u)
	if e.dispatching {
		return
	}

	e.dispatching = true
	defer func() { e.dispatching = false }()

	for len(e.pending) > 0 {
		next := e.pending[0]
		e.pending = e.pending[1:]

		listeners := append([]listenerEntry(nil), e.listeners...)
		for _, l := range listeners {
			if l.origin == next.Origin {
				continue
			}
			l.fn(next)
		}
	}
}

// installHighlight re-highlights every changed line, keeping the caret on the
// same column.
func (e *Editor) installHighlight() {
	e.OnUpdate(OriginHighlight, func(u Update) {
		var spliced []*document.Line
		for _, line := range u.Lines {
			idx := e.block.LineIndex(line)
			if idx < 0 {
				continue
			}

			var pos *caret.Position
			anchorCol := -1
			if e.sel.Focus.Line == idx {
				focus := e.sel.Focus
				pos = &focus
			}
			if e.sel.Anchor.Line == idx {
				anchorCol = caret.Column(e.block, e.sel.Anchor)
			}

			if !e.engine.Rehighlight(e.block, idx, pos) {
				continue
			}
			spliced = append(spliced, line)
			if pos != nil {
				e.sel.Focus = *pos
			}
			if anchorCol >= 0 {
				e.sel.Anchor = caret.Locate(e.block, idx, anchorCol)
			}
		}

		if len(spliced) > 0 {
			e.logger.Debug("rehighlighted", logging.FieldLines, len(spliced))
			e.emit(Update{Origin: OriginHighlight, Lines: spliced})
		}
	})
}

// installValidation marks the document dirty on text changes; Tick or Commit
// then runs the validator.
func (e *Editor) installValidation() {
	e.OnUpdate(OriginValidation, func(u Update) {
		if !u.TextChanged {
			return
		}
		e.dirty = true
		e.lastEdit = e.now()
	})
}
