package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaklabco/codeblock/pkg/editor"
)

// editorKeys maps terminal key types onto editor key events. Ctrl shortcuts
// the editor handles itself are included; the rest are bound in Update.
//
//nolint:gochecknoglobals // Static lookup table.
var editorKeys = map[tea.KeyType]editor.KeyEvent{
	tea.KeyEnter:      {Key: editor.KeyEnter},
	tea.KeyBackspace:  {Key: editor.KeyBackspace},
	tea.KeyDelete:     {Key: editor.KeyDelete},
	tea.KeyTab:        {Key: editor.KeyTab},
	tea.KeyShiftTab:   {Key: editor.KeyTab, Shift: true},
	tea.KeyLeft:       {Key: editor.KeyLeft},
	tea.KeyRight:      {Key: editor.KeyRight},
	tea.KeyUp:         {Key: editor.KeyUp},
	tea.KeyDown:       {Key: editor.KeyDown},
	tea.KeyHome:       {Key: editor.KeyHome},
	tea.KeyEnd:        {Key: editor.KeyEnd},
	tea.KeyShiftLeft:  {Key: editor.KeyLeft, Shift: true},
	tea.KeyShiftRight: {Key: editor.KeyRight, Shift: true},
	tea.KeyShiftUp:    {Key: editor.KeyUp, Shift: true},
	tea.KeyShiftDown:  {Key: editor.KeyDown, Shift: true},
	tea.KeyShiftHome:  {Key: editor.KeyHome, Shift: true},
	tea.KeyShiftEnd:   {Key: editor.KeyEnd, Shift: true},
	tea.KeyCtrlZ:      {Key: editor.KeyRune, Rune: 'z', Ctrl: true},
	tea.KeyCtrlY:      {Key: editor.KeyRune, Rune: 'y', Ctrl: true},
	tea.KeyCtrlA:      {Key: editor.KeyRune, Rune: 'a', Ctrl: true},
}

// keyEvents converts a key message into editor key events. Typed text may
// carry several runes; each becomes its own event.
func keyEvents(msg tea.KeyMsg) []editor.KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		events := make([]editor.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, editor.KeyEvent{Key: editor.KeyRune, Rune: r, Alt: msg.Alt})
		}
		return events
	case tea.KeySpace:
		return []editor.KeyEvent{{Key: editor.KeyRune, Rune: ' '}}
	}

	ev, ok := editorKeys[msg.Type]
	if !ok {
		return nil
	}
	ev.Alt = msg.Alt
	return []editor.KeyEvent{ev}
}
