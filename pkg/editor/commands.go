package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diff"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/validate"
	"github.com/yaklabco/codeblock/pkg/value"
)

// Command names.
const (
	CommandInitialContent = "initial-content"
	CommandLanguageChange = "language-change"
)

// Priority orders command handlers; higher runs first.
type Priority int

// Handler priorities.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// CommandHandler handles a command payload. Returning true stops propagation
// to lower-priority handlers.
type CommandHandler func(payload any) bool

type commandEntry struct {
	id       int
	priority Priority
	handler  CommandHandler
}

// InitialContentPayload carries content offered to the editor. Handlers may
// call PreventDefault to stop the default hydration.
type InitialContentPayload struct {
	// Content is a document string or a value to pretty-print.
	Content any

	// Language of Content. The current language is kept when empty.
	Language config.Language

	// OriginalContent and ModifiedContent are the two sides of a diff request.
	OriginalContent any
	ModifiedContent any
	IsDiffRequest   bool

	// ForceUpdate replaces the document even when its value is unchanged.
	ForceUpdate bool

	prevented bool
}

// PreventDefault stops the default hydration.
func (p *InitialContentPayload) PreventDefault() {
	p.prevented = true
}

// IsDefaultPrevented reports whether a handler called PreventDefault.
func (p *InitialContentPayload) IsDefaultPrevented() bool {
	return p.prevented
}

// LanguageChangePayload requests a grammar switch.
type LanguageChangePayload struct {
	Language config.Language
}

// RegisterCommand adds a handler for a command name. Handlers with equal
// priority run in registration order. It returns an unregister function.
func (e *Editor) RegisterCommand(name string, priority Priority, handler CommandHandler) func() {
	e.nextCmdID++
	id := e.nextCmdID

	entries := append(e.commands[name], commandEntry{id: id, priority: priority, handler: handler})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})
	e.commands[name] = entries

	return func() {
		list := e.commands[name]
		for i, entry := range list {
			if entry.id == id {
				e.commands[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Dispatch runs the handlers for name until one returns true, and reports
// whether one did.
func (e *Editor) Dispatch(name string, payload any) bool {
	entries := append([]commandEntry(nil), e.commands[name]...)
	for _, entry := range entries {
		if entry.handler(payload) {
			e.logger.Debug("command handled", logging.FieldCommand, name)
			return true
		}
	}
	return false
}

// SetInitialContent dispatches the initial-content command and, unless a
// handler prevented it, hydrates the editor. It reports whether the document
// was replaced by the default hydration.
func (e *Editor) SetInitialContent(p *InitialContentPayload) bool {
	e.Dispatch(CommandInitialContent, p)
	if p.IsDefaultPrevented() {
		return false
	}
	return e.hydrate(p)
}

// SetLanguage dispatches the language-change command and applies it unless a
// handler consumed it.
func (e *Editor) SetLanguage(lang config.Language) bool {
	p := &LanguageChangePayload{Language: lang}
	if e.Dispatch(CommandLanguageChange, p) {
		return false
	}
	return e.applyLanguage(p.Language)
}

// hydrate replaces the document unless the offered content has the same
// parsed value as the current one, so an edit in progress and its history
// survive a caller re-sending equivalent content.
func (e *Editor) hydrate(p *InitialContentPayload) bool {
	lang := p.Language
	if !lang.IsValid() {
		lang = e.block.Language
	}

	text, err := contentText(p.Content, lang)
	if err != nil {
		e.logger.Warn("initial content rejected", logging.FieldError, err)
		return false
	}

	if !p.ForceUpdate && e.mode == ModeEdit && e.sameContent(text, lang) {
		e.logger.Debug("initial content unchanged, keeping document")
		return false
	}

	e.load(text, lang)
	e.logger.Debug("hydrated", logging.FieldLanguage, lang, logging.FieldLines, len(e.block.Lines))
	return true
}

func contentText(content any, lang config.Language) (string, error) {
	switch typed := content.(type) {
	case nil:
		return "", nil
	case string:
		return strings.ReplaceAll(typed, "\r\n", "\n"), nil
	case []byte:
		return strings.ReplaceAll(string(typed), "\r\n", "\n"), nil
	default:
		text, err := value.Format(typed, lang)
		if err != nil {
			return "", fmt.Errorf("formatting content: %w", err)
		}
		return strings.TrimRight(text, "\n"), nil
	}
}

// sameContent compares by parsed value when both sides parse, else by text.
func (e *Editor) sameContent(text string, lang config.Language) bool {
	if lang != e.block.Language {
		return false
	}
	current := e.block.Source()
	if current == text {
		return true
	}

	a, errA := value.ParseTolerant(current, lang)
	b, errB := value.ParseTolerant(text, lang)
	if errA != nil || errB != nil || a == nil || b == nil {
		return false
	}
	return value.Equal(a, b)
}

func (e *Editor) load(text string, lang config.Language) {
	e.block = document.FromText(text, lang, e.cfg)
	e.mode = ModeEdit
	e.records = nil
	e.sel = caret.Collapsed(caret.LineStart(e.block, 0))
	e.goal = -1
	e.history.reset()
	e.validator.Reset()

	e.emit(Update{Origin: OriginHydrate, Lines: e.block.Lines, TextChanged: true})
	e.Commit()
}

func (e *Editor) applyLanguage(lang config.Language) bool {
	if !lang.IsValid() || lang == e.block.Language {
		return false
	}

	line, col := e.CaretColumn()
	e.block.SetLanguage(lang)
	e.sel = caret.Collapsed(caret.Locate(e.block, line, col))
	e.validator.Reset()
	e.logger.Debug("language changed", logging.FieldLanguage, lang)

	e.emit(Update{Origin: OriginCommand, TextChanged: true})
	return true
}

// installDiff registers the diff view as a high-priority initial-content
// handler: diff requests replace the document with a read-only diff.
func (e *Editor) installDiff() {
	e.RegisterCommand(CommandInitialContent, PriorityHigh, func(payload any) bool {
		p, ok := payload.(*InitialContentPayload)
		if !ok || !p.IsDiffRequest {
			return false
		}
		p.PreventDefault()

		lang := p.Language
		if !lang.IsValid() {
			lang = e.block.Language
		}
		opts := diff.DefaultOptions(e.cfg)
		opts.Language = lang

		records, err := diff.Compute(p.OriginalContent, p.ModifiedContent, opts)
		if err != nil {
			e.logger.Warn("diff failed", logging.FieldError, err)
			return true
		}
		e.showDiff(records, lang)
		return true
	})
}

func (e *Editor) showDiff(records []diff.Record, lang config.Language) {
	e.records = records
	e.block = diff.FromRecords(records, lang, e.cfg)
	e.mode = ModeDiff
	e.sel = caret.Collapsed(caret.LineStart(e.block, 0))
	e.goal = -1
	e.dirty = false
	e.history.reset()
	e.validator.Reset()
	e.store.Set(validate.StoreSource, nil)

	added, removed := diff.Stats(records)
	e.logger.Debug("showing diff", logging.FieldLines, len(records), "added", added, "removed", removed)
	e.emit(Update{Origin: OriginHydrate, Lines: e.block.Lines})
}

// expandDiffFold replaces the fold record on line idx with the lines it hides.
func (e *Editor) expandDiffFold(idx int) bool {
	if idx < 0 || idx >= len(e.records) {
		return false
	}
	rec := e.records[idx]
	if rec.Type != diff.TypeFold || rec.Fold == nil || len(rec.Fold.Lines) == 0 {
		return false
	}

	records := make([]diff.Record, 0, len(e.records)+len(rec.Fold.Lines)-1)
	records = append(records, e.records[:idx]...)
	records = append(records, rec.Fold.Lines...)
	records = append(records, e.records[idx+1:]...)

	focus := e.sel.Focus
	e.records = records
	e.block = diff.FromRecords(records, e.block.Language, e.cfg)
	e.sel = caret.Collapsed(caret.Locate(e.block, focus.Line, 0))
	e.emit(Update{Origin: OriginCommand, Lines: e.block.Lines})
	return true
}
