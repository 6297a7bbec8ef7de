// Package editor hosts one code block. It routes commands, keys and pastes to
// the block, keeps highlight spans current after every edit, validates once
// typing pauses, and records undo history.
//
// An Editor is not safe for concurrent use. A UI drives it from a single
// update loop and calls Tick periodically.
package editor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/diff"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/highlight"
	"github.com/yaklabco/codeblock/pkg/paste"
	"github.com/yaklabco/codeblock/pkg/schema"
	"github.com/yaklabco/codeblock/pkg/validate"
)

// Mode is what the editor is showing.
type Mode uint8

const (
	// ModeEdit shows an editable document.
	ModeEdit Mode = iota

	// ModeDiff shows a read-only diff of two documents.
	ModeDiff
)

func (m Mode) String() string {
	if m == ModeDiff {
		return "diff"
	}
	return "edit"
}

// Option configures an Editor.
type Option func(*Editor)

// WithConfig sets the editor configuration.
func WithConfig(cfg config.EditorConfig) Option {
	return func(e *Editor) {
		e.cfg = cfg
	}
}

// WithSchema enables schema validation.
func WithSchema(s *schema.Schema) Option {
	return func(e *Editor) {
		e.schema = s
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithStore publishes validation errors to store instead of a private one.
func WithStore(store *diag.Store) Option {
	return func(e *Editor) {
		e.store = store
	}
}

// Editor is a code block with its caret, highlighting, validation and history.
type Editor struct {
	cfg    config.EditorConfig
	schema *schema.Schema
	logger *log.Logger
	now    func() time.Time

	block   *document.Block
	sel     caret.Selection
	goal    int
	mode    Mode
	records []diff.Record

	engine    *highlight.Engine
	validator *validate.Validator
	store     *diag.Store
	paste     *paste.Pipeline
	history   *history

	commands  map[string][]commandEntry
	nextCmdID int

	listeners      []listenerEntry
	nextListenerID int
	dispatching    bool
	pending        []Update

	dirty    bool
	lastEdit time.Time
}

// New creates an editor holding an empty document.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		cfg:      config.DefaultEditorConfig(),
		logger:   logging.Discard(),
		now:      time.Now,
		goal:     -1,
		commands: make(map[string][]commandEntry),
	}
	for _, opt := range opts {
		opt(e)
	}

	validator, err := validate.New(e.cfg, e.schema)
	if err != nil {
		return nil, fmt.Errorf("creating validator: %w", err)
	}
	e.validator = validator
	if e.store == nil {
		e.store = diag.NewStore()
	}
	e.engine = highlight.New()
	e.paste = paste.New()
	e.history = newHistory(e.cfg.HistoryLimit)
	e.block = document.FromText("", e.cfg.Language, e.cfg)

	e.installHighlight()
	e.installValidation()
	e.installDiff()
	return e, nil
}

// Block returns the current block. It is replaced by hydration and undo, so
// callers should not hold on to it.
func (e *Editor) Block() *document.Block {
	return e.block
}

// Text returns the document text with tab nodes as tab characters.
func (e *Editor) Text() string {
	return e.block.Text()
}

// Source returns the document text with indentation expanded to spaces.
func (e *Editor) Source() string {
	return e.block.Source()
}

// Language returns the block's language.
func (e *Editor) Language() config.Language {
	return e.block.Language
}

// Mode returns what the editor is showing.
func (e *Editor) Mode() Mode {
	return e.mode
}

// DiffRecords returns the records behind the diff view, or nil in edit mode.
func (e *Editor) DiffRecords() []diff.Record {
	return e.records
}

// Selection returns the current selection.
func (e *Editor) Selection() caret.Selection {
	return e.sel
}

// Caret returns the moving end of the selection.
func (e *Editor) Caret() caret.Position {
	return e.sel.Focus
}

// CaretColumn returns the caret's line and column.
func (e *Editor) CaretColumn() (int, int) {
	return e.sel.Focus.Line, caret.Column(e.block, e.sel.Focus)
}

// SetCaret places a collapsed caret at a line and column.
func (e *Editor) SetCaret(line, col int) {
	line = max(0, min(line, len(e.block.Lines)-1))
	e.sel = caret.Collapsed(caret.Snap(e.block, caret.Locate(e.block, line, col)))
	e.goal = -1
}

// Store returns the error store validation publishes to.
func (e *Editor) Store() *diag.Store {
	return e.store
}

// Errors returns the current validation errors.
func (e *Editor) Errors() []diag.ErrorInfo {
	return e.store.All()
}

// Dirty reports whether an edit is waiting for validation.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Tick runs validation when an edit is pending and the quiet period since the
// last edit has elapsed. It reports whether validation ran.
func (e *Editor) Tick(now time.Time) bool {
	if !e.dirty || now.Sub(e.lastEdit) < e.cfg.ValidationDelay {
		return false
	}
	e.Commit()
	return true
}

// Commit validates immediately and returns the current errors. Validation is
// skipped when the content has not changed since it last ran.
func (e *Editor) Commit() []diag.ErrorInfo {
	e.dirty = false
	if e.mode == ModeDiff {
		return nil
	}

	if e.validator.Update(e.block, e.store) {
		errs := e.store.All()
		e.logger.Debug("validated", logging.FieldErrors, len(errs), logging.FieldLanguage, e.block.Language)
		e.emit(Update{Origin: OriginValidation})
	}
	return e.store.All()
}
