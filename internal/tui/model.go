// Package tui is the terminal editor: a Bubble Tea program hosting one
// editor.Editor for a JSON or YAML file.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/internal/ui/pretty"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/editor"
	"github.com/yaklabco/codeblock/pkg/fsutil"
	"github.com/yaklabco/codeblock/pkg/schema"
)

// tickInterval is how often pending validation is checked.
const tickInterval = 100 * time.Millisecond

// Options configures the terminal editor.
type Options struct {
	// Path is where the document is saved. The file need not exist.
	Path string

	// Content is the initial document text.
	Content []byte

	// Snapshot is the on-disk state Content was read from, nil for a new file.
	Snapshot *fsutil.Snapshot

	Language config.Language
	Config   config.EditorConfig
	Schema   *schema.Schema

	// Backup keeps a copy of the original file on first save.
	Backup bool

	// Color is the color mode: auto, always or never.
	Color string

	Logger *log.Logger
}

type tickMsg time.Time

type savedMsg struct {
	content  string
	snapshot *fsutil.Snapshot
	result   fsutil.SaveResult
	err      error
}

// Model is the Bubble Tea model of the editor.
type Model struct {
	ctx    context.Context
	opts   Options
	styles *pretty.Styles
	logger *log.Logger

	ed *editor.Editor

	// review is the read-only diff of unsaved changes, nil when hidden.
	review *editor.Editor

	snapshot  *fsutil.Snapshot
	saved     string
	forceSave bool
	confirm   bool

	status    string
	statusErr bool

	width  int
	height int
	top    int

	readClipboard  func() (string, error)
	writeClipboard func(string) error
}

// New creates the model and loads opts.Content into a fresh editor.
func New(ctx context.Context, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cfg := opts.Config
	if opts.Language.IsValid() {
		cfg.Language = opts.Language
	}

	ed, err := editor.New(
		editor.WithConfig(cfg),
		editor.WithSchema(opts.Schema),
		editor.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating editor: %w", err)
	}
	ed.SetInitialContent(&editor.InitialContentPayload{
		Content:     string(opts.Content),
		Language:    cfg.Language,
		ForceUpdate: true,
	})

	return &Model{
		ctx:            ctx,
		opts:           opts,
		styles:         pretty.NewStyles(colorEnabled(opts.Color)),
		logger:         logger,
		ed:             ed,
		snapshot:       opts.Snapshot,
		saved:          ed.Source(),
		width:          80,
		height:         24,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
	}, nil
}

// Editor returns the hosted editor.
func (m *Model) Editor() *editor.Editor {
	return m.ed
}

// Modified reports whether the document differs from what was last saved.
func (m *Model) Modified() bool {
	return m.ed.Source() != m.saved
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case tickMsg:
		m.ed.Tick(time.Time(msg))
		return m, tick()

	case savedMsg:
		m.finishSave(msg)
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.scroll()
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key != "ctrl+q" {
		m.confirm = false
	}

	if m.review != nil {
		return m.handleReviewKey(msg)
	}

	if msg.Paste {
		m.clearStatus()
		m.ed.Paste(string(msg.Runes))
		return nil
	}

	switch key {
	case "ctrl+q":
		return m.quit()
	case "ctrl+s":
		return m.save()
	case "ctrl+c":
		m.copySelection(false)
		return nil
	case "ctrl+x":
		m.copySelection(true)
		return nil
	case "ctrl+v":
		m.paste()
		return nil
	case "ctrl+l":
		m.toggleLanguage()
		return nil
	case "ctrl+f":
		line, _ := m.ed.CaretColumn()
		m.ed.ToggleFold(line)
		return nil
	case "ctrl+d":
		m.openReview()
		return nil
	}

	for _, ev := range keyEvents(msg) {
		if m.ed.HandleKey(ev) {
			m.clearStatus()
		}
	}
	return nil
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+q":
		return m.quit()
	case "esc", "ctrl+d":
		m.review = nil
		m.top = 0
		m.setStatus("back to editing", false)
		return nil
	case "enter", "ctrl+f":
		line, _ := m.review.CaretColumn()
		m.review.ToggleFold(line)
		return nil
	}
	for _, ev := range keyEvents(msg) {
		m.review.HandleKey(ev)
	}
	return nil
}

// quit exits, asking for a second ctrl+q when there are unsaved changes.
func (m *Model) quit() tea.Cmd {
	if m.Modified() && !m.confirm {
		m.confirm = true
		m.setStatus("unsaved changes: ctrl+q again to quit, ctrl+s to save", true)
		return nil
	}
	return tea.Quit
}

// save writes the document in a command so the update loop never blocks on
// the filesystem.
func (m *Model) save() tea.Cmd {
	content := m.ed.Source()
	data := content
	if data != "" && !strings.HasSuffix(data, "\n") {
		data += "\n"
	}

	ctx, path, snap := m.ctx, m.opts.Path, m.snapshot
	opts := fsutil.SaveOptions{Backup: m.opts.Backup, Force: m.forceSave}
	m.setStatus("saving…", false)

	return func() tea.Msg {
		result, err := fsutil.Save(ctx, path, snap, []byte(data), opts)
		if err != nil {
			return savedMsg{err: err}
		}
		_, fresh, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{content: content, snapshot: fresh, result: result}
	}
}

func (m *Model) finishSave(msg savedMsg) {
	if msg.err != nil {
		if errors.Is(msg.err, fsutil.ErrModified) {
			m.forceSave = true
			m.setStatus("file changed on disk: ctrl+s again to overwrite", true)
			return
		}
		m.logger.Error("save failed", logging.FieldPath, m.opts.Path, logging.FieldError, msg.err)
		m.setStatus("save failed: "+msg.err.Error(), true)
		return
	}

	m.forceSave = false
	m.snapshot = msg.snapshot
	m.saved = msg.content
	m.logger.Info("saved", logging.FieldPath, m.opts.Path, logging.FieldWrite, msg.result.Written)

	status := "saved " + filepath.Base(m.opts.Path)
	if !msg.result.Written {
		status = "no changes to save"
	}
	if msg.result.BackedUp {
		status += " (backup " + filepath.Base(msg.result.BackupPath) + ")"
	}
	m.setStatus(status, false)
}

func (m *Model) copySelection(cut bool) {
	text := m.ed.SelectedText()
	if text == "" {
		m.setStatus("nothing selected", false)
		return
	}
	if err := m.writeClipboard(text); err != nil {
		m.setStatus("copy failed: "+err.Error(), true)
		return
	}
	if cut {
		m.ed.HandleKey(editor.KeyEvent{Key: editor.KeyBackspace})
		m.setStatus("cut", false)
		return
	}
	m.setStatus("copied", false)
}

func (m *Model) paste() {
	text, err := m.readClipboard()
	if err != nil {
		m.setStatus("paste failed: "+err.Error(), true)
		return
	}
	if m.ed.Paste(text) {
		m.clearStatus()
	}
}

func (m *Model) toggleLanguage() {
	next := config.LanguageYAML
	if m.ed.Language() == config.LanguageYAML {
		next = config.LanguageJSON
	}
	if m.ed.SetLanguage(next) {
		m.setStatus("language: "+string(next), false)
	}
}

// openReview shows the unsaved changes as a diff in a second, read-only editor.
func (m *Model) openReview() {
	if !m.Modified() {
		m.setStatus("no unsaved changes", false)
		return
	}

	cfg := m.opts.Config
	cfg.Language = m.ed.Language()
	review, err := editor.New(editor.WithConfig(cfg), editor.WithLogger(m.logger))
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	review.SetInitialContent(&editor.InitialContentPayload{
		Language:        cfg.Language,
		OriginalContent: m.saved,
		ModifiedContent: m.ed.Source(),
		IsDiffRequest:   true,
	})
	if review.Mode() != editor.ModeDiff {
		m.setStatus("cannot diff the current document", true)
		return
	}

	m.review = review
	m.top = 0
	m.setStatus("reviewing changes: esc to return, enter expands folds", false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// active returns the editor being shown.
func (m *Model) active() *editor.Editor {
	if m.review != nil {
		return m.review
	}
	return m.ed
}

// bodyHeight is the number of document rows between the header and status.
func (m *Model) bodyHeight() int {
	return max(m.height-2, 1)
}

// scroll keeps the caret line on screen.
func (m *Model) scroll() {
	ed := m.active()
	visible := ed.Block().VisibleLines()
	line, _ := ed.CaretColumn()

	row := 0
	for i, idx := range visible {
		if idx >= line {
			row = i
			break
		}
	}

	height := m.bodyHeight()
	if row < m.top {
		m.top = row
	}
	if row >= m.top+height {
		m.top = row - height + 1
	}
	m.top = max(0, min(m.top, max(len(visible)-height, 0)))
}
