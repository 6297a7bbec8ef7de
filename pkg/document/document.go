// Package document is the node model of a structured code block.
//
// A Block owns an ordered sequence of Lines, each Line owns an ordered sequence
// of Inline nodes. Inline is a tagged union over a closed set of kinds (syntax
// highlighted span, indentation tab, base64 literal, long text literal).
//
// Concatenating the text of every inline node on a line, and joining lines with
// a newline, reproduces the logical document. Tabs contribute a tab character.
package document

import (
	"encoding/json"
	"strings"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/value"
)

// ZeroWidth is the filler character that keeps empty spans caret-addressable.
// It is invisible and stripped from the logical text.
const ZeroWidth = "\u200b"

// Block is one editable code region.
type Block struct {
	// Language selects the grammar used to tokenize and validate the block.
	Language config.Language

	// HasValidationError is true when any error is attached to the block.
	HasValidationError bool

	// Lines are the block's lines in document order.
	Lines []*Line

	// Indicator is the block-level error indicator, nil when there are no errors.
	Indicator *ErrorIndicator

	// Extra holds serialized fields this version does not understand.
	Extra map[string]json.RawMessage

	cfg    config.EditorConfig
	nextID int
}

// ErrorIndicator summarizes a block's errors.
type ErrorIndicator struct {
	Count    int
	Messages []string
}

// DiffType marks a line rendered as part of a diff.
type DiffType string

// Diff line types.
const (
	DiffAdded   DiffType = "added"
	DiffRemoved DiffType = "removed"
	DiffContext DiffType = "context"
	DiffFold    DiffType = "fold"
)

// DiffMeta carries diff information for a line. For fold lines the range fields
// describe the folded run.
type DiffMeta struct {
	Type    DiffType
	OldLine int
	NewLine int
	OldEnd  int
	NewEnd  int
	Count   int
}

// Line is one physical line of a block.
type Line struct {
	ID        int
	Foldable  bool
	Collapsed bool
	Hidden    bool
	Diff      *DiffMeta
	Errors    []diag.ErrorInfo
	Children  []*Inline

	// Extra holds serialized fields this version does not understand.
	Extra map[string]json.RawMessage
}

// New returns an empty block.
func New(lang config.Language, cfg config.EditorConfig) *Block {
	if !lang.IsValid() {
		lang = config.LanguageJSON
	}
	if cfg.SpacesPerTab < 1 {
		cfg.SpacesPerTab = config.DefaultEditorConfig().SpacesPerTab
	}
	return &Block{Language: lang, cfg: cfg}
}

// Config returns the editor configuration the block was built with.
func (b *Block) Config() config.EditorConfig {
	return b.cfg
}

// NextID allocates a node ID unique within the block.
func (b *Block) NextID() int {
	b.nextID++
	return b.nextID
}

// Text returns the logical text of the block with zero-width filler removed.
func (b *Block) Text() string {
	parts := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		parts[i] = line.Text()
	}
	return value.StripInvisible(strings.Join(parts, "\n"))
}

// Source returns the text with each tab node expanded to spaces. This is the
// form handed to parsers and written to disk, since YAML forbids tab indentation.
func (b *Block) Source() string {
	parts := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		parts[i] = b.LineSource(line)
	}
	return value.StripInvisible(strings.Join(parts, "\n"))
}

// LineSource renders one line with tab nodes expanded to spaces.
func (b *Block) LineSource(line *Line) string {
	indent := strings.Repeat(" ", b.cfg.SpacesPerTab)
	var sb strings.Builder
	for _, child := range line.Children {
		if child.Kind == KindTab {
			sb.WriteString(indent)
			continue
		}
		sb.WriteString(child.Text)
	}
	return sb.String()
}

// Line returns the line at index i, or nil if out of range.
func (b *Block) Line(i int) *Line {
	if i < 0 || i >= len(b.Lines) {
		return nil
	}
	return b.Lines[i]
}

// LineIndex returns the index of line in the block, or -1.
func (b *Block) LineIndex(line *Line) int {
	for i, l := range b.Lines {
		if l == line {
			return i
		}
	}
	return -1
}

// InsertLine inserts lines at index i (clamped to the block bounds).
func (b *Block) InsertLine(i int, lines ...*Line) {
	if i < 0 {
		i = 0
	}
	if i > len(b.Lines) {
		i = len(b.Lines)
	}
	b.Lines = append(b.Lines[:i], append(append([]*Line(nil), lines...), b.Lines[i:]...)...)
}

// RemoveLine removes the line at index i and returns it.
func (b *Block) RemoveLine(i int) *Line {
	if i < 0 || i >= len(b.Lines) {
		return nil
	}
	line := b.Lines[i]
	b.Lines = append(b.Lines[:i], b.Lines[i+1:]...)
	return line
}

// NewLine creates an empty line with a fresh ID.
func (b *Block) NewLine(children ...*Inline) *Line {
	return &Line{ID: b.NextID(), Children: children}
}

// Text returns the line's text. Tabs contribute a tab character.
func (l *Line) Text() string {
	var sb strings.Builder
	for _, child := range l.Children {
		sb.WriteString(child.Text)
	}
	return sb.String()
}

// Indent returns the number of leading tab nodes.
func (l *Line) Indent() int {
	n := 0
	for _, child := range l.Children {
		if child.Kind != KindTab {
			break
		}
		n++
	}
	return n
}

// IsBlank reports whether the line has no visible content besides indentation.
func (l *Line) IsBlank() bool {
	for _, child := range l.Children {
		if child.Kind == KindTab {
			continue
		}
		if strings.TrimSpace(value.StripInvisible(child.Text)) != "" {
			return false
		}
	}
	return true
}

// Content returns the children after the leading tab run.
func (l *Line) Content() []*Inline {
	return l.Children[l.Indent():]
}

// Len returns the line length in runes.
func (l *Line) Len() int {
	n := 0
	for _, child := range l.Children {
		n += child.Len()
	}
	return n
}
