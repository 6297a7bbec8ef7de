package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/token"
)

// Serialized node versions written by this package. Reading a higher version
// fails with ErrUnsupportedVersion.
const (
	BlockVersion     = 1
	LineVersion      = 1
	InlineVersion    = 1
	IndicatorVersion = 1
)

// Serialized type tags of the container nodes.
const (
	TypeBlock     = "code-block"
	TypeLine      = "code-line"
	TypeIndicator = "error-indicator"
)

var (
	// ErrUnsupportedVersion is returned when a node was written by a newer version.
	ErrUnsupportedVersion = errors.New("unsupported node version")

	// ErrUnknownNodeType is returned for an unrecognized type tag.
	ErrUnknownNodeType = errors.New("unknown node type")
)

// fields is a decoded JSON object; known keys are removed as they are read so
// that whatever remains can be preserved.
type fields map[string]json.RawMessage

func (f fields) take(key string, dst any) error {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	delete(f, key)
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// header reads and checks the type and version fields.
func (f fields) header(supported int) (string, error) {
	var typ string
	var version int
	if err := f.take("type", &typ); err != nil {
		return "", err
	}
	if err := f.take("version", &version); err != nil {
		return "", err
	}
	if version > supported {
		return typ, fmt.Errorf("%w: %s version %d (supported %d)", ErrUnsupportedVersion, typ, version, supported)
	}
	return typ, nil
}

func (f fields) rest() map[string]json.RawMessage {
	if len(f) == 0 {
		return nil
	}
	return map[string]json.RawMessage(f)
}

// object builds an output object: preserved unknown fields first, known fields
// override them.
func object(extra map[string]json.RawMessage, known map[string]any) map[string]any {
	out := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return out
}

type diffWire struct {
	Type    DiffType `json:"type"`
	OldLine int      `json:"oldLine,omitempty"`
	NewLine int      `json:"newLine,omitempty"`
	OldEnd  int      `json:"oldEnd,omitempty"`
	NewEnd  int      `json:"newEnd,omitempty"`
	Count   int      `json:"count,omitempty"`
}

// Export serializes the block. Validation state on lines and spans is derived
// and not written.
func Export(b *Block) ([]byte, error) {
	lines := make([]any, 0, len(b.Lines))
	for _, line := range b.Lines {
		lines = append(lines, exportLine(line))
	}

	known := map[string]any{
		"type":               TypeBlock,
		"version":            BlockVersion,
		"language":           b.Language,
		"hasValidationError": b.HasValidationError,
		"children":           lines,
	}
	if b.Indicator != nil {
		known["indicator"] = map[string]any{
			"type":     TypeIndicator,
			"version":  IndicatorVersion,
			"count":    b.Indicator.Count,
			"messages": b.Indicator.Messages,
		}
	}

	data, err := json.Marshal(object(b.Extra, known))
	if err != nil {
		return nil, fmt.Errorf("exporting block: %w", err)
	}
	return data, nil
}

func exportLine(line *Line) map[string]any {
	children := make([]any, 0, len(line.Children))
	for _, child := range line.Children {
		children = append(children, exportInline(child))
	}

	known := map[string]any{
		"type":        TypeLine,
		"version":     LineVersion,
		"isFoldable":  line.Foldable,
		"isCollapsed": line.Collapsed,
		"children":    children,
	}
	if line.Diff != nil {
		known["diff"] = diffWire(*line.Diff)
	}
	return object(line.Extra, known)
}

func exportInline(n *Inline) map[string]any {
	known := map[string]any{
		"type":    n.Kind.String(),
		"version": InlineVersion,
	}
	switch n.Kind {
	case KindHighlight:
		known["text"] = n.Text
		known["highlightType"] = n.HighlightType.String()
	case KindTab:
	case KindBase64, KindLongText:
		known["text"] = n.Text
	}
	return object(n.Extra, known)
}

// Import decodes a block written by Export. Fresh node IDs are assigned.
func Import(data []byte, cfg config.EditorConfig) (*Block, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("importing block: %w", err)
	}

	typ, err := f.header(BlockVersion)
	if err != nil {
		return nil, err
	}
	if typ != TypeBlock {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, typ)
	}

	var lang config.Language
	var rawLines []json.RawMessage
	var rawIndicator json.RawMessage
	block := New(config.LanguageJSON, cfg)

	if err := f.take("language", &lang); err != nil {
		return nil, err
	}
	if err := f.take("hasValidationError", &block.HasValidationError); err != nil {
		return nil, err
	}
	if err := f.take("children", &rawLines); err != nil {
		return nil, err
	}
	if err := f.take("indicator", &rawIndicator); err != nil {
		return nil, err
	}
	if lang.IsValid() {
		block.Language = lang
	}
	block.Extra = f.rest()

	if len(rawIndicator) > 0 && string(rawIndicator) != "null" {
		indicator, err := importIndicator(rawIndicator)
		if err != nil {
			return nil, err
		}
		block.Indicator = indicator
	}

	for i, raw := range rawLines {
		line, err := block.importLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		block.Lines = append(block.Lines, line)
	}
	if len(block.Lines) == 0 {
		block.Lines = append(block.Lines, block.NewLine())
	}

	block.RecomputeFoldable()
	return block, nil
}

func importIndicator(raw json.RawMessage) (*ErrorIndicator, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("indicator: %w", err)
	}
	if _, err := f.header(IndicatorVersion); err != nil {
		return nil, err
	}
	indicator := &ErrorIndicator{}
	if err := f.take("count", &indicator.Count); err != nil {
		return nil, err
	}
	if err := f.take("messages", &indicator.Messages); err != nil {
		return nil, err
	}
	return indicator, nil
}

func (b *Block) importLine(raw json.RawMessage) (*Line, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	typ, err := f.header(LineVersion)
	if err != nil {
		return nil, err
	}
	if typ != TypeLine {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, typ)
	}

	line := b.NewLine()
	var rawChildren []json.RawMessage
	var diff *diffWire

	if err := f.take("isFoldable", &line.Foldable); err != nil {
		return nil, err
	}
	if err := f.take("isCollapsed", &line.Collapsed); err != nil {
		return nil, err
	}
	if err := f.take("diff", &diff); err != nil {
		return nil, err
	}
	if err := f.take("children", &rawChildren); err != nil {
		return nil, err
	}
	line.Extra = f.rest()
	if diff != nil {
		meta := DiffMeta(*diff)
		line.Diff = &meta
	}

	for _, rawChild := range rawChildren {
		child, err := b.importInline(rawChild)
		if err != nil {
			return nil, err
		}
		line.Children = append(line.Children, child)
	}
	return line, nil
}

func (b *Block) importInline(raw json.RawMessage) (*Inline, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	typ, err := f.header(InlineVersion)
	if err != nil {
		return nil, err
	}

	var node *Inline
	switch typ {
	case KindTab.String():
		node = b.NewTab()
	case KindHighlight.String(), KindBase64.String(), KindLongText.String():
		var text, class string
		if err := f.take("text", &text); err != nil {
			return nil, err
		}
		if err := f.take("highlightType", &class); err != nil {
			return nil, err
		}
		highlightType, ok := token.ParseType(class)
		if !ok {
			highlightType = token.String
			if typ == KindHighlight.String() {
				highlightType = token.Plain
			}
		}
		node = b.NewHighlight(token.Token{Content: text, Type: highlightType})
		switch typ {
		case KindBase64.String():
			node.Kind = KindBase64
		case KindLongText.String():
			node.Kind = KindLongText
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, typ)
	}

	node.Extra = f.rest()
	return node, nil
}
