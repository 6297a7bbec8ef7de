package document

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/codeblock/pkg/token"
)

// Kind is the variant of an inline node.
type Kind uint8

// Inline node kinds.
const (
	// KindHighlight is a syntax-highlighted text span.
	KindHighlight Kind = iota
	// KindTab is one atomic indentation unit.
	KindTab
	// KindBase64 is a string literal holding base64 data.
	KindBase64
	// KindLongText is a string literal longer than the long-text threshold.
	KindLongText
)

// String returns the serialized type tag of the kind.
func (k Kind) String() string {
	switch k {
	case KindHighlight:
		return "code-highlight"
	case KindTab:
		return "tab"
	case KindBase64:
		return "base64"
	case KindLongText:
		return "long-text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TabText is the text a tab node contributes to its line.
const TabText = "\t"

// Inline is a leaf node of a line.
//
// Text is never mutated in place: edits replace the node. For Base64 and
// LongText nodes Text is the full original literal, quotes included, and the
// truncated form is only produced by Preview.
type Inline struct {
	ID   int
	Kind Kind
	Text string

	// HighlightType is the token class of the text.
	HighlightType token.Type

	HasValidationError bool
	ValidationMessage  string

	// Extra holds serialized fields this version does not understand.
	Extra map[string]json.RawMessage
}

// Len returns the length of the node's text in runes.
func (n *Inline) Len() int {
	return utf8.RuneCountInString(n.Text)
}

// IsText reports whether the caret may rest inside the node.
func (n *Inline) IsText() bool {
	return n.Kind == KindHighlight
}

// Token returns the node as a token.
func (n *Inline) Token() token.Token {
	return token.Token{Content: n.Text, Type: n.HighlightType}
}

// NewHighlight creates a highlight span for tok.
func (b *Block) NewHighlight(tok token.Token) *Inline {
	return &Inline{ID: b.NextID(), Kind: KindHighlight, Text: tok.Content, HighlightType: tok.Type}
}

// NewTab creates an indentation tab node.
func (b *Block) NewTab() *Inline {
	return &Inline{ID: b.NextID(), Kind: KindTab, Text: TabText, HighlightType: token.Whitespace}
}

var (
	dataURIPattern = regexp.MustCompile(`^data:[\w.+-]+/[\w.+-]+(;[\w=.+-]+)*;base64,[A-Za-z0-9+/]+={0,2}$`)
	base64Pattern  = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
)

// IsBase64 reports whether a string literal's body looks like base64 data:
// a base64 data URI, or a bare base64 payload of at least minLen characters.
func IsBase64(body string, minLen int) bool {
	if dataURIPattern.MatchString(body) {
		return true
	}
	if len(body) < minLen || len(body)%4 != 0 {
		return false
	}
	return base64Pattern.MatchString(body) && strings.ContainsAny(body, "0123456789+/=")
}

// WrapString creates the node for tok, choosing a Base64 or LongText node when a
// string token matches the base64 pattern or exceeds the long-text threshold.
func (b *Block) WrapString(tok token.Token) *Inline {
	node := b.NewHighlight(tok)
	if tok.Type != token.String {
		return node
	}

	body := unquote(tok.Content)
	switch {
	case b.cfg.Base64MinLength > 0 && IsBase64(body, b.cfg.Base64MinLength):
		node.Kind = KindBase64
	case b.cfg.LongTextThreshold > 0 && utf8.RuneCountInString(body) > b.cfg.LongTextThreshold:
		node.Kind = KindLongText
	}
	return node
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Preview renders the node for display within width cells. Only Base64 and
// LongText nodes are shortened.
func (n *Inline) Preview(width int) string {
	if width < 8 {
		width = 8
	}

	switch n.Kind {
	case KindBase64:
		body := unquote(n.Text)
		prefix := body
		if i := strings.Index(body, ","); i >= 0 && strings.HasPrefix(body, "data:") {
			prefix = body[:i+1]
		} else {
			prefix = truncate.String(body, 8)
		}
		return fmt.Sprintf(`"%s…" [base64 %s]`, prefix, humanSize(len(body)*3/4))
	case KindLongText:
		body := unquote(n.Text)
		return `"` + truncate.StringWithTail(body, uint(width), "…") + fmt.Sprintf(`" [%d chars]`, utf8.RuneCountInString(body))
	case KindHighlight, KindTab:
		return n.Text
	default:
		return n.Text
	}
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
