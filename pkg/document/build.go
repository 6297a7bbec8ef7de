package document

import (
	"strings"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/token"
)

// FromText builds a block from text. Leading indentation becomes tab nodes and
// the rest of each line is tokenized.
func FromText(text string, lang config.Language, cfg config.EditorConfig) *Block {
	b := New(lang, cfg)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, raw := range strings.Split(text, "\n") {
		b.Lines = append(b.Lines, b.BuildLine(raw))
	}
	b.RecomputeFoldable()
	return b
}

// SplitIndent counts leading indentation units (a tab character or a run of
// spacesPerTab spaces) and returns the remaining text.
func SplitIndent(text string, spacesPerTab int) (int, string) {
	if spacesPerTab < 1 {
		spacesPerTab = 1
	}
	unit := strings.Repeat(" ", spacesPerTab)

	tabs := 0
	for {
		switch {
		case strings.HasPrefix(text, "\t"):
			text = text[1:]
		case strings.HasPrefix(text, unit):
			text = text[len(unit):]
		default:
			return tabs, text
		}
		tabs++
	}
}

// BuildLine creates a line from raw text.
func (b *Block) BuildLine(text string) *Line {
	tabs, rest := SplitIndent(text, b.cfg.SpacesPerTab)
	line := b.NewLine()
	for range tabs {
		line.Children = append(line.Children, b.NewTab())
	}
	line.Children = append(line.Children, b.Tokens(rest)...)
	return line
}

// BuildRawLine creates a line with tabs leading tab nodes and text kept as is,
// whitespace included. Used for pasted code in other languages.
func (b *Block) BuildRawLine(text string, tabs int) *Line {
	line := b.NewLine()
	for range tabs {
		line.Children = append(line.Children, b.NewTab())
	}
	if text != "" {
		line.Children = append(line.Children, b.NewHighlight(token.Token{Content: text, Type: token.Plain}))
	}
	return line
}

// Tokens tokenizes text in the block's language into inline nodes.
func (b *Block) Tokens(text string) []*Inline {
	toks := token.Tokenize(text, b.Language)
	nodes := make([]*Inline, 0, len(toks))
	for _, tok := range toks {
		nodes = append(nodes, b.WrapString(tok))
	}
	return nodes
}

// SetLanguage switches the grammar and re-tokenizes every line, keeping line
// identity and folding state.
func (b *Block) SetLanguage(lang config.Language) {
	if !lang.IsValid() || lang == b.Language {
		return
	}
	b.Language = lang
	for _, line := range b.Lines {
		indent := line.Indent()
		var sb strings.Builder
		for _, child := range line.Children[indent:] {
			sb.WriteString(child.Text)
		}
		line.Children = append(line.Children[:indent:indent], b.Tokens(sb.String())...)
	}
}
