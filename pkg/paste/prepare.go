// Package paste turns clipboard text into code lines: it detects the
// language, pretty-prints JSON, and splices the result into a block at the
// caret with indentation expressed as tab nodes.
package paste

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/langdetect"
	"github.com/yaklabco/codeblock/pkg/value"
)

// formatIndent is the indentation width of value.Format output.
const formatIndent = 2

// Prepared is pasted text ready to be split into lines.
type Prepared struct {
	// Text is the content to insert, without a trailing newline.
	Text string

	// Language is the detected document language of the paste.
	Language config.Language

	// Value is the parsed value when the paste was valid JSON.
	Value any

	// Formatted is set when Text was produced by pretty-printing Value.
	Formatted bool

	// Code is set for source code in another language, which keeps its
	// whitespace as is.
	Code bool
}

// DetectLanguage applies the paste heuristic: a leading '{' or '[' means JSON,
// anything else YAML.
func DetectLanguage(text string) config.Language {
	return langdetect.DocumentLanguage(text)
}

// Prepare normalizes pasted text for a block in the target language. A fenced
// code block pasted from Markdown is unwrapped first. Valid JSON is
// pretty-printed in the target language; other text passes through unchanged.
func Prepare(raw string, target config.Language) Prepared {
	content := strings.ReplaceAll(raw, "\r\n", "\n")
	if body, _, ok := ExtractFence(content); ok {
		content = body
	}
	content = strings.TrimRight(content, "\n")

	prep := Prepared{Text: content, Language: DetectLanguage(content)}
	if strings.TrimSpace(content) == "" {
		return prep
	}

	if prep.Language == config.LanguageJSON {
		if parsed, err := value.Parse(value.StripInvisible(content)); err == nil {
			if !target.IsValid() {
				target = config.LanguageJSON
			}
			if formatted, ferr := value.Format(parsed, target); ferr == nil {
				prep.Value = parsed
				prep.Text = strings.TrimRight(formatted, "\n")
				prep.Formatted = true
				return prep
			}
		}
	}

	prep.Code = langdetect.Detect([]byte(content)).IsCode()
	return prep
}

// ExtractFence returns the body and info string of the first fenced code
// block in Markdown text.
func ExtractFence(markdown string) (string, string, bool) {
	if !strings.Contains(markdown, "```") && !strings.Contains(markdown, "~~~") {
		return "", "", false
	}

	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var (
		body  bytes.Buffer
		info  string
		found bool
	)
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fence, ok := node.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		info = string(fence.Language(source))
		lines := fence.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			body.Write(seg.Value(source))
		}
		found = true
		return ast.WalkStop, nil
	})

	if !found {
		return "", "", false
	}
	return body.String(), info, true
}
