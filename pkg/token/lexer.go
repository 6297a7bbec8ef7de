package token

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/yaklabco/codeblock/pkg/config"
)

//nolint:gochecknoglobals // Lexers are immutable after construction and shared.
var (
	lexerCache   = map[config.Language]chroma.Lexer{}
	lexerCacheMu sync.Mutex
)

// lexerFor returns the coalescing chroma lexer for lang, or nil if chroma has
// no grammar for it.
func lexerFor(lang config.Language) chroma.Lexer {
	lexerCacheMu.Lock()
	defer lexerCacheMu.Unlock()

	if lexer, ok := lexerCache[lang]; ok {
		return lexer
	}

	var lexer chroma.Lexer
	if base := lexers.Get(lang.String()); base != nil {
		lexer = chroma.Coalesce(base)
	}
	lexerCache[lang] = lexer
	return lexer
}

// Tokenize lexes one line. If the grammar is unavailable or its output would not
// reproduce the line exactly, the whole line is returned as one Plain token.
func Tokenize(line string, lang config.Language) []Token {
	if line == "" {
		return nil
	}

	lexer := lexerFor(lang)
	if lexer == nil {
		return plain(line)
	}

	iter, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, line)
	if err != nil {
		return plain(line)
	}

	raw := iter.Tokens()
	tokens := make([]Token, 0, len(raw))
	for _, ct := range raw {
		if ct.Value == "" {
			continue
		}
		tokens = appendToken(tokens, Token{Content: ct.Value, Type: classify(ct)})
	}

	// Some grammars force a trailing newline onto the input.
	if !strings.HasSuffix(line, "\n") && len(tokens) > 0 {
		last := &tokens[len(tokens)-1]
		last.Content = strings.TrimSuffix(last.Content, "\n")
		if last.Content == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}

	if Join(tokens) != line {
		return plain(line)
	}

	markKeys(tokens)
	return tokens
}

func plain(line string) []Token {
	return []Token{{Content: line, Type: Plain}}
}

// appendToken merges runs of the same low-information type.
func appendToken(tokens []Token, tok Token) []Token {
	if n := len(tokens); n > 0 && tokens[n-1].Type == tok.Type {
		switch tok.Type {
		case Whitespace, Plain, Comment:
			tokens[n-1].Content += tok.Content
			return tokens
		case Key, String, Number, Boolean, Null, Punctuation:
		}
	}
	return append(tokens, tok)
}

// classify maps a chroma token onto a Type.
func classify(ct chroma.Token) Type {
	tt := ct.Type
	switch {
	case strings.TrimSpace(ct.Value) == "":
		return Whitespace
	case tt.InCategory(chroma.Comment):
		return Comment
	case tt == chroma.NameTag || tt == chroma.NameAttribute || tt == chroma.NameProperty:
		return Key
	case tt.InSubCategory(chroma.LiteralNumber):
		return Number
	case tt.InSubCategory(chroma.LiteralString):
		return literal(ct.Value, String)
	case tt.InCategory(chroma.Keyword), tt.InCategory(chroma.Literal), tt.InCategory(chroma.Name):
		return literal(ct.Value, Plain)
	case tt == chroma.Punctuation || tt.InCategory(chroma.Operator):
		return Punctuation
	case punctuationOnly(ct.Value):
		// Grammars lexing a fragment outside its object context report
		// separators as errors.
		return Punctuation
	default:
		return literal(ct.Value, Plain)
	}
}

// literal recognises keyword-like scalars that YAML grammars report as plain text.
func literal(text string, fallback Type) Type {
	switch strings.TrimSpace(text) {
	case "true", "false", "True", "False", "TRUE", "FALSE":
		return Boolean
	case "null", "Null", "NULL", "~":
		return Null
	}
	if fallback != String && isNumber(strings.TrimSpace(text)) {
		return Number
	}
	return fallback
}

func punctuationOnly(s string) bool {
	return strings.Trim(s, "{}[]:,") == "" && s != ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == '+':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return false
			}
		case r == '.' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return digits > 0
}

// markKeys reclassifies a string or plain scalar that is followed by optional
// whitespace and a colon as an object key.
func markKeys(tokens []Token) {
	for i := range tokens {
		if tokens[i].Type != String && tokens[i].Type != Plain {
			continue
		}
		next := i + 1
		if next < len(tokens) && tokens[next].Type == Whitespace {
			next++
		}
		if next < len(tokens) && tokens[next].Type == Punctuation && strings.HasPrefix(tokens[next].Content, ":") {
			tokens[i].Type = Key
		}
	}
}
