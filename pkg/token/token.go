// Package token splits a single line of JSON or YAML into classified tokens.
//
// Tokens are contiguous and cover the whole line: concatenating the Content of
// every token reproduces the input exactly, whitespace included.
package token

import (
	"strings"
	"unicode/utf8"
)

// Type classifies a token. The String form is the highlight class name.
type Type uint8

// Token types.
const (
	Plain Type = iota
	Whitespace
	Key
	String
	Number
	Boolean
	Null
	Punctuation
	Comment
)

var typeNames = [...]string{
	Plain:       "plain",
	Whitespace:  "whitespace",
	Key:         "property",
	String:      "string",
	Number:      "number",
	Boolean:     "boolean",
	Null:        "null",
	Punctuation: "punctuation",
	Comment:     "comment",
}

// String returns the highlight class name of t.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "plain"
}

// ParseType returns the Type for a highlight class name. Unknown names map to
// Plain and false.
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), true
		}
	}
	return Plain, false
}

// Token is a classified span of a line.
type Token struct {
	Content string
	Type    Type
}

// Len returns the length of the token in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Content)
}

// Join concatenates token contents.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Content)
	}
	return b.String()
}

// Equal reports whether two token sequences have the same types and contents.
func Equal(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Len returns the total rune length of a token sequence.
func Len(tokens []Token) int {
	n := 0
	for _, tok := range tokens {
		n += tok.Len()
	}
	return n
}
