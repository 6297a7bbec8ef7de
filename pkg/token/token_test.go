package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/token"
)

// typeOf returns the type of the first token whose content is text.
func typeOf(t *testing.T, tokens []token.Token, text string) token.Type {
	t.Helper()

	for _, tok := range tokens {
		if tok.Content == text {
			return tok.Type
		}
	}
	t.Fatalf("no token %q in %v", text, tokens)
	return token.Plain
}

func TestTokenize_Concatenation(t *testing.T) {
	t.Parallel()

	lines := []string{
		`{`,
		`  "name": "codeblock",`,
		`  "count": -12.5e3,`,
		`  "ok": true, "none": null,`,
		`  "nested": {"a": [1, 2, {"b": "c"}]}`,
		"\t\t\"tabbed\": \"x\"",
		`  "unterminated: "abc`,
		`}`,
		`   `,
		`  "emoji": "héllo ✓"`,
	}

	for _, lang := range []config.Language{config.LanguageJSON, config.LanguageYAML} {
		for _, line := range lines {
			tokens := token.Tokenize(line, lang)
			assert.Equal(t, line, token.Join(tokens), "language %s", lang)
		}
	}
}

func TestTokenize_JSONClasses(t *testing.T) {
	t.Parallel()

	tokens := token.Tokenize(`  "a": "b", "n": 12, "t": true, "z": null`, config.LanguageJSON)
	require.NotEmpty(t, tokens)

	assert.Equal(t, token.Key, typeOf(t, tokens, `"a"`))
	assert.Equal(t, token.String, typeOf(t, tokens, `"b"`))
	assert.Equal(t, token.Key, typeOf(t, tokens, `"n"`))
	assert.Equal(t, token.Number, typeOf(t, tokens, `12`))
	assert.Equal(t, token.Boolean, typeOf(t, tokens, `true`))
	assert.Equal(t, token.Null, typeOf(t, tokens, `null`))
	assert.Equal(t, token.Whitespace, tokens[0].Type)
}

func TestTokenize_YAMLKeys(t *testing.T) {
	t.Parallel()

	tokens := token.Tokenize("name: demo", config.LanguageYAML)
	require.NotEmpty(t, tokens)
	assert.Equal(t, "name: demo", token.Join(tokens))
	assert.Equal(t, token.Key, tokens[0].Type)
}

func TestTokenize_Fallback(t *testing.T) {
	t.Parallel()

	tokens := token.Tokenize(`{"a": 1}`, config.Language("no-such-grammar"))
	require.Len(t, tokens, 1)
	assert.Equal(t, token.Plain, tokens[0].Type)
	assert.Equal(t, `{"a": 1}`, tokens[0].Content)

	assert.Nil(t, token.Tokenize("", config.LanguageJSON))
}

func TestType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  token.Type
		name string
	}{
		{token.Plain, "plain"},
		{token.Whitespace, "whitespace"},
		{token.Key, "property"},
		{token.String, "string"},
		{token.Number, "number"},
		{token.Boolean, "boolean"},
		{token.Null, "null"},
		{token.Punctuation, "punctuation"},
		{token.Comment, "comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.name, tt.typ.String())
			parsed, ok := token.ParseType(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.typ, parsed)
		})
	}

	_, ok := token.ParseType("bogus")
	assert.False(t, ok)
}

func TestEqualAndLen(t *testing.T) {
	t.Parallel()

	a := []token.Token{{Content: `"é"`, Type: token.String}, {Content: ",", Type: token.Punctuation}}
	b := []token.Token{{Content: `"é"`, Type: token.String}, {Content: ",", Type: token.Punctuation}}
	c := []token.Token{{Content: `"é"`, Type: token.Key}, {Content: ",", Type: token.Punctuation}}

	assert.True(t, token.Equal(a, b))
	assert.False(t, token.Equal(a, c))
	assert.False(t, token.Equal(a, a[:1]))
	assert.Equal(t, 4, token.Len(a))
}
