package value_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/value"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	t.Parallel()

	v, err := value.Parse(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [1, "two"]}`)
	require.NoError(t, err)

	obj, ok := v.(*value.Object)
	require.True(t, ok, "expected ordered object, got %T", v)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, value.Keys(obj))

	inner, _ := obj.Get("alpha")
	assert.Equal(t, []string{"y", "b"}, value.Keys(inner.(*value.Object)))

	num, _ := obj.Get("zeta")
	assert.Equal(t, json.Number("1"), num)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{name: "missing value", input: "{\n  \"a\": 1,\n  \"b\": }", wantLine: 3},
		{name: "unexpected end", input: "{\n  \"a\": [1,\n", wantLine: 3},
		{name: "trailing data", input: "{}\n{}", wantLine: 2},
		{name: "empty input", input: "", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := value.Parse(tt.input)
			require.Error(t, err)

			var syntaxErr *value.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.wantLine, syntaxErr.Line)
			assert.NotEmpty(t, syntaxErr.Message)
		})
	}
}

func TestParseTolerant(t *testing.T) {
	t.Parallel()

	t.Run("accepts comments and trailing commas", func(t *testing.T) {
		t.Parallel()

		v, serr := value.ParseTolerant("{\n  // note\n  \"a\": [1, 2,],\n}", config.LanguageJSON)
		require.Nil(t, serr)
		assert.True(t, value.Equal(v, map[string]any{"a": []any{1, 2}}))
	})

	t.Run("blank input is nil without error", func(t *testing.T) {
		t.Parallel()

		v, serr := value.ParseTolerant("  \n\u200b\n", config.LanguageJSON)
		assert.Nil(t, serr)
		assert.Nil(t, v)
	})

	t.Run("reports line of json failure", func(t *testing.T) {
		t.Parallel()

		_, serr := value.ParseTolerant("{\n  \"a\": 1\n  \"b\": 2\n}", config.LanguageJSON)
		require.NotNil(t, serr)
		assert.Equal(t, 3, serr.Line)
	})

	t.Run("parses yaml in order", func(t *testing.T) {
		t.Parallel()

		v, serr := value.ParseTolerant("name: demo\ncount: 3\ntags:\n  - a\n  - b\n", config.LanguageYAML)
		require.Nil(t, serr)

		obj := v.(*value.Object)
		assert.Equal(t, []string{"name", "count", "tags"}, value.Keys(obj))
		count, _ := obj.Get("count")
		assert.Equal(t, json.Number("3"), count)
	})

	t.Run("reports line of yaml failure", func(t *testing.T) {
		t.Parallel()

		_, serr := value.ParseTolerant("a: 1\nb: [1, 2\nc: 3\n", config.LanguageYAML)
		require.NotNil(t, serr)
		assert.Positive(t, serr.Line)
	})
}

func TestFormat_JSON(t *testing.T) {
	t.Parallel()

	v, err := value.Parse(`{"b":1,"a":{"x":"<tag>","empty":{},"list":[]},"arr":[true,null]}`)
	require.NoError(t, err)

	got, err := value.Format(v, config.LanguageJSON)
	require.NoError(t, err)

	want := `{
  "b": 1,
  "a": {
    "x": "<tag>",
    "empty": {},
    "list": []
  },
  "arr": [
    true,
    null
  ]
}`
	assert.Equal(t, want, got)
}

func TestFormat_YAML(t *testing.T) {
	t.Parallel()

	v, err := value.Parse(`{"name":"demo","flag":"true","nested":{"z":1,"a":[1,2]}}`)
	require.NoError(t, err)

	got, err := value.Format(v, config.LanguageYAML)
	require.NoError(t, err)

	back, err := value.ParseYAML(got)
	require.NoError(t, err)
	assert.True(t, value.Equal(v, back), "yaml round trip changed value:\n%s", got)
	assert.Equal(t, []string{"name", "flag", "nested"}, value.Keys(back.(*value.Object)))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a, err := value.Parse(`{"a": 1, "b": [1.0, "x"]}`)
	require.NoError(t, err)
	b, err := value.Parse(`{"b": [1, "x"], "a": 1e0}`)
	require.NoError(t, err)
	c, err := value.Parse(`{"a": 1, "b": [1, "y"]}`)
	require.NoError(t, err)

	assert.True(t, value.Equal(a, b))
	assert.False(t, value.Equal(a, c))
	assert.False(t, value.Equal(a, nil))
	assert.True(t, value.Equal(nil, nil))
	assert.False(t, value.Equal([]any{1}, []any{1, 2}))
}

func TestToPlain(t *testing.T) {
	t.Parallel()

	v, err := value.Parse(`{"a": {"b": [1]}}`)
	require.NoError(t, err)

	plain := value.ToPlain(v)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": []any{json.Number("1")}}}, plain)
}

func TestStripInvisible(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, value.StripInvisible("\u200b{\"a\"\ufeff:1\u2060}\u200d"))
	assert.Equal(t, "plain", value.StripInvisible("plain"))
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	line, col := value.LineColumn("ab\ncd\nef", 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, col = value.LineColumn("ab", 99)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, col)
}
