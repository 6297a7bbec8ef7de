package document_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/token"
)

const sample = `{
  "name": "demo",
  "nested": {
    "list": [
      1,
      2
    ]
  },
  "last": true
}`

func TestFromText_RoundTrip(t *testing.T) {
	t.Parallel()

	block := document.FromText(sample, config.LanguageJSON, config.DefaultEditorConfig())

	require.Len(t, block.Lines, 10)
	assert.Equal(t, sample, block.Source())
	assert.Equal(t, strings.ReplaceAll(sample, "  ", "\t"), block.Text())

	assert.Equal(t, 0, block.Lines[0].Indent())
	assert.Equal(t, 1, block.Lines[1].Indent())
	assert.Equal(t, 3, block.Lines[4].Indent())
}

func TestFromText_TabsOnlyLeading(t *testing.T) {
	t.Parallel()

	block := document.FromText(`    "a": "b  c"`, config.LanguageJSON, config.DefaultEditorConfig())
	line := block.Lines[0]

	require.Equal(t, 2, line.Indent())
	for _, child := range line.Content() {
		assert.NotEqual(t, document.KindTab, child.Kind)
	}
	assert.Equal(t, "\t\t\"a\": \"b  c\"", line.Text())
}

func TestNodeIDsUnique(t *testing.T) {
	t.Parallel()

	block := document.FromText(sample, config.LanguageJSON, config.DefaultEditorConfig())

	seen := map[int]bool{}
	for _, line := range block.Lines {
		require.False(t, seen[line.ID], "duplicate line id %d", line.ID)
		seen[line.ID] = true
		for _, child := range line.Children {
			require.False(t, seen[child.ID], "duplicate inline id %d", child.ID)
			seen[child.ID] = true
		}
	}
}

func TestFolding(t *testing.T) {
	t.Parallel()

	block := document.FromText(sample, config.LanguageJSON, config.DefaultEditorConfig())

	assert.True(t, block.Lines[0].Foldable)
	assert.False(t, block.Lines[1].Foldable)
	assert.True(t, block.Lines[2].Foldable)
	assert.True(t, block.Lines[3].Foldable)

	require.True(t, block.Collapse(2))
	hidden := func() []int {
		var out []int
		for i, line := range block.Lines {
			if line.Hidden {
				out = append(out, i)
			}
		}
		return out
	}
	assert.Equal(t, []int{3, 4, 5, 6}, hidden())
	assert.False(t, block.Lines[7].Hidden, "closing brace at equal indent stays visible")

	// Nested collapse inside a collapsed region keeps the outer region hidden.
	require.True(t, block.Collapse(3))
	require.True(t, block.Expand(2))
	assert.Equal(t, []int{4, 5}, hidden())

	assert.False(t, block.Collapse(1), "leaf line is not foldable")
	assert.True(t, block.ToggleFold(3))
	assert.Empty(t, hidden())

	block.Collapse(0)
	block.ExpandAll()
	assert.Empty(t, hidden())
}

func TestFolding_Disabled(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultEditorConfig()
	cfg.Folding = false
	block := document.FromText(sample, config.LanguageJSON, cfg)

	for _, line := range block.Lines {
		assert.False(t, line.Foldable)
	}
	assert.False(t, block.Collapse(0))
}

func TestWrapString(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultEditorConfig()
	cfg.LongTextThreshold = 10
	block := document.New(config.LanguageJSON, cfg)

	b64 := `"` + strings.Repeat("aGVsbG8gd29ybGQ1", 5) + `"`

	tests := []struct {
		name string
		tok  token.Token
		want document.Kind
	}{
		{"short string", token.Token{Content: `"hi"`, Type: token.String}, document.KindHighlight},
		{"long string", token.Token{Content: `"hello wonderful world"`, Type: token.String}, document.KindLongText},
		{"data uri", token.Token{Content: `"data:image/png;base64,iVBORw0KGgo="`, Type: token.String}, document.KindBase64},
		{"bare base64", token.Token{Content: b64, Type: token.String}, document.KindBase64},
		{"long key stays highlight", token.Token{Content: `"a very long property name"`, Type: token.Key}, document.KindHighlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			node := block.WrapString(tt.tok)
			assert.Equal(t, tt.want, node.Kind)
			assert.Equal(t, tt.tok.Content, node.Text, "original text must be kept")
		})
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultEditorConfig()
	cfg.LongTextThreshold = 10
	block := document.New(config.LanguageJSON, cfg)

	long := block.WrapString(token.Token{Content: `"` + strings.Repeat("x", 100) + `"`, Type: token.String})
	preview := long.Preview(20)
	assert.Less(t, len([]rune(preview)), 40)
	assert.Contains(t, preview, "[100 chars]")
	assert.Len(t, long.Text, 102)

	img := block.WrapString(token.Token{Content: `"data:image/png;base64,iVBORw0KGgoAAAA="`, Type: token.String})
	assert.Contains(t, img.Preview(20), "data:image/png;base64,")
}

func TestExportImport(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultEditorConfig()
	cfg.LongTextThreshold = 10
	block := document.FromText(sample+"\n\"data:image/png;base64,iVBORw0KGgo=\"\n\"a long long long string\"", config.LanguageJSON, cfg)
	block.Collapse(2)
	block.Lines[1].Diff = &document.DiffMeta{Type: document.DiffAdded, NewLine: 2}

	data, err := document.Export(block)
	require.NoError(t, err)

	restored, err := document.Import(data, cfg)
	require.NoError(t, err)

	assert.Equal(t, block.Text(), restored.Text())
	assert.True(t, restored.Lines[2].Collapsed)
	assert.True(t, restored.Lines[3].Hidden)
	require.NotNil(t, restored.Lines[1].Diff)
	assert.Equal(t, document.DiffAdded, restored.Lines[1].Diff.Type)

	last := restored.Lines[len(restored.Lines)-1]
	assert.Equal(t, document.KindLongText, last.Children[0].Kind)
	assert.Equal(t, document.KindBase64, restored.Lines[len(restored.Lines)-2].Children[0].Kind)
}

func TestImport_PreservesUnknownFields(t *testing.T) {
	t.Parallel()

	input := `{"type":"code-block","version":1,"language":"yaml","futureFlag":{"x":1},
	"children":[{"type":"code-line","version":1,"lineColor":"red","children":[
	  {"type":"tab","version":1},
	  {"type":"code-highlight","version":1,"text":"a","highlightType":"property","fontWeight":700}
	]}]}`

	block, err := document.Import([]byte(input), config.DefaultEditorConfig())
	require.NoError(t, err)
	assert.Equal(t, config.LanguageYAML, block.Language)
	assert.Equal(t, "\ta", block.Text())

	out, err := document.Export(block)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]any{"x": float64(1)}, decoded["futureFlag"])

	line := decoded["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "red", line["lineColor"])
	span := line["children"].([]any)[1].(map[string]any)
	assert.InDelta(t, 700, span["fontWeight"], 0)
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()

	_, err := document.Import([]byte(`{"type":"code-block","version":99}`), config.DefaultEditorConfig())
	require.ErrorIs(t, err, document.ErrUnsupportedVersion)

	_, err = document.Import([]byte(`{"type":"code-block","version":1,"children":[{"type":"code-line","version":1,"children":[{"type":"tab","version":2}]}]}`), config.DefaultEditorConfig())
	require.ErrorIs(t, err, document.ErrUnsupportedVersion)

	_, err = document.Import([]byte(`{"type":"paragraph","version":1}`), config.DefaultEditorConfig())
	require.ErrorIs(t, err, document.ErrUnknownNodeType)

	_, err = document.Import([]byte(`not json`), config.DefaultEditorConfig())
	require.Error(t, err)
}

func TestLineEditing(t *testing.T) {
	t.Parallel()

	block := document.FromText("a\nb", config.LanguageYAML, config.DefaultEditorConfig())
	inserted := block.BuildLine("  c: 1")
	block.InsertLine(1, inserted)

	assert.Equal(t, 1, block.LineIndex(inserted))
	assert.Equal(t, "a\n  c: 1\nb", block.Source())

	removed := block.RemoveLine(0)
	assert.Equal(t, "a", removed.Text())
	assert.Equal(t, -1, block.LineIndex(removed))
	assert.Nil(t, block.RemoveLine(10))
}

func TestSetLanguage(t *testing.T) {
	t.Parallel()

	block := document.FromText(`  "a": 1`, config.LanguageJSON, config.DefaultEditorConfig())
	id := block.Lines[0].ID

	block.SetLanguage(config.LanguageYAML)
	assert.Equal(t, config.LanguageYAML, block.Language)
	assert.Equal(t, id, block.Lines[0].ID)
	assert.Equal(t, "\t\"a\": 1", block.Text())
}
