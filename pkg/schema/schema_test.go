package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/schema"
	"github.com/yaklabco/codeblock/pkg/value"
)

const personSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "description": "full name"},
    "age": {"type": "integer"},
    "role": {"enum": ["admin", "user"]},
    "active": {"type": "boolean", "default": true},
    "tags": {"type": "array", "items": {"type": "string"}},
    "address": {"properties": {"city": {"type": "string"}}}
  }
}`

func TestLoad(t *testing.T) {
	t.Parallel()

	s, err := schema.Load([]byte(personSchema), config.LanguageJSON)
	require.NoError(t, err)

	assert.Equal(t, "object", s.Type())
	assert.Equal(t, []string{"name", "age"}, s.Required)
	require.Len(t, s.Properties, 6)
	assert.Equal(t, "name", s.Properties[0].Name)
	assert.Equal(t, "address", s.Properties[5].Name)

	name, ok := s.Property("name")
	require.True(t, ok)
	assert.Equal(t, "full name", name.Description)

	address, _ := s.Property("address")
	assert.Equal(t, "object", address.Type(), "properties imply object")

	age, _ := s.Property("age")
	assert.True(t, age.Allows("integer"))
	assert.False(t, age.Allows("string"))
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	s, err := schema.Load([]byte("type: object\nproperties:\n  b: {type: number}\n  a: {type: string}\n"), config.LanguageYAML)
	require.NoError(t, err)
	require.Len(t, s.Properties, 2)
	assert.Equal(t, "b", s.Properties[0].Name)
	b, _ := s.Property("b")
	assert.True(t, b.Allows("integer"), "number admits integers")
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"not an object", `[1, 2]`},
		{"bad type keyword", `{"type": 5}`},
		{"bad required", `{"required": "name"}`},
		{"bad property", `{"properties": {"a": 1}}`},
		{"syntax error", `{"type": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := schema.Load([]byte(tt.input), config.LanguageJSON)
			require.ErrorIs(t, err, schema.ErrInvalidSchema)
		})
	}
}

func TestExample(t *testing.T) {
	t.Parallel()

	s, err := schema.Load([]byte(personSchema), config.LanguageJSON)
	require.NoError(t, err)

	example := s.Example()
	obj, ok := example.(*value.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "age", "role", "active", "tags", "address"}, value.Keys(obj))

	want, err := value.Parse(`{
	  "name": "", "age": 0, "role": "admin", "active": true,
	  "tags": [""], "address": {"city": ""}
	}`)
	require.NoError(t, err)
	assert.True(t, value.Equal(want, example))
}

func TestCompile(t *testing.T) {
	t.Parallel()

	s, err := schema.Load([]byte(personSchema), config.LanguageJSON)
	require.NoError(t, err)

	compiled, err := s.Compile()
	require.NoError(t, err)

	good, err := value.Parse(`{"name": "x", "age": 3}`)
	require.NoError(t, err)
	require.NoError(t, compiled.Validate(value.ToPlain(good)))

	bad, err := value.Parse(`{"name": 1}`)
	require.NoError(t, err)
	require.Error(t, compiled.Validate(value.ToPlain(bad)))
}

func TestTypeOf(t *testing.T) {
	t.Parallel()

	v, err := value.Parse(`[null, true, "s", 1, 1.5, {}, []]`)
	require.NoError(t, err)

	var got []string
	for _, item := range v.([]any) {
		got = append(got, schema.TypeOf(item))
	}
	assert.Equal(t, []string{"null", "boolean", "string", "integer", "number", "object", "array"}, got)
}
