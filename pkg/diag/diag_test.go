package diag_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	e := diag.NewError(diag.TypeSchema, 4, `missing required property "name"`).
		WithColumn(3).
		WithToken("name").
		WithSeverity(config.SeverityWarning).
		WithSource("schema").
		Build()

	assert.Equal(t, 4, e.Line)
	assert.Equal(t, 3, e.Column)
	assert.Equal(t, "name", e.Token)
	assert.Equal(t, config.SeverityWarning, e.Severity)
	assert.False(t, e.IsError())
	assert.NotEmpty(t, e.ID)

	again := diag.NewError(diag.TypeSchema, 4, `missing required property "name"`).
		WithColumn(3).
		WithToken("name").
		Build()
	assert.Equal(t, e.ID, again.ID, "ID must not depend on severity or source")

	other := diag.NewError(diag.TypeSchema, 5, `missing required property "name"`).Build()
	assert.NotEqual(t, e.ID, other.ID)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := diag.NewError(diag.TypeBracket, 3, "unclosed array").Build()
	b := diag.NewError(diag.TypeStructural, 1, "unexpected token").Build()
	c := diag.NewError(diag.TypeSchema, 3, "type mismatch").WithColumn(2).Build()

	merged := diag.Merge([]diag.ErrorInfo{a, c}, []diag.ErrorInfo{b, a})
	require.Len(t, merged, 3)
	assert.Equal(t, b.ID, merged[0].ID)
	assert.Equal(t, a.ID, merged[1].ID)
	assert.Equal(t, c.ID, merged[2].ID)

	groups := diag.GroupByLine(merged)
	assert.Len(t, groups[3], 2)
	assert.Len(t, groups[1], 1)

	errs, warns := diag.Count(merged)
	assert.Equal(t, 3, errs)
	assert.Equal(t, 0, warns)
}

func TestStore(t *testing.T) {
	t.Parallel()

	store := diag.NewStore()

	var mu sync.Mutex
	var calls [][]diag.ErrorInfo
	unsubscribe := store.Subscribe(func(errs []diag.ErrorInfo) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, errs)
	})

	e1 := diag.NewError(diag.TypeStructural, 2, "missing comma").Build()
	e2 := diag.NewError(diag.TypeBracket, 5, "unmatched }").Build()

	assert.True(t, store.Set("structural", []diag.ErrorInfo{e1}))
	assert.False(t, store.Set("structural", []diag.ErrorInfo{e1}), "unchanged set must not notify")
	assert.True(t, store.Set("bracket", []diag.ErrorInfo{e2, e1}))
	assert.Len(t, store.All(), 2)

	unsubscribe()
	unsubscribe()

	store.Clear()
	assert.Empty(t, store.All())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 1)
	assert.Len(t, calls[1], 2)
}
