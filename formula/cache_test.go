package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaCache_ParseCachesBySource(t *testing.T) {
	c := NewFormulaCache()
	root1, err := c.Parse("1+2")
	require.NoError(t, err)
	root2, err := c.Parse("1+2")
	require.NoError(t, err)
	assert.Same(t, root1, root2)
	assert.Equal(t, 1, c.Len())
}

func TestFormulaCache_ParseErrorIsNotCached(t *testing.T) {
	c := NewFormulaCache()
	_, err := c.Parse("1+")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestFormulaCache_ExportImportRoundTrip(t *testing.T) {
	c := NewFormulaCache()
	_, err := c.Parse("SUM(A1:A3)+1")
	require.NoError(t, err)

	blob, err := c.Export()
	require.NoError(t, err)

	c2 := NewFormulaCache()
	require.NoError(t, c2.Import(blob))
	assert.Equal(t, 1, c2.Len())

	reg := NewRegistry()
	store := newTestStore()
	store.Set(1, 1, NewNumber(1))
	store.Set(2, 1, NewNumber(2))
	store.Set(3, 1, NewNumber(3))

	root, err := c2.Parse("SUM(A1:A3)+1")
	require.NoError(t, err)
	assert.Equal(t, 7.0, Evaluate(root, store, reg).Num())
}
