package hierarchy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhco-curriculum/lomap/internal/testutil"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

func TestCache_Get(t *testing.T) {
	c := NewCache(testutil.NewTestLogger(t))
	rows := scenarioRows()

	first, err := c.Get(rows, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	second, err := c.Get(scenarioRows(), BuildOptions{})
	require.NoError(t, err)
	assert.Same(t, first, second, "identical content should hit the cache")

	capped, err := c.Get(rows, BuildOptions{MaxLevels: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, capped.Len())
	assert.Equal(t, 2, c.Len())

	c.Invalidate()
	assert.Equal(t, 0, c.Len())

	rebuilt, err := c.Get(rows, BuildOptions{})
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)
	assert.Equal(t, first, rebuilt)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := NewCache(nil)
	rows := []core.TaxonomyRow{{Code: "R"}, {Code: "A", ParentCode: "R"}, {Code: "A", ParentCode: "A"}}

	_, err := c.Get(rows, BuildOptions{})
	assert.ErrorIs(t, err, ErrCycle)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(nil)
	rows := deepRows(2, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := c.Get(rows, BuildOptions{})
			assert.NoError(t, err)
			assert.Equal(t, 8, table.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}

func TestKey(t *testing.T) {
	base := scenarioRows()
	key := Key(base, BuildOptions{})

	assert.Equal(t, key, Key(scenarioRows(), BuildOptions{MaxLevels: DefaultMaxLevels}),
		"default and explicit default depth share a key")

	changedTitle := scenarioRows()
	changedTitle[1].Title = "Other"

	reordered := scenarioRows()
	reordered[1], reordered[2] = reordered[2], reordered[1]

	// field boundaries must not collide: "A"+"B" vs "AB"+""
	split := []core.TaxonomyRow{{Code: "A", ParentCode: "B"}}
	joined := []core.TaxonomyRow{{Code: "AB"}}

	assert.NotEqual(t, key, Key(base, BuildOptions{MaxLevels: 2}))
	assert.NotEqual(t, key, Key(base, BuildOptions{Category: "Condition"}))
	assert.NotEqual(t, key, Key(changedTitle, BuildOptions{}))
	assert.NotEqual(t, key, Key(reordered, BuildOptions{}))
	assert.NotEqual(t, Key(split, BuildOptions{}), Key(joined, BuildOptions{}))
}

func TestIndex(t *testing.T) {
	rows := []core.TaxonomyRow{
		{Code: "C", Category: "Condition"},
		{Code: "D", Category: "Discipline"},
		{Code: "C1", ParentCode: "C", Category: "Condition"},
		{Code: "X"},
	}
	idx := NewIndex(rows)

	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []string{"Condition", "Discipline", ""}, idx.Categories())
	assert.Equal(t, rows, idx.Rows(""))
	assert.Equal(t, []core.TaxonomyRow{rows[0], rows[2]}, idx.Rows("Condition"))
	assert.Empty(t, idx.Rows("Nope"))

	// building from the index matches building with the category filter
	viaIndex, err := Build(idx.Rows("Condition"), BuildOptions{Category: "Condition"})
	require.NoError(t, err)
	viaFilter, err := Build(rows, BuildOptions{Category: "Condition"})
	require.NoError(t, err)
	assert.Equal(t, viaFilter, viaIndex)
}
