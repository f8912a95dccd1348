package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDataset(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	assert.Greater(t, store.Len(), 0)
	assert.Len(t, store.Toys(), store.Len())
}

func TestGetReturnsToyByID(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	first := store.Toys()[0]
	toy, err := store.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, toy)
}

func TestGetUnknownIDReturnsError(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	_, err = store.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrToyNotFound)
}

func TestCategoriesAreSortedAndDistinct(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	categories := store.Categories()
	require.NotEmpty(t, categories)

	seen := make(map[string]bool)
	for i, c := range categories {
		assert.False(t, seen[c], "catégorie dupliquée: %s", c)
		seen[c] = true
		if i > 0 {
			assert.Less(t, categories[i-1], c)
		}
	}
}

func TestDatasetToysAreValid(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	for _, toy := range store.Toys() {
		assert.NoError(t, toy.Validate(), "jouet %s", toy.ID)
	}
}
