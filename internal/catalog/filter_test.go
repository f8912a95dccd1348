package catalog

import (
	"testing"

	"toytopia_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleToys() []models.Toy {
	return []models.Toy{
		{ID: "toy-1", Name: "Red Car", Description: "A fast red racing car", Category: "Vehicles"},
		{ID: "toy-2", Name: "Blue Blocks", Description: "Classic wooden building blocks", Category: "Building Blocks"},
		{ID: "toy-3", Name: "Toy Robot", Description: "A walking robot with lights", Category: "Educational"},
		{ID: "toy-4", Name: "Race Track", Description: "Looping track for toy cars", Category: "Vehicles"},
	}
}

func TestFilterWithoutCriteriaReturnsEverythingInOrder(t *testing.T) {
	toys := sampleToys()

	result := Filter(toys, "", AllCategories)

	assert.Len(t, result, len(toys))
	for i := range toys {
		assert.Equal(t, toys[i].ID, result[i].ID)
	}
}

func TestFilterMatchesNameCaseInsensitive(t *testing.T) {
	result := Filter(sampleToys(), "red car", AllCategories)

	assert.Len(t, result, 1)
	assert.Equal(t, "toy-1", result[0].ID)
}

func TestFilterMatchesDescriptionToo(t *testing.T) {
	// "car" apparaît dans le nom de toy-1 et la description de toy-4
	result := Filter(sampleToys(), "car", AllCategories)

	assert.Len(t, result, 2)
	assert.Equal(t, "toy-1", result[0].ID)
	assert.Equal(t, "toy-4", result[1].ID)
}

func TestFilterCategoryIsExactMatch(t *testing.T) {
	result := Filter(sampleToys(), "", "Vehicles")

	assert.Len(t, result, 2)
	for _, toy := range result {
		assert.Equal(t, "Vehicles", toy.Category)
	}
}

func TestFilterCriteriaAreCumulative(t *testing.T) {
	// "Red Car" matche le texte mais pas la catégorie Building Blocks,
	// "Blue Blocks" matche la catégorie mais pas le texte
	result := Filter(sampleToys(), "red", "Building Blocks")

	assert.Empty(t, result)
}

func TestFilterNoMatchReturnsEmptyNotNil(t *testing.T) {
	result := Filter(sampleToys(), "zzz-introuvable", AllCategories)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestFilterEmptyCatalog(t *testing.T) {
	result := Filter(nil, "robot", AllCategories)

	assert.Empty(t, result)
}

func TestFiltersApplyAndReset(t *testing.T) {
	toys := sampleToys()

	f := NewFilters()
	assert.Equal(t, AllCategories, f.Category)
	assert.Len(t, f.Apply(toys), len(toys))

	f.Query = "robot"
	f.Category = "Educational"
	filtered := f.Apply(toys)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "toy-3", filtered[0].ID)

	f.Reset()
	assert.Empty(t, f.Query)
	assert.Equal(t, AllCategories, f.Category)
	assert.Len(t, f.Apply(toys), len(toys))
}
