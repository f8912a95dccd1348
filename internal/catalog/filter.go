package catalog

import (
	"strings"

	"toytopia_back_end/internal/models"
)

// AllCategories est la valeur sentinelle du sélecteur de catégorie :
// aucune restriction de catégorie n'est appliquée.
const AllCategories = "All Categories"

// Filter applique les deux filtres de navigation (recherche texte puis
// catégorie, cumulatifs) en préservant l'ordre du catalogue.
// Recherche : sous-chaîne insensible à la casse dans le nom ou la description.
// Catégorie : égalité stricte, sauf sentinelle AllCategories.
func Filter(toys []models.Toy, query, category string) []models.Toy {
	result := make([]models.Toy, 0, len(toys))
	needle := strings.ToLower(query)

	for _, toy := range toys {
		if needle != "" &&
			!strings.Contains(strings.ToLower(toy.Name), needle) &&
			!strings.Contains(strings.ToLower(toy.Description), needle) {
			continue
		}
		if category != "" && category != AllCategories && toy.Category != category {
			continue
		}
		result = append(result, toy)
	}

	return result
}

// Filters porte les deux entrées vivantes du moteur de filtrage
type Filters struct {
	Query    string
	Category string
}

// NewFilters retourne des filtres neutres (tout le catalogue passe)
func NewFilters() Filters {
	return Filters{Category: AllCategories}
}

// Apply calcule la vue filtrée du catalogue pour l'état courant
func (f Filters) Apply(toys []models.Toy) []models.Toy {
	return Filter(toys, f.Query, f.Category)
}

// Reset remet la recherche à vide et la catégorie à la sentinelle
func (f *Filters) Reset() {
	f.Query = ""
	f.Category = AllCategories
}
