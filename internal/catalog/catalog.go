package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"toytopia_back_end/internal/models"
)

//go:embed toys.json
var toysFS embed.FS

var ErrToyNotFound = errors.New("jouet introuvable")

// Store contient le catalogue statique, chargé une seule fois au démarrage.
// La liste est en lecture seule : aucune écriture après Load.
type Store struct {
	toys       []models.Toy
	byID       map[string]models.Toy
	categories []string
}

// Load parse le dataset embarqué et vérifie ses invariants.
// Un dataset malformé est une faute de démarrage, pas une erreur récupérable.
func Load() (*Store, error) {
	raw, err := toysFS.ReadFile("toys.json")
	if err != nil {
		return nil, fmt.Errorf("lecture du dataset: %w", err)
	}

	var dataset struct {
		Toys []models.Toy `json:"toys"`
	}
	if err := json.Unmarshal(raw, &dataset); err != nil {
		return nil, fmt.Errorf("dataset toys.json invalide: %w", err)
	}

	byID := make(map[string]models.Toy, len(dataset.Toys))
	seen := make(map[string]bool)
	for _, toy := range dataset.Toys {
		if err := toy.Validate(); err != nil {
			return nil, fmt.Errorf("jouet %q invalide: %w", toy.ID, err)
		}
		if _, dup := byID[toy.ID]; dup {
			return nil, fmt.Errorf("identifiant de jouet dupliqué: %s", toy.ID)
		}
		byID[toy.ID] = toy
		seen[toy.Category] = true
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return &Store{
		toys:       dataset.Toys,
		byID:       byID,
		categories: categories,
	}, nil
}

// MustLoad charge le catalogue ou arrête le processus
func MustLoad() *Store {
	store, err := Load()
	if err != nil {
		log.Fatalf("❌ Échec chargement catalogue: %v", err)
	}
	log.Printf("✅ Catalogue chargé : %d jouets, %d catégories", len(store.toys), len(store.categories))
	return store
}

// Toys retourne la liste complète, dans l'ordre du dataset
func (s *Store) Toys() []models.Toy {
	return s.toys
}

// Get retourne un jouet par identifiant
func (s *Store) Get(id string) (models.Toy, error) {
	toy, ok := s.byID[id]
	if !ok {
		return models.Toy{}, ErrToyNotFound
	}
	return toy, nil
}

// Categories retourne les catégories distinctes du catalogue, triées
func (s *Store) Categories() []string {
	return s.categories
}

// Len retourne le nombre de jouets du catalogue
func (s *Store) Len() int {
	return len(s.toys)
}
