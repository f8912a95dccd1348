package handlers

import (
	"toytopia_back_end/internal/catalog"
	"toytopia_back_end/internal/session"
	"toytopia_back_end/internal/store"
)

// Handlers regroupe tous les handlers HTTP et leurs dépendances.
// Tout est construit explicitement au démarrage puis passé aux routes.
type Handlers struct {
	Toys      *ToyHandler
	Favorites *FavoriteHandler
	Reviews   *ReviewHandler
	Auth      *AuthHandler
	OAuth     *OAuthHandler
	Search    *SearchHandler
}

func New(cat *catalog.Store, st *store.CollectionStore, provider *session.Provider) *Handlers {
	return &Handlers{
		Toys:      &ToyHandler{Catalog: cat},
		Favorites: &FavoriteHandler{Catalog: cat, Store: st},
		Reviews:   &ReviewHandler{Catalog: cat, Store: st},
		Auth:      &AuthHandler{Provider: provider},
		OAuth:     &OAuthHandler{Provider: provider},
		Search:    &SearchHandler{Catalog: cat},
	}
}
