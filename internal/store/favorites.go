package store

import (
	"context"
	"time"

	"toytopia_back_end/internal/models"
)

// LoadFavorites retourne les favoris de l'utilisateur, relus depuis le
// snapshot durable. Sans session active (userID vide), retourne une liste
// vide sans toucher au magasin.
func (s *CollectionStore) LoadFavorites(ctx context.Context, userID string) []models.FavoriteEntry {
	if userID == "" {
		return []models.FavoriteEntry{}
	}

	view := filterFavorites(s.readFavorites(ctx), userID)

	s.mu.Lock()
	s.favorites[userID] = view
	s.mu.Unlock()

	return view
}

// AddToFavorites ajoute un jouet aux favoris de l'utilisateur.
// Retourne false sans écrire si le couple (toyId, userId) existe déjà :
// au plus une entrée par couple.
func (s *CollectionStore) AddToFavorites(ctx context.Context, userID, toyID string) bool {
	if userID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readFavorites(ctx)
	for _, e := range all {
		if e.ToyID == toyID && e.UserID == userID {
			return false
		}
	}

	all = append(all, models.FavoriteEntry{
		ToyID:  toyID,
		UserID: userID,
		Date:   time.Now().UTC(),
	})
	if err := s.writeFavorites(ctx, all); err != nil {
		return false
	}

	s.favorites[userID] = filterFavorites(all, userID)
	return true
}

// RemoveFromFavorites retire un jouet des favoris. Suppression
// idempotente : retourne true dès que l'écriture réussit, même si
// aucune entrée n'existait.
func (s *CollectionStore) RemoveFromFavorites(ctx context.Context, userID, toyID string) bool {
	if userID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readFavorites(ctx)
	kept := all[:0]
	for _, e := range all {
		if e.ToyID == toyID && e.UserID == userID {
			continue
		}
		kept = append(kept, e)
	}

	if err := s.writeFavorites(ctx, kept); err != nil {
		return false
	}

	s.favorites[userID] = filterFavorites(kept, userID)
	return true
}

// IsFavorite teste l'appartenance contre la vue en mémoire courante,
// pas contre une relecture du magasin : après une écriture venue d'un
// autre contexte, l'appelant doit attendre un Resync pour la voir.
func (s *CollectionStore) IsFavorite(ctx context.Context, userID, toyID string) bool {
	if userID == "" {
		return false
	}

	s.mu.Lock()
	view, loaded := s.favorites[userID]
	s.mu.Unlock()

	if !loaded {
		view = s.LoadFavorites(ctx, userID)
	}

	for _, e := range view {
		if e.ToyID == toyID {
			return true
		}
	}
	return false
}

// FavoriteToyIDs retourne les identifiants de jouets favoris de la vue courante
func (s *CollectionStore) FavoriteToyIDs(ctx context.Context, userID string) []string {
	entries := s.LoadFavorites(ctx, userID)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ToyID)
	}
	return ids
}
