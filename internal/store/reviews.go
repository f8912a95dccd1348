package store

import (
	"context"
	"fmt"
	"time"

	"toytopia_back_end/internal/models"
)

// ReviewInput porte les champs d'un nouvel avis
type ReviewInput struct {
	ToyID     string `json:"toyId"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func validateReview(rating int, comment string) error {
	if rating < models.ReviewMinRating || rating > models.ReviewMaxRating {
		return ErrRatingOutOfRange
	}
	if len([]rune(comment)) > models.ReviewMaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// LoadReviews retourne les avis écrits par l'utilisateur (page profil).
// Sans session active, liste vide sans accès au magasin.
func (s *CollectionStore) LoadReviews(ctx context.Context, userID string) []models.Review {
	if userID == "" {
		return []models.Review{}
	}

	view := filterReviews(s.readReviews(ctx), userID)

	s.mu.Lock()
	s.reviews[userID] = view
	s.mu.Unlock()

	return view
}

// ToyReviews retourne tous les avis d'un jouet, tous utilisateurs confondus
func (s *CollectionStore) ToyReviews(ctx context.Context, toyID string) []models.Review {
	all := s.readReviews(ctx)
	out := make([]models.Review, 0, len(all))
	for _, r := range all {
		if r.ToyID == toyID {
			out = append(out, r)
		}
	}
	return out
}

// SubmitReview valide puis ajoute un avis. La validation précède toute
// écriture : un avis invalide ne touche jamais le snapshot durable.
func (s *CollectionStore) SubmitReview(ctx context.Context, in ReviewInput) (models.Review, error) {
	if err := validateReview(in.Rating, in.Comment); err != nil {
		return models.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	nano := now.UnixNano()
	if nano <= s.lastReviewNano {
		nano = s.lastReviewNano + 1
	}
	s.lastReviewNano = nano

	review := models.Review{
		// Identifiant basé sur l'instant de création, comme côté client
		ID:        fmt.Sprintf("review-%d", nano),
		ToyID:     in.ToyID,
		UserID:    in.UserID,
		UserEmail: in.UserEmail,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
	}

	all := append(s.readReviews(ctx), review)
	if err := s.writeReviews(ctx, all); err != nil {
		return models.Review{}, err
	}

	s.reviews[in.UserID] = filterReviews(all, in.UserID)
	return review, nil
}

// UpdateReview modifie rating, comment et updatedAt d'un avis appartenant
// à l'utilisateur ; id, toyId et createdAt sont préservés. Retourne false
// sans écrire si aucun avis de cet utilisateur ne porte cet identifiant.
func (s *CollectionStore) UpdateReview(ctx context.Context, reviewID, userID string, rating int, comment string) (bool, error) {
	if err := validateReview(rating, comment); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readReviews(ctx)
	found := false
	for i, r := range all {
		if r.ID == reviewID && r.UserID == userID {
			now := time.Now().UTC()
			all[i].Rating = rating
			all[i].Comment = comment
			all[i].UpdatedAt = &now
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := s.writeReviews(ctx, all); err != nil {
		return false, err
	}

	s.reviews[userID] = filterReviews(all, userID)
	return true, nil
}

// DeleteReview supprime un avis. La propriété est vérifiée ici, au niveau
// du store : un avis appartenant à un autre utilisateur n'est jamais
// supprimé (retour false). Supprimer un avis absent reste idempotent.
func (s *CollectionStore) DeleteReview(ctx context.Context, reviewID, userID string) bool {
	if userID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readReviews(ctx)
	kept := all[:0]
	for _, r := range all {
		if r.ID == reviewID {
			if r.UserID != userID {
				return false
			}
			continue
		}
		kept = append(kept, r)
	}

	if err := s.writeReviews(ctx, kept); err != nil {
		return false
	}

	s.reviews[userID] = filterReviews(kept, userID)
	return true
}
