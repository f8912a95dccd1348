package handlers

import (
	"errors"
	"log"
	"net/http"

	"toytopia_back_end/internal/catalog"
	"toytopia_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Catalog *catalog.Store
	Store   *store.CollectionStore
}

// GetToyReviews récupère les avis d'un jouet avec la note moyenne
func (h *ReviewHandler) GetToyReviews(c *gin.Context) {
	toyID := c.Param("id")

	if _, err := h.Catalog.Get(toyID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Jouet introuvable"})
		return
	}

	reviews := h.Store.ToyReviews(c.Request.Context(), toyID)

	var totalRating int
	for _, r := range reviews {
		totalRating += r.Rating
	}
	var averageRating float64
	if len(reviews) > 0 {
		averageRating = float64(totalRating) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"total_reviews":  len(reviews),
		"average_rating": averageRating,
	})
}

// GetMyReviews récupère les avis écrits par l'utilisateur (page profil)
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID := c.GetString("user_id")
	reviews := h.Store.LoadReviews(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// CreateReview crée un avis sur un jouet
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")
	userEmail := c.GetString("email")
	toyID := c.Param("id")

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if _, err := h.Catalog.Get(toyID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Jouet introuvable"})
		return
	}

	review, err := h.Store.SubmitReview(c.Request.Context(), store.ReviewInput{
		ToyID:     toyID,
		UserID:    userID,
		UserEmail: userEmail,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		if errors.Is(err, store.ErrRatingOutOfRange) || errors.Is(err, store.ErrCommentTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("❌ Erreur création avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création avis"})
		return
	}

	log.Printf("⭐ Avis créé: %s pour jouet %s (note: %d/5)", review.ID, toyID, review.Rating)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Avis créé avec succès",
		"review":  review,
	})
}

// UpdateReview modifie un avis appartenant à l'utilisateur
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetString("user_id")
	reviewID := c.Param("id")

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ok, err := h.Store.UpdateReview(c.Request.Context(), reviewID, userID, req.Rating, req.Comment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Avis introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avis mis à jour"})
}

// DeleteReview supprime un avis. La propriété est vérifiée par le store :
// l'avis d'un autre utilisateur n'est jamais supprimé.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetString("user_id")
	reviewID := c.Param("id")

	if !h.Store.DeleteReview(c.Request.Context(), reviewID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cet avis ne vous appartient pas"})
		return
	}

	log.Printf("🗑️ Avis %s supprimé par %s", reviewID, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Avis supprimé"})
}
