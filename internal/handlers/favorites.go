package handlers

import (
	"errors"
	"log"
	"net/http"

	"toytopia_back_end/internal/catalog"
	"toytopia_back_end/internal/models"
	"toytopia_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	Catalog *catalog.Store
	Store   *store.CollectionStore
}

// GetFavorites récupère les favoris de l'utilisateur avec les jouets associés
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	userID := c.GetString("user_id")

	entries := h.Store.LoadFavorites(c.Request.Context(), userID)

	// Les favoris pointant vers des jouets retirés du catalogue sont ignorés
	items := make([]models.Toy, 0, len(entries))
	for _, entry := range entries {
		if toy, err := h.Catalog.Get(entry.ToyID); err == nil {
			items = append(items, toy)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":    userID,
		"favorites": entries,
		"items":     items,
		"count":     len(entries),
	})
}

// AddFavorite ajoute un jouet aux favoris
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		ToyID string `json:"toyId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if _, err := h.Catalog.Get(req.ToyID); err != nil {
		if errors.Is(err, catalog.ErrToyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Jouet introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	if !h.Store.AddToFavorites(c.Request.Context(), userID, req.ToyID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce jouet est déjà dans vos favoris"})
		return
	}

	log.Printf("⭐ Jouet %s ajouté aux favoris de %s", req.ToyID, userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Jouet ajouté aux favoris",
		"toyId":   req.ToyID,
	})
}

// RemoveFavorite retire un jouet des favoris (suppression idempotente)
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID := c.GetString("user_id")
	toyID := c.Param("toyId")

	if !h.Store.RemoveFromFavorites(c.Request.Context(), userID, toyID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression des favoris"})
		return
	}

	log.Printf("🗑️ Jouet %s retiré des favoris de %s", toyID, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Jouet retiré des favoris"})
}

// CheckFavorite teste l'appartenance d'un jouet aux favoris de la vue courante
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	userID := c.GetString("user_id")
	toyID := c.Param("toyId")

	c.JSON(http.StatusOK, gin.H{
		"toyId":      toyID,
		"isFavorite": h.Store.IsFavorite(c.Request.Context(), userID, toyID),
	})
}
