package handlers

import (
	"errors"
	"net/http"

	"toytopia_back_end/internal/catalog"

	"github.com/gin-gonic/gin"
)

type ToyHandler struct {
	Catalog *catalog.Store
}

// GetToys liste le catalogue, filtré par recherche texte (?q=) et
// catégorie (?category=). Sans paramètre, tout le catalogue dans l'ordre
// du dataset.
func (h *ToyHandler) GetToys(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("category", catalog.AllCategories)

	toys := catalog.Filter(h.Catalog.Toys(), query, category)

	c.JSON(http.StatusOK, gin.H{
		"toys":  toys,
		"total": len(toys),
	})
}

// GetToy retourne un jouet par identifiant
func (h *ToyHandler) GetToy(c *gin.Context) {
	toy, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrToyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Jouet introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	c.JSON(http.StatusOK, toy)
}

// GetCategories retourne les catégories du sélecteur, sentinelle incluse
func (h *ToyHandler) GetCategories(c *gin.Context) {
	categories := append([]string{catalog.AllCategories}, h.Catalog.Categories()...)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
