package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"

	"toytopia_back_end/internal/catalog"
	"toytopia_back_end/internal/models"
	"toytopia_back_end/internal/search"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	Catalog *catalog.Store
}

// SearchToys recherche avancée avec filtres de prix, tri et pagination.
// Passe par Elasticsearch quand il est disponible, sinon retombe sur le
// filtre en mémoire du catalogue.
func (h *SearchHandler) SearchToys(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("category", catalog.AllCategories)
	minPrice := c.Query("min_price")
	maxPrice := c.Query("max_price")
	sortBy := c.DefaultQuery("sort", "relevance")
	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "20")

	pageNum, _ := strconv.Atoi(page)
	limitNum, _ := strconv.Atoi(limit)

	if pageNum < 1 {
		pageNum = 1
	}
	if limitNum < 1 || limitNum > 100 {
		limitNum = 20
	}

	esCategory := category
	if esCategory == catalog.AllCategories {
		esCategory = ""
	}

	// Sans filtre de prix ni tri local, Elasticsearch pagine lui-même
	if search.Available() && minPrice == "" && maxPrice == "" && sortBy == "relevance" {
		results, total, err := search.SearchToys(query, esCategory, (pageNum-1)*limitNum, limitNum)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"toys": results,
				"pagination": gin.H{
					"page":        pageNum,
					"limit":       limitNum,
					"total":       total,
					"total_pages": (total + limitNum - 1) / limitNum,
				},
				"filters": gin.H{
					"query":     query,
					"category":  category,
					"min_price": minPrice,
					"max_price": maxPrice,
					"sort":      sortBy,
				},
			})
			return
		}
		log.Printf("⚠️ Recherche Elasticsearch en échec, repli sur le filtre mémoire: %v", err)
	}

	// Post-traitement local : récupérer l'ensemble des correspondances
	// puis filtrer, trier et paginer en mémoire
	var toys []models.Toy
	if search.Available() {
		results, _, err := search.SearchToys(query, esCategory, 0, search.MaxWindow)
		if err != nil {
			log.Printf("⚠️ Recherche Elasticsearch en échec, repli sur le filtre mémoire: %v", err)
			toys = catalog.Filter(h.Catalog.Toys(), query, category)
		} else {
			toys = results
		}
	} else {
		toys = catalog.Filter(h.Catalog.Toys(), query, category)
	}

	// Filtrer par prix
	if minPrice != "" || maxPrice != "" {
		var minPriceFloat, maxPriceFloat float64
		if minPrice != "" {
			minPriceFloat, _ = strconv.ParseFloat(minPrice, 64)
		}
		if maxPrice != "" {
			maxPriceFloat, _ = strconv.ParseFloat(maxPrice, 64)
		}

		filtered := make([]models.Toy, 0, len(toys))
		for _, t := range toys {
			if minPrice != "" && t.Price < minPriceFloat {
				continue
			}
			if maxPrice != "" && t.Price > maxPriceFloat {
				continue
			}
			filtered = append(filtered, t)
		}
		toys = filtered
	}

	// Trier
	switch sortBy {
	case "price_asc":
		sort.SliceStable(toys, func(i, j int) bool { return toys[i].Price < toys[j].Price })
	case "price_desc":
		sort.SliceStable(toys, func(i, j int) bool { return toys[i].Price > toys[j].Price })
	case "rating":
		sort.SliceStable(toys, func(i, j int) bool { return toys[i].Rating > toys[j].Rating })
	}

	// Pagination
	total := len(toys)
	start := (pageNum - 1) * limitNum
	end := start + limitNum

	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"toys": toys[start:end],
		"pagination": gin.H{
			"page":        pageNum,
			"limit":       limitNum,
			"total":       total,
			"total_pages": (total + limitNum - 1) / limitNum,
		},
		"filters": gin.H{
			"query":     query,
			"category":  category,
			"min_price": minPrice,
			"max_price": maxPrice,
			"sort":      sortBy,
		},
	})
}

// GetSearchFilters retourne les filtres disponibles pour l'interface
func (h *SearchHandler) GetSearchFilters(c *gin.Context) {
	toys := h.Catalog.Toys()

	var minPrice, maxPrice float64
	for i, t := range toys {
		if i == 0 {
			minPrice = t.Price
			maxPrice = t.Price
			continue
		}
		if t.Price < minPrice {
			minPrice = t.Price
		}
		if t.Price > maxPrice {
			maxPrice = t.Price
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": append([]string{catalog.AllCategories}, h.Catalog.Categories()...),
		"price_range": gin.H{
			"min": minPrice,
			"max": maxPrice,
		},
		"sort_options": []gin.H{
			{"value": "relevance", "label": "Pertinence"},
			{"value": "price_asc", "label": "Prix croissant"},
			{"value": "price_desc", "label": "Prix décroissant"},
			{"value": "rating", "label": "Meilleures notes"},
		},
	})
}
