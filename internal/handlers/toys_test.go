package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"toytopia_back_end/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToyRouter(t *testing.T) (*gin.Engine, *catalog.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Load()
	require.NoError(t, err)

	h := &ToyHandler{Catalog: cat}
	r := gin.New()
	r.GET("/api/toys", h.GetToys)
	r.GET("/api/toys/:id", h.GetToy)
	r.GET("/api/categories", h.GetCategories)
	return r, cat
}

func TestGetToysReturnsWholeCatalog(t *testing.T) {
	r, cat := newToyRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/toys", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Toys  []json.RawMessage `json:"toys"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, cat.Len(), body.Total)
	assert.Len(t, body.Toys, cat.Len())
}

func TestGetToysAppliesQueryAndCategory(t *testing.T) {
	r, cat := newToyRouter(t)
	reference := catalog.Filter(cat.Toys(), "blocks", catalog.AllCategories)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/toys?q=blocks", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(reference), body.Total)
}

func TestGetToyUnknownIDReturns404(t *testing.T) {
	r, _ := newToyRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/toys/nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCategoriesStartsWithSentinel(t *testing.T) {
	r, cat := newToyRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Categories, len(cat.Categories())+1)
	assert.Equal(t, catalog.AllCategories, body.Categories[0])
}
