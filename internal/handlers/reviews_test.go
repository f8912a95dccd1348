package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toytopia_back_end/internal/catalog"
	"toytopia_back_end/internal/models"
	"toytopia_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewsRouter(t *testing.T, userID string) (*gin.Engine, *catalog.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Load()
	require.NoError(t, err)

	h := &ReviewHandler{Catalog: cat, Store: store.New(store.NewMemoryKV())}
	r := gin.New()
	r.Use(fakeAuth(userID))
	r.GET("/api/toys/:id/reviews", h.GetToyReviews)
	r.POST("/api/toys/:id/reviews", h.CreateReview)
	r.PUT("/api/reviews/:id", h.UpdateReview)
	r.DELETE("/api/reviews/:id", h.DeleteReview)
	return r, cat
}

func postReview(t *testing.T, r *gin.Engine, toyID string, rating int, comment string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"rating": rating, "comment": comment})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/toys/"+toyID+"/reviews", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndListReviews(t *testing.T) {
	r, cat := newReviewsRouter(t, "user-1")
	toyID := cat.Toys()[0].ID

	require.Equal(t, http.StatusCreated, postReview(t, r, toyID, 5, "Excellent").Code)
	require.Equal(t, http.StatusCreated, postReview(t, r, toyID, 3, "Correct").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/toys/"+toyID+"/reviews", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Reviews       []models.Review `json:"reviews"`
		TotalReviews  int             `json:"total_reviews"`
		AverageRating float64         `json:"average_rating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalReviews)
	assert.InDelta(t, 4.0, body.AverageRating, 0.001)
}

func TestCreateReviewInvalidRatingReturns400(t *testing.T) {
	r, cat := newReviewsRouter(t, "user-1")
	toyID := cat.Toys()[0].ID

	assert.Equal(t, http.StatusBadRequest, postReview(t, r, toyID, 6, "").Code)
	assert.Equal(t, http.StatusBadRequest, postReview(t, r, toyID, 0, "").Code)
	assert.Equal(t, http.StatusBadRequest, postReview(t, r, toyID, 3, strings.Repeat("a", 501)).Code)
}

func TestCreateReviewUnknownToyReturns404(t *testing.T) {
	r, _ := newReviewsRouter(t, "user-1")

	assert.Equal(t, http.StatusNotFound, postReview(t, r, "toy-inexistant", 4, "").Code)
}

func TestDeleteReviewOfAnotherUserReturns403(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Load()
	require.NoError(t, err)
	toyID := cat.Toys()[0].ID

	shared := store.New(store.NewMemoryKV())

	owner := gin.New()
	owner.Use(fakeAuth("user-1"))
	ownerHandler := &ReviewHandler{Catalog: cat, Store: shared}
	owner.POST("/api/toys/:id/reviews", ownerHandler.CreateReview)

	intruder := gin.New()
	intruder.Use(fakeAuth("user-2"))
	intruderHandler := &ReviewHandler{Catalog: cat, Store: shared}
	intruder.DELETE("/api/reviews/:id", intruderHandler.DeleteReview)

	w := postReview(t, owner, toyID, 5, "À moi")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Review models.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	del := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/reviews/"+created.Review.ID, nil)
	intruder.ServeHTTP(del, req)

	assert.Equal(t, http.StatusForbidden, del.Code)
}

func TestUpdateReviewNotOwnedReturns404(t *testing.T) {
	r, cat := newReviewsRouter(t, "user-1")
	toyID := cat.Toys()[0].ID

	w := postReview(t, r, toyID, 4, "Bien")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Review models.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Mise à jour valide par le propriétaire
	upd := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/reviews/"+created.Review.ID,
		strings.NewReader(`{"rating":2,"comment":"Déçu"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(upd, req)
	assert.Equal(t, http.StatusOK, upd.Code)

	// Identifiant inconnu
	miss := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/reviews/review-inconnu",
		strings.NewReader(`{"rating":2,"comment":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(miss, req)
	assert.Equal(t, http.StatusNotFound, miss.Code)
}
