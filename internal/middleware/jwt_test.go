package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"toytopia_back_end/internal/models"
	"toytopia_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthRequired())
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func validToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT(models.User{
		ID:    "user-1",
		Email: "user-1@example.com",
		Name:  "Alice",
	})
	require.NoError(t, err)
	return token
}

func TestAuthRequiredAcceptsBearerHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRequiredAcceptsQueryToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAuthRouter()

	// Les WebSocket du navigateur passent le token en query string
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+validToken(t), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsForgedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	token := validToken(t)

	t.Setenv("JWT_SECRET", "autre-secret")
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(OptionalAuth())
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Avec token, l'utilisateur est extrait
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/public?token="+validToken(t), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}
