package routes

import (
	"net/http"

	"toytopia_back_end/internal/handlers"
	"toytopia_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())
	{
		// Catalogue (lecture publique, session facultative)
		api.GET("/toys", middleware.OptionalAuth(), h.Toys.GetToys)
		api.GET("/toys/:id", middleware.OptionalAuth(), h.Toys.GetToy)
		api.GET("/categories", h.Toys.GetCategories)

		// Recherche avancée
		api.GET("/search", middleware.SearchRateLimit(), h.Search.SearchToys)
		api.GET("/search/filters", h.Search.GetSearchFilters)

		// Avis (lecture publique)
		api.GET("/toys/:id/reviews", h.Reviews.GetToyReviews)

		// Authentification
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RegisterRateLimit(), h.Auth.Register)
			auth.POST("/login", middleware.LoginRateLimit(), h.Auth.Login)
			auth.POST("/forgot-password", middleware.ForgotPasswordRateLimit(), h.Auth.ForgotPassword)
			auth.POST("/reset-password", h.Auth.ResetPassword)
			auth.POST("/refresh", h.Auth.Refresh)

			auth.GET("/oauth/:provider", h.OAuth.BeginAuth)
			auth.GET("/oauth/:provider/callback", h.OAuth.CallbackAuth)

			authed := auth.Group("")
			authed.Use(middleware.AuthRequired())
			{
				authed.POST("/logout", h.Auth.Logout)
				authed.GET("/me", h.Auth.Me)
				authed.PUT("/profile", h.Auth.UpdateProfile)
				authed.POST("/avatar", h.Auth.UploadAvatar)
				authed.GET("/avatar-url", h.Auth.AvatarURL)
				authed.PUT("/password", h.Auth.ChangePassword)
			}
		}

		// Favoris (toujours authentifié)
		favorites := api.Group("/favorites")
		favorites.Use(middleware.AuthRequired())
		{
			favorites.GET("", h.Favorites.GetFavorites)
			favorites.POST("", h.Favorites.AddFavorite)
			favorites.DELETE("/:toyId", h.Favorites.RemoveFavorite)
			favorites.GET("/:toyId/check", h.Favorites.CheckFavorite)
			favorites.GET("/ws", h.Favorites.FavoritesWebSocket)
		}

		// Avis (écriture authentifiée)
		reviews := api.Group("/reviews")
		reviews.Use(middleware.AuthRequired())
		{
			reviews.GET("/mine", h.Reviews.GetMyReviews)
			reviews.PUT("/:id", h.Reviews.UpdateReview)
			reviews.DELETE("/:id", h.Reviews.DeleteReview)
		}

		authedToys := api.Group("/toys")
		authedToys.Use(middleware.AuthRequired())
		{
			authedToys.POST("/:id/reviews", h.Reviews.CreateReview)
		}
	}
}
