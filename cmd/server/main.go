package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"toytopia_back_end/internal/catalog"
	"toytopia_back_end/internal/config"
	"toytopia_back_end/internal/database"
	"toytopia_back_end/internal/handlers"
	"toytopia_back_end/internal/routes"
	"toytopia_back_end/internal/search"
	"toytopia_back_end/internal/session"
	"toytopia_back_end/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	cat := catalog.MustLoad()
	search.IndexCatalog(cat.Toys())

	ctx := context.Background()

	collections := store.New(store.NewRedisKV(database.Redis))
	stopSync := collections.StartSync(ctx)
	defer stopSync()

	provider := session.NewProvider()
	watchSessionEvents(provider, collections)

	initOAuthProviders()

	h := handlers.New(cat, collections, provider)

	r := gin.Default()
	r.Use(cors.New(corsConfig()))
	routes.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur ToyTopia lancé sur le port", port)
	r.Run(":" + port)
}

// watchSessionEvents oublie les vues en mémoire d'un utilisateur quand il
// se déconnecte. Les snapshots durables, eux, survivent à la session.
func watchSessionEvents(provider *session.Provider, collections *store.CollectionStore) {
	events, _ := provider.Subscribe()
	go func() {
		for evt := range events {
			if evt.Type == "logout" {
				collections.ClearView(evt.User.ID)
			}
		}
	}()
}

func corsConfig() cors.Config {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{frontend}
	cfg.AllowCredentials = true
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return cfg
}

func initOAuthProviders() {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("❌ SESSION_SECRET manquant dans .env")
	}

	cookieStore := sessions.NewCookieStore([]byte(sessionSecret))
	cookieStore.MaxAge(86400 * 30)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = cookieStore

	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider, ok := req.Context().Value(handlers.ProviderKey).(string); ok && provider != "" {
			return provider, nil
		}
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")

	if googleClientID == "" || googleClientSecret == "" {
		log.Println("⚠️ Aucun provider OAuth configuré")
		return
	}

	goth.UseProviders(google.New(
		googleClientID,
		googleClientSecret,
		baseURL+"/api/auth/oauth/google/callback",
	))
	log.Println("✅ Google OAuth activé")
}
