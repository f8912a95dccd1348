package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// FavoritesWebSocket pousse les favoris à jour vers le client à chaque
// changement du magasin durable, y compris les écritures faites depuis
// un autre onglet ou une autre instance.
func (h *FavoriteHandler) FavoritesWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	ch, stop := h.Store.SubscribeFavorites(ctx)
	defer stop()

	if err := conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation des favoris activée",
	}); err != nil {
		log.Printf("❌ Erreur envoi WebSocket: %v", err)
		return
	}

	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			h.Store.Resync(ctx, userID)
			entries := h.Store.LoadFavorites(ctx, userID)

			response := map[string]interface{}{
				"type":      "favorites_updated",
				"favorites": entries,
				"count":     len(entries),
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ctx.Done():
			return
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
