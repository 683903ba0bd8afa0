package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"velora_back_end/internal/cart"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket gère la synchronisation temps réel du panier
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(401, gin.H{"error": "Non authentifié"})
		return
	}

	// Upgrade vers WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner au canal Redis pour ce user
	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	// Boucle d'écoute
	for {
		select {
		case msg := <-ch:
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			items, err := currentCart(userID)
			if err != nil {
				log.Printf("❌ Erreur lecture panier WebSocket: %v", err)
				continue
			}

			response := map[string]interface{}{
				"type":  "cart_updated",
				"items": items,
				"total": cart.Subtotal(items),
				"count": len(items),
			}

			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func currentCart(userID string) ([]models.CartItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, quantity, price_at_add FROM cart_items WHERE user_id = ?`,
		userID).Iter()

	var lines []models.CartItem
	var line models.CartItem
	for iter.Scan(&line.ProductID, &line.Quantity, &line.Price) {
		lines = append(lines, line)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	items := cart.Merge(lines)
	enrichCartItems(items)
	return items, nil
}
