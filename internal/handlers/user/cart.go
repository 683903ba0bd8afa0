package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/cart"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// notifyCartChange pousse l'événement sur le canal Redis du user pour la
// synchro WebSocket multi-onglets.
func notifyCartChange(userID, event string) {
	database.Redis.Publish(context.Background(), "cart:"+userID, event)
}

//
// 🛒 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, quantity, price_at_add FROM cart_items WHERE user_id = ?`,
		userID).Iter()

	var lines []models.CartItem
	var line models.CartItem
	for iter.Scan(&line.ProductID, &line.Quantity, &line.Price) {
		lines = append(lines, line)
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération panier"})
		return
	}

	items := cart.Merge(lines)
	enrichCartItems(items)

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"subtotal": cart.Subtotal(items),
	})
}

// enrichCartItems complète nom, description et image depuis les fiches
// produit en cache Redis, sans une requête catalogue par ligne. Le prix,
// lui, reste celui capturé à l'ajout.
func enrichCartItems(items []models.CartItem) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	applyProductCards(items, cache.GetProductCardsFromCache(ids))
}

func applyProductCards(items []models.CartItem, cards map[string]cache.ProductCard) {
	for i := range items {
		card, ok := cards[items[i].ProductID]
		if !ok {
			continue
		}
		items[i].Name = card.Name
		items[i].Description = card.Description
		if len(card.ImageURLs) > 0 {
			items[i].ImageURL = card.ImageURLs[0]
		}
	}
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	// 🧩 Prix capturé depuis le catalogue au moment de l'ajout
	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var price float64
	err = productsSession.Query(`SELECT price FROM products WHERE product_id = ?`,
		gocql.UUID(productID)).Scan(&price)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// 🔁 Si la ligne existe déjà, on additionne les quantités en gardant le
	// prix capturé au premier ajout.
	var existingQty int
	var existingPrice float64
	err = session.Query(`SELECT quantity, price_at_add FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, input.ProductID).Scan(&existingQty, &existingPrice)
	if err == nil {
		price = existingPrice
		input.Quantity += existingQty
	}

	if err := session.Query(`INSERT INTO cart_items (user_id, product_id, quantity, price_at_add, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, input.ProductID, input.Quantity, price, time.Now()).Exec(); err != nil {
		log.Println("❌ Erreur ajout panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
		return
	}

	notifyCartChange(userID, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message":  "Produit ajouté au panier",
		"quantity": input.Quantity,
	})
}

//
// ✏️ PUT /api/cart/:productId
//
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if input.Quantity <= 0 {
		// Quantité nulle = suppression de la ligne
		if err := session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
			userID, productID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
			return
		}
	} else {
		if err := session.Query(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`,
			input.Quantity, userID, productID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
			return
		}
	}

	notifyCartChange(userID, "updated")

	c.JSON(http.StatusOK, gin.H{"message": "Panier mis à jour"})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}

	notifyCartChange(userID, "updated")

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé du panier"})
}

//
// 🧹 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ?`, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	notifyCartChange(userID, "cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}
