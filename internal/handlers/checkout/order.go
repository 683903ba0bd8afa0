package checkout

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/cart"
	checkoutsvc "velora_back_end/internal/checkout"
	"velora_back_end/internal/pricing"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// CreateOrder bascule le panier en commande pending. Le panier et les
// totaux sont relus côté serveur : le client ne fournit ni lignes ni
// montants.
//
// 🛒 POST /api/checkout/order
func CreateOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ctx := c.Request.Context()

	lines, err := Svc.Carts.Lines(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	merged := cart.Merge(lines)
	subtotal := cart.Subtotal(merged)

	// Brouillon de totaux laissé par l'application d'un code promo. Il
	// n'est honoré que s'il correspond encore au contenu du panier.
	discount := 0.0
	finalTotal := subtotal
	var promoCodeID *gocql.UUID

	totals, err := Svc.Totals.Get(ctx, userID)
	if err != nil {
		log.Println("⚠️ Brouillon de totaux illisible, remise ignorée:", err)
	} else if totals.PromoCodeID != nil && pricing.Round2(totals.Subtotal) == pricing.Round2(subtotal) {
		discount = totals.Discount
		finalTotal = totals.Total
		promoCodeID = totals.PromoCodeID
	}

	orderID, err := Svc.CreateOrder(ctx, userID, merged, subtotal, discount, finalTotal, promoCodeID)
	if err != nil {
		if errors.Is(err, checkoutsvc.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Données de commande invalides"})
			return
		}
		log.Println("❌ Erreur création commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la commande"})
		return
	}

	log.Printf("🛒 Commande %s créée pour %s (%.2f$ → %.2f$)", orderID, userID, subtotal, finalTotal)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Commande créée",
		"order_id":    orderID.String(),
		"subtotal":    pricing.Round2(subtotal),
		"discount":    pricing.Round2(discount),
		"final_total": pricing.Round2(finalTotal),
		"status":      "pending",
	})
}

// GetOrder recharge une commande avec ses lignes pour reprendre un tunnel
// interrompu après un refresh.
//
// GET /api/checkout/order/:id
func GetOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	if !utils.IsValidUUID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}
	orderID, _ := gocql.ParseUUID(c.Param("id"))

	order, err := Svc.GetOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Println("❌ Erreur lecture commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, order)
}
