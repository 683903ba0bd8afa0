package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
	"velora_back_end/internal/utils"
)

// GetOrderInvoice renvoie une URL signée temporaire vers la facture PDF
// archivée dans MinIO. Seules les commandes complétées ont une facture.
func GetOrderInvoice(c *gin.Context) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	order, err := ordersStore.Get(ctx, orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if order.Status != models.OrderStatusCompleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pas de facture pour cette commande"})
		return
	}

	url, err := services.SignedInvoiceURL(ctx, orderID.String(), 15*time.Minute)
	if err != nil {
		log.Println("❌ Erreur URL signée facture:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}
