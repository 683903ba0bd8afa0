package checkout

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	checkoutsvc "velora_back_end/internal/checkout"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// RecordShipping enregistre l'adresse de livraison d'une commande. Une
// re-soumission (retour arrière dans le tunnel) écrase la précédente.
//
// 📦 POST /api/checkout/shipping
func RecordShipping(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		OrderID    string `json:"order_id" binding:"required"`
		Address    string `json:"address"`
		City       string `json:"city"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if !utils.IsValidUUID(input.OrderID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}
	orderID, _ := gocql.ParseUUID(input.OrderID)

	err := Svc.RecordShipping(c.Request.Context(), models.ShippingDetail{
		OrderID:    orderID,
		UserID:     userID,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison incomplète"})
		case errors.Is(err, store.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		default:
			log.Println("❌ Erreur enregistrement livraison:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse de livraison enregistrée"})
}
