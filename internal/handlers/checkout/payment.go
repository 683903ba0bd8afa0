package checkout

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	checkoutsvc "velora_back_end/internal/checkout"
	"velora_back_end/internal/models"
	"velora_back_end/internal/promo"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// RecordPayment finalise une commande : "paid" la complète, tout autre
// statut l'échoue. C'est le moment où un code single use est réellement
// consommé.
//
// 💳 POST /api/checkout/payment
func RecordPayment(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		OrderID string `json:"order_id" binding:"required"`
		Method  string `json:"payment_method"`
		Status  string `json:"payment_status"`
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

	status, err := Svc.RecordPayment(c.Request.Context(), checkoutsvc.PaymentInput{
		OrderID: orderID,
		UserID:  userID,
		Email:   email,
		Method:  input.Method,
		Status:  input.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Méthode ou statut de paiement manquant"})
		case errors.Is(err, store.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		case errors.Is(err, checkoutsvc.ErrOrderAlreadyFinalized):
			c.JSON(http.StatusConflict, gin.H{"error": "Commande déjà finalisée"})
		case errors.Is(err, promo.ErrAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "Ce code promo a déjà été utilisé"})
		default:
			log.Println("❌ Erreur enregistrement paiement:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		}
		return
	}

	log.Printf("💳 Paiement %s pour la commande %s → %s", input.Status, input.OrderID, status)

	if status == models.OrderStatusCompleted {
		c.JSON(http.StatusOK, gin.H{
			"message": "Paiement accepté, commande complétée",
			"status":  status,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Paiement refusé, commande échouée",
		"status":  status,
	})
}
