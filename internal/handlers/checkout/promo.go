package checkout

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/promo"
	"velora_back_end/internal/store"
)

// ApplyPromo valide un code promo contre le total du panier et renvoie les
// totaux recalculés. Le code n'est pas consommé ici : appliquer, abandonner
// puis réappliquer est permis tant qu'aucune commande n'est complétée.
//
// 💡 POST /api/checkout/promo
func ApplyPromo(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		Code      string  `json:"code" binding:"required"`
		CartTotal float64 `json:"cart_total"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	eval, err := Svc.ApplyPromo(c.Request.Context(), userID, input.Code, input.CartTotal)
	if err != nil {
		var belowMin *promo.BelowMinimumError
		switch {
		case errors.Is(err, store.ErrPromoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Code promo invalide"})
		case errors.Is(err, promo.ErrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ce code promo a expiré"})
		case errors.Is(err, promo.ErrAlreadyUsed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Vous avez déjà utilisé ce code promo"})
		case errors.As(err, &belowMin):
			c.JSON(http.StatusBadRequest, gin.H{"error": belowMin.Error()})
		default:
			log.Println("❌ Erreur application code promo:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		}
		return
	}

	log.Printf("✅ Code promo %s appliqué pour %s (remise %.2f$)", input.Code, userID, eval.Discount)

	c.JSON(http.StatusOK, gin.H{
		"message":       "Code promo appliqué",
		"discount":      eval.Discount,
		"new_total":     eval.NewTotal,
		"promo_code_id": eval.PromoCodeID.String(),
	})
}

// GetTotals renvoie le brouillon de totaux persisté pour l'utilisateur,
// pour qu'un rechargement de page ne perde pas la remise appliquée.
//
// GET /api/checkout/totals
func GetTotals(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	totals, err := Svc.Totals.Get(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur lecture totaux:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, totals)
}
