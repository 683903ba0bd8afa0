package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// CreatePromo crée un code promo. Réservé aux sales managers et admins.
// Le code est unique : l'insertion dans promo_codes_by_code est
// conditionnelle, deux créations concurrentes du même code ne passent pas.
func CreatePromo(c *gin.Context) {
	var req struct {
		Code               string    `json:"code" binding:"required"`
		DiscountPercentage float64   `json:"discount_percentage" binding:"required"`
		MinimumAmount      *float64  `json:"minimum_amount"`
		SingleUse          bool      `json:"single_use"`
		ValidUntil         time.Time `json:"valid_until"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage doit être entre 1 et 100"})
		return
	}
	if req.MinimumAmount != nil && *req.MinimumAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant minimum invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	promo := models.PromoCode{
		ID:                 gocql.TimeUUID(),
		Code:               req.Code, // tel quel, la correspondance est sensible à la casse
		DiscountPercentage: req.DiscountPercentage,
		MinimumAmount:      req.MinimumAmount,
		SingleUse:          req.SingleUse,
		ValidUntil:         req.ValidUntil,
		CreatedBy:          c.GetString("user_id"),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	applied, err := session.Query(`INSERT INTO promo_codes_by_code
		(code, id, discount_percentage, minimum_amount, single_use, valid_until, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		promo.Code, promo.ID, promo.DiscountPercentage, promo.MinimumAmount, promo.SingleUse,
		promo.ValidUntil, promo.CreatedBy, promo.CreatedAt, promo.UpdatedAt).ScanCAS()
	if err != nil {
		log.Printf("❌ Erreur création code promo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du code promo"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code promo existe déjà"})
		return
	}

	if err := session.Query(`INSERT INTO promo_codes
		(id, code, discount_percentage, minimum_amount, single_use, valid_until, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		promo.ID, promo.Code, promo.DiscountPercentage, promo.MinimumAmount, promo.SingleUse,
		promo.ValidUntil, promo.CreatedBy, promo.CreatedAt, promo.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création code promo: %v", err)
		// Libérer la réservation du code, sinon il resterait bloqué sans
		// ligne promo_codes correspondante.
		if delErr := session.Query(`DELETE FROM promo_codes_by_code WHERE code = ?`, promo.Code).Exec(); delErr != nil {
			log.Printf("⚠️ Réservation du code %s non libérée: %v", promo.Code, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du code promo"})
		return
	}

	log.Printf("✅ Code promo créé: %s (%.0f%%)", promo.Code, promo.DiscountPercentage)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Code promo créé avec succès",
		"promo":   promo,
	})
}

// GetAllPromos liste tous les codes promo.
func GetAllPromos(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT id, code, discount_percentage, minimum_amount, single_use, valid_until,
		created_by, created_at, updated_at FROM promo_codes`).Iter()

	var promos []models.PromoCode
	var p models.PromoCode
	for iter.Scan(&p.ID, &p.Code, &p.DiscountPercentage, &p.MinimumAmount, &p.SingleUse,
		&p.ValidUntil, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt) {
		if p.MinimumAmount != nil {
			v := *p.MinimumAmount
			p.MinimumAmount = &v
		}
		promos = append(promos, p)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur récupération codes promo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promos": promos,
		"total":  len(promos),
	})
}

// UpdatePromo modifie un code promo existant. Le code lui-même n'est pas
// modifiable, les deux tables restent donc alignées.
func UpdatePromo(c *gin.Context) {
	if !utils.IsValidUUID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID code promo invalide"})
		return
	}
	id, _ := gocql.ParseUUID(c.Param("id"))

	var req struct {
		DiscountPercentage *float64   `json:"discount_percentage"`
		MinimumAmount      *float64   `json:"minimum_amount"`
		SingleUse          *bool      `json:"single_use"`
		ValidUntil         *time.Time `json:"valid_until"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if req.DiscountPercentage == nil && req.MinimumAmount == nil && req.SingleUse == nil && req.ValidUntil == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune mise à jour fournie"})
		return
	}
	if req.DiscountPercentage != nil && (*req.DiscountPercentage <= 0 || *req.DiscountPercentage > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage doit être entre 1 et 100"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Relire l'existant, les champs absents gardent leur valeur
	var p models.PromoCode
	err = session.Query(`SELECT id, code, discount_percentage, minimum_amount, single_use, valid_until,
		created_by, created_at, updated_at FROM promo_codes WHERE id = ?`, id).
		Scan(&p.ID, &p.Code, &p.DiscountPercentage, &p.MinimumAmount, &p.SingleUse,
			&p.ValidUntil, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Code promo introuvable"})
		return
	}

	if req.DiscountPercentage != nil {
		p.DiscountPercentage = *req.DiscountPercentage
	}
	if req.MinimumAmount != nil {
		p.MinimumAmount = req.MinimumAmount
	}
	if req.SingleUse != nil {
		p.SingleUse = *req.SingleUse
	}
	if req.ValidUntil != nil {
		p.ValidUntil = *req.ValidUntil
	}
	p.UpdatedAt = time.Now()

	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`UPDATE promo_codes SET discount_percentage = ?, minimum_amount = ?, single_use = ?,
		valid_until = ?, updated_at = ? WHERE id = ?`,
		p.DiscountPercentage, p.MinimumAmount, p.SingleUse, p.ValidUntil, p.UpdatedAt, p.ID)
	batch.Query(`UPDATE promo_codes_by_code SET discount_percentage = ?, minimum_amount = ?, single_use = ?,
		valid_until = ?, updated_at = ? WHERE code = ?`,
		p.DiscountPercentage, p.MinimumAmount, p.SingleUse, p.ValidUntil, p.UpdatedAt, p.Code)

	if err := session.ExecuteBatch(batch); err != nil {
		log.Printf("❌ Erreur mise à jour code promo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Code promo mis à jour avec succès",
		"promo":   p,
	})
}

// DeletePromo supprime un code promo des deux tables.
func DeletePromo(c *gin.Context) {
	if !utils.IsValidUUID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID code promo invalide"})
		return
	}
	id, _ := gocql.ParseUUID(c.Param("id"))

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var code string
	if err := session.Query(`SELECT code FROM promo_codes WHERE id = ?`, id).Scan(&code); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Code promo introuvable"})
		return
	}

	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`DELETE FROM promo_codes WHERE id = ?`, id)
	batch.Query(`DELETE FROM promo_codes_by_code WHERE code = ?`, code)

	if err := session.ExecuteBatch(batch); err != nil {
		log.Printf("❌ Erreur suppression code promo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code promo supprimé avec succès"})
}
