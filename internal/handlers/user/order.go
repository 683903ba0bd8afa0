package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

var ordersStore = store.NewScyllaStore()

// parseDateParam accepte une date seule ou un timestamp RFC3339.
func parseDateParam(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ✅ GET /api/orders — commandes de l'utilisateur connecté, filtrables par
// statut et par période (30 derniers jours par défaut).
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	filter := store.OrderFilter{
		Status:    c.Query("status"),
		StartDate: time.Now().AddDate(0, 0, -30),
		EndDate:   time.Now(),
	}

	if s := c.Query("start_date"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date de début invalide"})
			return
		}
		filter.StartDate = t
	}
	if s := c.Query("end_date"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date de fin invalide"})
			return
		}
		filter.EndDate = t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := ordersStore.ListByUser(ctx, userID, filter)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}

	log.Printf("✅ %d commandes trouvées pour user %s", len(orders), userID)

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

// ✅ GET /api/orders/:id — une commande avec ses lignes. L'appartenance est
// vérifiée : la commande d'un autre utilisateur répond 404, pas 403.
func GetOrderByID(c *gin.Context) {
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

	items, err := ordersStore.Items(ctx, orderID)
	if err != nil {
		log.Println("❌ Erreur lecture lignes de commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	order.Items = items

	c.JSON(http.StatusOK, order)
}
