package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

var ordersStore = store.NewScyllaStore()

// GetAllOrders liste toutes les commandes, enrichies avec le nom et
// l'e-mail du client (via le cache utilisateur). Filtrable par statut.
func GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	orders, err := ordersStore.ListAll(ctx)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	status := c.Query("status")
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if u, err := cache.GetUserFromCache(o.UserID); err == nil {
			o.UserName = u.Name
			o.UserEmail = u.Email
		}
		filtered = append(filtered, o)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": filtered,
		"total":  len(filtered),
	})
}
