package admin

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/pricing"
)

// GetOrderStats agrège les commandes pour le dashboard admin : chiffre
// d'affaires par jour (commandes complétées seulement), répartition par
// statut, panier moyen.
func GetOrderStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	orders, err := ordersStore.ListAll(ctx)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération statistiques"})
		return
	}

	byStatus := map[string]int{}
	revenueByDay := map[string]float64{}
	totalRevenue := 0.0
	completed := 0

	for _, o := range orders {
		byStatus[o.Status]++
		if o.Status != models.OrderStatusCompleted {
			continue
		}
		completed++
		totalRevenue += o.FinalTotal
		day := o.CreatedAt.Format("2006-01-02")
		revenueByDay[day] += o.FinalTotal
	}

	days := make([]string, 0, len(revenueByDay))
	for day := range revenueByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	revenueSeries := make([]gin.H, 0, len(days))
	for _, day := range days {
		revenueSeries = append(revenueSeries, gin.H{
			"date":    day,
			"revenue": pricing.Round2(revenueByDay[day]),
		})
	}

	averageOrder := 0.0
	if completed > 0 {
		averageOrder = pricing.Round2(totalRevenue / float64(completed))
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":     len(orders),
		"orders_by_status": byStatus,
		"total_revenue":    pricing.Round2(totalRevenue),
		"average_order":    averageOrder,
		"revenue_by_day":   revenueSeries,
	})
}

// GetRoleDistribution compte les utilisateurs par rôle canonique.
func GetRoleDistribution(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT role_id FROM users`).Iter()

	distribution := map[string]int{}
	var roleID int
	for iter.Scan(&roleID) {
		name, ok := models.RoleName(roleID)
		if !ok {
			name = "unknown"
		}
		distribution[name]++
	}

	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur répartition des rôles:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": distribution})
}
