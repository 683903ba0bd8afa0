package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireSalesManager laisse passer les sales managers et les admins.
// Utilisé pour la gestion des codes promo.
func RequireSalesManager(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || (role != models.RoleSalesManager && role != models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux gestionnaires de ventes"})
		c.Abort()
		return
	}
	c.Next()
}
