package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// GetAllUsers liste les utilisateurs avec leur rôle canonique.
func GetAllUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, role_id FROM users`).Iter()

	var users []models.User
	var (
		userID gocql.UUID
		email  string
		name   string
		roleID int
	)
	for iter.Scan(&userID, &email, &name, &roleID) {
		roleName, _ := models.RoleName(roleID)
		users = append(users, models.User{
			ID:    userID.String(),
			Email: email,
			Name:  name,
			Role:  roleName,
		})
	}

	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur récupération utilisateurs:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// UpdateUserRole change le rôle d'un utilisateur. Seuls les noms de
// l'énumération canonique sont acceptés.
func UpdateUserRole(c *gin.Context) {
	if !utils.IsValidUUID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	roleID, ok := models.RoleID(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	uid, _ := uuid.Parse(c.Param("id"))
	if err := session.Query(`UPDATE users SET role_id = ? WHERE user_id = ?`,
		roleID, gocql.UUID(uid)).Exec(); err != nil {
		log.Println("❌ Erreur mise à jour rôle:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	cache.InvalidateUserCache(c.Param("id"))

	log.Printf("✅ Rôle de %s changé en %s", c.Param("id"), req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour avec succès"})
}

// DeleteUser supprime un utilisateur.
func DeleteUser(c *gin.Context) {
	if !utils.IsValidUUID(c.Param("id")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	uid, _ := uuid.Parse(c.Param("id"))
	if err := session.Query(`DELETE FROM users WHERE user_id = ?`, gocql.UUID(uid)).Exec(); err != nil {
		log.Println("❌ Erreur suppression utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	cache.InvalidateUserCache(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé avec succès"})
}
