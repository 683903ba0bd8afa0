package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB.
// Utilisé pour enrichir les vues admin des commandes sans marteler le
// keyspace users.
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var (
		email, name string
		roleID      int
	)
	err = session.Query(`SELECT email, name, role_id FROM users WHERE user_id = ?`,
		gocql.UUID(uid)).Scan(&email, &name, &roleID)
	if err != nil {
		return nil, err
	}

	roleName, _ := models.RoleName(roleID)
	user := &models.User{
		ID:    userID,
		Email: email,
		Name:  name,
		Role:  roleName,
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// ProductCard est le sous-ensemble d'une fiche produit affiché dans le
// panier. Le prix n'en fait pas partie : côté panier, il reste celui
// capturé à l'ajout.
type ProductCard struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
}

// GetProductCardsFromCache récupère plusieurs fiches produit depuis Redis,
// puis ScyllaDB pour les manquantes. Un produit disparu du catalogue est
// simplement absent du résultat.
func GetProductCardsFromCache(productIDs []string) map[string]ProductCard {
	ctx := context.Background()
	result := make(map[string]ProductCard)
	missingIDs := []string{}

	// 1. Essayer de récupérer depuis Redis
	for _, productID := range productIDs {
		data, err := database.Redis.Get(ctx, "product:"+productID).Result()
		if err == nil {
			var card ProductCard
			if json.Unmarshal([]byte(data), &card) == nil {
				result[productID] = card
				continue
			}
		}
		missingIDs = append(missingIDs, productID)
	}

	// 2. Récupérer les fiches manquantes depuis ScyllaDB
	if len(missingIDs) > 0 {
		session, err := database.GetProductsSession()
		if err != nil {
			return result
		}
		for _, productID := range missingIDs {
			pid, err := uuid.Parse(productID)
			if err != nil {
				continue
			}
			var card ProductCard
			err = session.Query(`SELECT name, description, image_urls FROM products WHERE product_id = ?`,
				gocql.UUID(pid)).Scan(&card.Name, &card.Description, &card.ImageURLs)
			if err != nil {
				continue
			}
			result[productID] = card

			// 3. Mettre en cache
			if data, err := json.Marshal(card); err == nil {
				database.Redis.Set(ctx, "product:"+productID, data, ProductCacheTTL)
			}
		}
	}

	return result
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID)
}
