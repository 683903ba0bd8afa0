package product

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/services"
)

// SearchProducts cherche dans l'index Elasticsearch (nom, description, tags).
//
// 🔎 GET /api/products/search?q=...
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre de recherche requis"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		log.Println("❌ Erreur recherche produits:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
