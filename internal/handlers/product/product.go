package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
)

// GetProduct retourne un produit du catalogue.
func GetProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, description, price, image_urls, tags, created_at, updated_at
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateProduct insère un produit et l'indexe dans Elasticsearch.
// Réservé aux admins.
func CreateProduct(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price" binding:"required"`
		ImageURLs   []string `json:"image_urls"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURLs:   req.ImageURLs,
		Tags:        req.Tags,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	if err := session.Query(`INSERT INTO products (product_id, name, description, price, image_urls, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURLs, p.Tags, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		log.Println("❌ Erreur création produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du produit"})
		return
	}

	go services.IndexProduct(p)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Produit créé avec succès",
		"product": p,
	})
}

// UpdateProduct modifie un produit du catalogue. Les paniers existants
// gardent leur prix capturé à l'ajout.
func UpdateProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, description, price, image_urls, tags, created_at, updated_at
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	now := time.Now()
	p.UpdatedAt = &now

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, updated_at = ?
		WHERE product_id = ?`, p.Name, p.Description, p.Price, p.UpdatedAt, p.ID).Exec(); err != nil {
		log.Println("❌ Erreur mise à jour produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	cache.InvalidateProductCache(p.ID.String())
	go services.IndexProduct(p)

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit mis à jour avec succès",
		"product": p,
	})
}
