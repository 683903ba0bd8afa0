package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/models"
)

func TestApplyProductCards(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 60.00, Quantity: 1},
		{ProductID: "p2", Price: 20.00, Quantity: 2},
	}
	cards := map[string]cache.ProductCard{
		"p1": {
			Name:        "Clavier",
			Description: "Clavier mécanique",
			ImageURLs:   []string{"https://cdn.velora.dev/p1.jpg", "https://cdn.velora.dev/p1-side.jpg"},
		},
	}

	applyProductCards(items, cards)

	assert.Equal(t, "Clavier", items[0].Name)
	assert.Equal(t, "Clavier mécanique", items[0].Description)
	assert.Equal(t, "https://cdn.velora.dev/p1.jpg", items[0].ImageURL, "première image de la fiche")

	// Fiche absente du cache et du catalogue : la ligne reste brute.
	assert.Empty(t, items[1].Name)
	assert.Empty(t, items[1].ImageURL)

	// Le prix capturé à l'ajout n'est jamais touché par l'enrichissement.
	assert.Equal(t, 60.00, items[0].Price)
	assert.Equal(t, 20.00, items[1].Price)
}
