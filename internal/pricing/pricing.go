package pricing

import (
	"math"

	"velora_back_end/internal/models"
)

// Round2 arrondit au centime. L'arithmétique interne reste en float64,
// l'arrondi n'est appliqué qu'aux montants affichés ou persistés.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage retourne la part de total correspondant à pct (0–100).
func Percentage(total, pct float64) float64 {
	return total * (pct / 100)
}

// LineTotal calcule le montant d'une ligne de panier.
func LineTotal(item models.CartItem) float64 {
	return item.Price * float64(item.Quantity)
}

// Subtotal calcule le montant total d'un panier
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += LineTotal(item)
	}
	return total
}
