package cart

import (
	"velora_back_end/internal/models"
	"velora_back_end/internal/pricing"
)

// Merge fusionne les lignes brutes d'un panier : deux lignes portant le
// même product_id sont combinées en sommant les quantités. Les métadonnées
// (nom, prix, description) de la première ligne rencontrée sont conservées,
// elles sont identiques par construction.
func Merge(rows []models.CartItem) []models.CartItem {
	merged := make([]models.CartItem, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		if i, ok := index[row.ProductID]; ok {
			merged[i].Quantity += row.Quantity
			continue
		}
		index[row.ProductID] = len(merged)
		merged = append(merged, row)
	}

	return merged
}

// Subtotal retourne le sous-total d'un panier déjà fusionné.
func Subtotal(items []models.CartItem) float64 {
	return pricing.Subtotal(items)
}
