package models

import (
	"time"

	"github.com/gocql/gocql"
)

type PromoCode struct {
	ID                 gocql.UUID `json:"id"`
	Code               string     `json:"code"`
	DiscountPercentage float64    `json:"discount_percentage"`
	MinimumAmount      *float64   `json:"minimum_amount,omitempty"`
	SingleUse          bool       `json:"single_use"`
	ValidUntil         time.Time  `json:"valid_until"`
	CreatedBy          string     `json:"created_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PromoUsage n'existe qu'après la complétion d'une commande qui référence
// le code. C'est la ligne qui matérialise la consommation "single use".
type PromoUsage struct {
	UserID      string     `json:"user_id"`
	PromoCodeID gocql.UUID `json:"promo_code_id"`
	OrderID     gocql.UUID `json:"order_id"`
	UsedAt      time.Time  `json:"used_at"`
}

// CheckoutTotals est le brouillon par utilisateur persisté au moment de
// l'application d'un code promo, pour survivre à un rechargement de page.
type CheckoutTotals struct {
	Subtotal    float64     `json:"subtotal"`
	Discount    float64     `json:"discount"`
	Total       float64     `json:"total"`
	PromoCodeID *gocql.UUID `json:"promo_code_id,omitempty"`
}
