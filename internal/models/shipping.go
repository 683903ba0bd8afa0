package models

import (
	"time"

	"github.com/gocql/gocql"
)

// ShippingDetail : une seule ligne par commande (clé primaire order_id),
// une re-soumission écrase la précédente au lieu de dupliquer.
type ShippingDetail struct {
	OrderID    gocql.UUID `json:"order_id"`
	UserID     string     `json:"user_id"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	PostalCode string     `json:"postal_code"`
	Country    string     `json:"country"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
