package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande. pending est le seul état non terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

type Order struct {
	ID          gocql.UUID      `json:"id"`
	UserID      string          `json:"user_id"`
	Subtotal    float64         `json:"subtotal"`
	Discount    float64         `json:"discount"`
	FinalTotal  float64         `json:"final_total"`
	Status      string          `json:"status"`
	PromoCodeID *gocql.UUID     `json:"promo_code_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"order_items,omitempty"`
	Shipping    *ShippingDetail `json:"shipping,omitempty"`
	UserName    string          `json:"user_name,omitempty"`
	UserEmail   string          `json:"user_email,omitempty"`
}

// OrderItem fige le prix au moment de l'achat : il ne doit jamais être
// recalculé depuis le catalogue.
type OrderItem struct {
	OrderID     gocql.UUID `json:"order_id"`
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name,omitempty"`
	Quantity    int        `json:"quantity"`
	Price       float64    `json:"price"`
}
