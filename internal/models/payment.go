package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statut de paiement transmis par le client (paiement simulé, pas de
// passerelle réelle). "paid" complète la commande, tout le reste l'échoue.
const PaymentStatusPaid = "paid"

type Payment struct {
	ID        gocql.UUID `json:"id"`
	OrderID   gocql.UUID `json:"order_id"`
	UserID    string     `json:"user_id"`
	Method    string     `json:"payment_method"`
	Status    string     `json:"payment_status"`
	CreatedAt time.Time  `json:"created_at"`
}
