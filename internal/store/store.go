package store

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
)

var (
	ErrPromoNotFound    = errors.New("code promo introuvable")
	ErrOrderNotFound    = errors.New("commande introuvable")
	ErrShippingNotFound = errors.New("adresse de livraison introuvable")
)

// PromoStore donne accès aux codes promo et à leur historique d'usage.
type PromoStore interface {
	// GetByCode fait une correspondance exacte, sensible à la casse.
	GetByCode(ctx context.Context, code string) (models.PromoCode, error)
	GetByID(ctx context.Context, id gocql.UUID) (models.PromoCode, error)
	// IsUsed indique si une ligne promo_usage existe pour (user, code).
	IsUsed(ctx context.Context, userID string, promoCodeID gocql.UUID) (bool, error)
	// MarkUsed insère la ligne d'usage de façon conditionnelle (IF NOT
	// EXISTS). Retourne false si une ligne existait déjà : en cas de
	// course, un seul appelant obtient true.
	MarkUsed(ctx context.Context, usage models.PromoUsage) (bool, error)
	// DeleteUsage libère une ligne d'usage réservée par MarkUsed quand la
	// finalisation de la commande n'a pas abouti : le code redevient
	// utilisable.
	DeleteUsage(ctx context.Context, userID string, promoCodeID gocql.UUID) error
}

// OrderStore gère les commandes et leurs lignes.
type OrderStore interface {
	// Create insère la commande et toutes ses lignes dans un seul batch :
	// soit tout est écrit, soit rien ne l'est.
	Create(ctx context.Context, order models.Order, items []models.OrderItem) error
	Get(ctx context.Context, orderID gocql.UUID) (models.Order, error)
	Items(ctx context.Context, orderID gocql.UUID) ([]models.OrderItem, error)
	// SetStatusIfPending ne transitionne que depuis pending (garde LWT).
	// Retourne false si la commande était déjà dans un état terminal.
	SetStatusIfPending(ctx context.Context, orderID gocql.UUID, userID string, createdAt time.Time, status string) (bool, error)
	InsertPayment(ctx context.Context, payment models.Payment) error
	ListByUser(ctx context.Context, userID string, filter OrderFilter) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}

// OrderFilter restreint l'historique d'un utilisateur.
type OrderFilter struct {
	Status    string
	StartDate time.Time // bornes incluses
	EndDate   time.Time
}

// ShippingStore : une seule ligne par commande, l'écriture est un upsert.
type ShippingStore interface {
	Upsert(ctx context.Context, detail models.ShippingDetail) error
	// GetShipping retourne ErrShippingNotFound si aucune adresse n'a encore
	// été saisie pour la commande.
	GetShipping(ctx context.Context, orderID gocql.UUID) (models.ShippingDetail, error)
}

// CartStore donne accès aux lignes brutes du panier d'un utilisateur.
type CartStore interface {
	Lines(ctx context.Context, userID string) ([]models.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

// TotalsStore persiste le brouillon sous-total/remise/total par
// utilisateur pour qu'un rechargement de page ne perde pas la remise.
type TotalsStore interface {
	Save(ctx context.Context, userID string, totals models.CheckoutTotals) error
	Get(ctx context.Context, userID string) (models.CheckoutTotals, error)
	Clear(ctx context.Context, userID string) error
}
