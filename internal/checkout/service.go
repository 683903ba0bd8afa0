package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/cart"
	"velora_back_end/internal/models"
	"velora_back_end/internal/promo"
	"velora_back_end/internal/store"
)

var (
	// ErrMissingFields : champs requis absents ou panier vide.
	ErrMissingFields = errors.New("champs requis manquants")
	// ErrOrderAlreadyFinalized : la commande est dans un état terminal,
	// aucune transition supplémentaire n'est possible.
	ErrOrderAlreadyFinalized = errors.New("commande déjà finalisée")
)

// Notifier est prévenu après la complétion d'une commande (facture,
// e-mail de confirmation, sync du panier). Jamais bloquant pour le paiement.
type Notifier interface {
	OrderCompleted(order models.Order, items []models.OrderItem, email string)
}

// Service orchestre le tunnel de commande : application du code promo,
// création de commande, livraison, finalisation du paiement.
type Service struct {
	Promos   store.PromoStore
	Orders   store.OrderStore
	Shipping store.ShippingStore
	Carts    store.CartStore
	Totals   store.TotalsStore
	Notifier Notifier

	now func() time.Time
}

func NewService(promos store.PromoStore, orders store.OrderStore, shipping store.ShippingStore,
	carts store.CartStore, totals store.TotalsStore, notifier Notifier) *Service {
	return &Service{
		Promos:   promos,
		Orders:   orders,
		Shipping: shipping,
		Carts:    carts,
		Totals:   totals,
		Notifier: notifier,
		now:      time.Now,
	}
}

// ApplyPromo valide un code contre le total du panier et l'historique de
// l'utilisateur, calcule la remise et persiste le brouillon de totaux.
// Le code n'est pas consommé : appliquer puis abandonner puis réappliquer
// est permis, la consommation n'a lieu qu'à la complétion d'une commande.
func (s *Service) ApplyPromo(ctx context.Context, userID, code string, cartTotal float64) (promo.Evaluation, error) {
	p, err := s.Promos.GetByCode(ctx, code)
	if err != nil {
		return promo.Evaluation{}, err
	}

	used := false
	if p.SingleUse {
		used, err = s.Promos.IsUsed(ctx, userID, p.ID)
		if err != nil {
			return promo.Evaluation{}, err
		}
	}

	eval, err := promo.Evaluate(p, cartTotal, used, s.now())
	if err != nil {
		return promo.Evaluation{}, err
	}

	promoID := eval.PromoCodeID
	totals := models.CheckoutTotals{
		Subtotal:    cartTotal,
		Discount:    eval.Discount,
		Total:       eval.NewTotal,
		PromoCodeID: &promoID,
	}
	if err := s.Totals.Save(ctx, userID, totals); err != nil {
		return promo.Evaluation{}, err
	}

	return eval, nil
}

// CreateOrder insère la commande en statut pending avec une ligne par
// ligne de panier, au prix capturé dans le panier à cet instant.
func (s *Service) CreateOrder(ctx context.Context, userID string, lines []models.CartItem,
	subtotal, discount, finalTotal float64, promoCodeID *gocql.UUID) (gocql.UUID, error) {

	if userID == "" || len(lines) == 0 {
		return gocql.UUID{}, ErrMissingFields
	}
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			return gocql.UUID{}, ErrMissingFields
		}
	}

	merged := cart.Merge(lines)

	order := models.Order{
		ID:          gocql.TimeUUID(),
		UserID:      userID,
		Subtotal:    subtotal,
		Discount:    discount,
		FinalTotal:  finalTotal,
		Status:      models.OrderStatusPending,
		PromoCodeID: promoCodeID,
		CreatedAt:   s.now(),
	}

	items := make([]models.OrderItem, 0, len(merged))
	for _, line := range merged {
		items = append(items, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.Price, // prix au moment de l'achat
		})
	}

	if err := s.Orders.Create(ctx, order, items); err != nil {
		return gocql.UUID{}, err
	}

	return order.ID, nil
}

// GetOrder recharge une commande avec ses lignes pour reprendre un tunnel
// interrompu. L'appartenance est vérifiée, une commande étrangère est
// indistinguable d'une commande inexistante.
func (s *Service) GetOrder(ctx context.Context, orderID gocql.UUID, userID string) (models.Order, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, store.ErrOrderNotFound
	}

	items, err := s.Orders.Items(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	order.Items = items

	// L'adresse déjà saisie est rattachée pour que le client reprenne le
	// tunnel sans la redemander.
	detail, err := s.Shipping.GetShipping(ctx, orderID)
	switch {
	case err == nil:
		order.Shipping = &detail
	case !errors.Is(err, store.ErrShippingNotFound):
		return models.Order{}, err
	}

	return order, nil
}

// RecordShipping enregistre l'adresse de livraison d'une commande.
// L'écriture est un upsert : au plus une ligne par commande.
func (s *Service) RecordShipping(ctx context.Context, detail models.ShippingDetail) error {
	if detail.UserID == "" || detail.Address == "" || detail.City == "" ||
		detail.PostalCode == "" || detail.Country == "" {
		return ErrMissingFields
	}

	order, err := s.Orders.Get(ctx, detail.OrderID)
	if err != nil {
		return err
	}
	if order.UserID != detail.UserID {
		return store.ErrOrderNotFound
	}

	detail.UpdatedAt = s.now()
	return s.Shipping.Upsert(ctx, detail)
}

// PaymentInput est la tentative de paiement transmise par le client
// (paiement simulé : le statut est fourni, pas de passerelle).
type PaymentInput struct {
	OrderID gocql.UUID
	UserID  string
	Email   string
	Method  string
	Status  string
}

// RecordPayment insère le paiement et fait transitionner la commande :
// paid → completed, tout autre statut → failed. C'est ici — et seulement
// ici — qu'un code single use est consommé, via une insertion
// conditionnelle : deux finalisations concurrentes du même code ne
// peuvent pas réussir toutes les deux.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (string, error) {
	if in.UserID == "" || in.Method == "" || in.Status == "" {
		return "", ErrMissingFields
	}

	order, err := s.Orders.Get(ctx, in.OrderID)
	if err != nil {
		return "", err
	}
	if order.UserID != in.UserID {
		return "", store.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return "", ErrOrderAlreadyFinalized
	}

	newStatus := models.OrderStatusFailed
	if in.Status == models.PaymentStatusPaid {
		newStatus = models.OrderStatusCompleted
	}

	promoReserved := false
	if newStatus == models.OrderStatusCompleted && order.PromoCodeID != nil {
		p, err := s.Promos.GetByID(ctx, *order.PromoCodeID)
		if err != nil {
			return "", err
		}

		applied, err := s.Promos.MarkUsed(ctx, models.PromoUsage{
			UserID:      in.UserID,
			PromoCodeID: *order.PromoCodeID,
			OrderID:     order.ID,
			UsedAt:      s.now(),
		})
		if err != nil {
			return "", err
		}
		if !applied && p.SingleUse {
			return "", promo.ErrAlreadyUsed
		}
		promoReserved = applied
	}

	applied, err := s.Orders.SetStatusIfPending(ctx, order.ID, order.UserID, order.CreatedAt, newStatus)
	if err != nil || !applied {
		// La garde de statut n'est pas passée : une finalisation concurrente
		// a gagné. La ligne d'usage insérée ci-dessus doit être libérée,
		// sinon le code serait consommé sans commande complétée.
		if promoReserved {
			if delErr := s.Promos.DeleteUsage(ctx, in.UserID, *order.PromoCodeID); delErr != nil {
				log.Printf("⚠️ Usage promo non libéré pour %s: %v", in.UserID, delErr)
			}
		}
		if err != nil {
			return "", err
		}
		return "", ErrOrderAlreadyFinalized
	}

	payment := models.Payment{
		ID:        gocql.TimeUUID(),
		OrderID:   order.ID,
		UserID:    in.UserID,
		Method:    in.Method,
		Status:    in.Status,
		CreatedAt: s.now(),
	}
	if err := s.Orders.InsertPayment(ctx, payment); err != nil {
		return "", err
	}

	if newStatus == models.OrderStatusCompleted {
		s.finishCheckout(ctx, order, in.Email, newStatus)
	}

	return newStatus, nil
}

// finishCheckout solde le panier et déclenche les notifications. Les
// erreurs ici n'invalident jamais le paiement déjà enregistré.
func (s *Service) finishCheckout(ctx context.Context, order models.Order, email, status string) {
	if err := s.Carts.Clear(ctx, order.UserID); err != nil {
		log.Printf("⚠️ Panier non vidé pour %s: %v", order.UserID, err)
	}
	if err := s.Totals.Clear(ctx, order.UserID); err != nil {
		log.Printf("⚠️ Brouillon de totaux non purgé pour %s: %v", order.UserID, err)
	}

	if s.Notifier != nil {
		items, err := s.Orders.Items(ctx, order.ID)
		if err != nil {
			log.Printf("⚠️ Lignes de commande introuvables pour notification %s: %v", order.ID, err)
			return
		}
		order.Status = status
		s.Notifier.OrderCompleted(order, items, email)
	}
}
