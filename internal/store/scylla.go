package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/pricing"
)

// ScyllaStore implémente les stores du tunnel de commande sur le keyspace
// orders. Les sessions sont récupérées à chaque appel via le manager, qui
// recrée une session invalide de façon transparente.
type ScyllaStore struct{}

func NewScyllaStore() *ScyllaStore {
	return &ScyllaStore{}
}

// =============================================
// PROMO CODES
// =============================================

const promoColumns = `id, code, discount_percentage, minimum_amount, single_use, valid_until, created_by, created_at, updated_at`

func scanPromo(q *gocql.Query) (models.PromoCode, error) {
	var p models.PromoCode
	err := q.Scan(&p.ID, &p.Code, &p.DiscountPercentage, &p.MinimumAmount,
		&p.SingleUse, &p.ValidUntil, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		return models.PromoCode{}, ErrPromoNotFound
	}
	return p, err
}

// GetByCode : correspondance exacte et sensible à la casse, la table
// promo_codes_by_code est clustée sur le code tel quel.
func (s *ScyllaStore) GetByCode(ctx context.Context, code string) (models.PromoCode, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.PromoCode{}, err
	}

	q := session.Query(`SELECT `+promoColumns+` FROM promo_codes_by_code WHERE code = ? LIMIT 1`, code).WithContext(ctx)
	return scanPromo(q)
}

func (s *ScyllaStore) GetByID(ctx context.Context, id gocql.UUID) (models.PromoCode, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.PromoCode{}, err
	}

	q := session.Query(`SELECT `+promoColumns+` FROM promo_codes WHERE id = ?`, id).WithContext(ctx)
	return scanPromo(q)
}

func (s *ScyllaStore) IsUsed(ctx context.Context, userID string, promoCodeID gocql.UUID) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	var usedAt time.Time
	err = session.Query(`SELECT used_at FROM promo_usage WHERE user_id = ? AND promo_code_id = ?`,
		userID, promoCodeID).WithContext(ctx).Scan(&usedAt)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkUsed ferme la course check-then-act du single use : l'insertion est
// conditionnelle (LWT), un seul des appels concurrents est appliqué.
func (s *ScyllaStore) MarkUsed(ctx context.Context, usage models.PromoUsage) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	applied, err := session.Query(`INSERT INTO promo_usage (user_id, promo_code_id, order_id, used_at)
		VALUES (?, ?, ?, ?) IF NOT EXISTS`,
		usage.UserID, usage.PromoCodeID, usage.OrderID, usage.UsedAt).
		WithContext(ctx).ScanCAS()
	if err != nil {
		return false, err
	}
	return applied, nil
}

// DeleteUsage retire la réservation posée par MarkUsed lorsque la commande
// qui la portait n'a finalement pas été complétée.
func (s *ScyllaStore) DeleteUsage(ctx context.Context, userID string, promoCodeID gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`DELETE FROM promo_usage WHERE user_id = ? AND promo_code_id = ?`,
		userID, promoCodeID).WithContext(ctx).Exec()
}

// =============================================
// COMMANDES
// =============================================

// Create écrit la commande, son miroir orders_by_user et toutes ses lignes
// dans un batch loggé : pas de commande sans lignes en cas d'échec partiel.
// Le prix des lignes est celui capturé dans le panier, jamais refait depuis
// le catalogue.
func (s *ScyllaStore) Create(ctx context.Context, order models.Order, items []models.OrderItem) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)

	batch.Query(`INSERT INTO orders (id, user_id, subtotal, discount, final_total, status, promo_code_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, pricing.Round2(order.Subtotal), pricing.Round2(order.Discount),
		pricing.Round2(order.FinalTotal), order.Status, order.PromoCodeID, order.CreatedAt)

	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, subtotal, discount, final_total, status, promo_code_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, pricing.Round2(order.Subtotal), pricing.Round2(order.Discount),
		pricing.Round2(order.FinalTotal), order.Status, order.PromoCodeID)

	for _, item := range items {
		batch.Query(`INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
			VALUES (?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price)
	}

	return session.ExecuteBatch(batch)
}

func (s *ScyllaStore) Get(ctx context.Context, orderID gocql.UUID) (models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Order{}, err
	}

	var o models.Order
	err = session.Query(`SELECT id, user_id, subtotal, discount, final_total, status, promo_code_id, created_at
		FROM orders WHERE id = ?`, orderID).WithContext(ctx).
		Scan(&o.ID, &o.UserID, &o.Subtotal, &o.Discount, &o.FinalTotal, &o.Status, &o.PromoCodeID, &o.CreatedAt)
	if err == gocql.ErrNotFound {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (s *ScyllaStore) Items(ctx context.Context, orderID gocql.UUID) ([]models.OrderItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, product_id, product_name, quantity, price
		FROM order_items WHERE order_id = ?`, orderID).WithContext(ctx).Iter()

	var items []models.OrderItem
	var item models.OrderItem
	for iter.Scan(&item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price) {
		items = append(items, item)
	}
	return items, iter.Close()
}

// SetStatusIfPending : la transition n'est appliquée que depuis pending,
// les états terminaux (completed, failed) sont figés. Le miroir
// orders_by_user n'est mis à jour que si la garde est passée.
func (s *ScyllaStore) SetStatusIfPending(ctx context.Context, orderID gocql.UUID, userID string, createdAt time.Time, status string) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	applied, err := session.Query(`UPDATE orders SET status = ? WHERE id = ? IF status = ?`,
		status, orderID, models.OrderStatusPending).WithContext(ctx).ScanCAS()
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	if err := session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		status, userID, createdAt, orderID).WithContext(ctx).Exec(); err != nil {
		return true, err
	}
	return true, nil
}

func (s *ScyllaStore) InsertPayment(ctx context.Context, payment models.Payment) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO payments (order_id, id, user_id, payment_method, payment_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		payment.OrderID, payment.ID, payment.UserID, payment.Method, payment.Status, payment.CreatedAt).
		WithContext(ctx).Exec()
}

// ListByUser lit la partition orders_by_user (déjà triée par created_at
// décroissant). Le filtre de statut est appliqué côté code.
func (s *ScyllaStore) ListByUser(ctx context.Context, userID string, filter OrderFilter) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, created_at, subtotal, discount, final_total, status, promo_code_id
		FROM orders_by_user WHERE user_id = ? AND created_at >= ? AND created_at <= ?`,
		userID, filter.StartDate, filter.EndDate).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	for iter.Scan(&o.ID, &o.CreatedAt, &o.Subtotal, &o.Discount, &o.FinalTotal, &o.Status, &o.PromoCodeID) {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		o.UserID = userID
		o.PromoCodeID = copyUUIDPtr(o.PromoCodeID)
		orders = append(orders, o)
	}
	return orders, iter.Close()
}

func (s *ScyllaStore) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT id, user_id, subtotal, discount, final_total, status, promo_code_id, created_at
		FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	for iter.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.Discount, &o.FinalTotal, &o.Status, &o.PromoCodeID, &o.CreatedAt) {
		o.PromoCodeID = copyUUIDPtr(o.PromoCodeID)
		orders = append(orders, o)
	}
	return orders, iter.Close()
}

// copyUUIDPtr évite que toutes les lignes partagent le pointeur réutilisé
// par la boucle de scan.
func copyUUIDPtr(p *gocql.UUID) *gocql.UUID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// =============================================
// LIVRAISON
// =============================================

// Upsert : shipping_details est clusté par order_id seul, une re-soumission
// écrase la ligne précédente — jamais deux adresses pour une commande.
func (s *ScyllaStore) Upsert(ctx context.Context, detail models.ShippingDetail) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO shipping_details (order_id, user_id, address, city, postal_code, country, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		detail.OrderID, detail.UserID, detail.Address, detail.City, detail.PostalCode, detail.Country, detail.UpdatedAt).
		WithContext(ctx).Exec()
}

func (s *ScyllaStore) GetShipping(ctx context.Context, orderID gocql.UUID) (models.ShippingDetail, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.ShippingDetail{}, err
	}

	var d models.ShippingDetail
	err = session.Query(`SELECT order_id, user_id, address, city, postal_code, country, updated_at
		FROM shipping_details WHERE order_id = ?`, orderID).WithContext(ctx).
		Scan(&d.OrderID, &d.UserID, &d.Address, &d.City, &d.PostalCode, &d.Country, &d.UpdatedAt)
	if err == gocql.ErrNotFound {
		return models.ShippingDetail{}, ErrShippingNotFound
	}
	return d, err
}

// =============================================
// PANIER
// =============================================

// Lines retourne les lignes brutes du panier avec le prix capturé au
// moment de l'ajout. L'enrichissement produit se fait côté handler.
func (s *ScyllaStore) Lines(ctx context.Context, userID string) ([]models.CartItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, quantity, price_at_add FROM cart_items WHERE user_id = ?`,
		userID).WithContext(ctx).Iter()

	var lines []models.CartItem
	var line models.CartItem
	for iter.Scan(&line.ProductID, &line.Quantity, &line.Price) {
		lines = append(lines, line)
	}
	return lines, iter.Close()
}

// Clear vide le panier après complétion : la bascule panier → commande est
// destructive et à sens unique. Les onglets connectés en WebSocket sont
// prévenus via le canal Redis du user.
func (s *ScyllaStore) Clear(ctx context.Context, userID string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`DELETE FROM cart_items WHERE user_id = ?`, userID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	database.Redis.Publish(ctx, "cart:"+userID, "cleared")
	return nil
}
