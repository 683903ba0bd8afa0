package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// Mocks en mémoire des stores, avec la même sémantique conditionnelle que
// ScyllaDB (insertion IF NOT EXISTS, garde de statut) pour pouvoir tester
// les courses.

type mockPromoStore struct {
	mu     sync.Mutex
	byCode map[string]models.PromoCode
	byID   map[gocql.UUID]models.PromoCode
	usage  map[string]models.PromoUsage // clé user_id|promo_code_id
	err    error
}

func newMockPromoStore(promos ...models.PromoCode) *mockPromoStore {
	m := &mockPromoStore{
		byCode: make(map[string]models.PromoCode),
		byID:   make(map[gocql.UUID]models.PromoCode),
		usage:  make(map[string]models.PromoUsage),
	}
	for _, p := range promos {
		m.byCode[p.Code] = p
		m.byID[p.ID] = p
	}
	return m
}

func usageKey(userID string, promoCodeID gocql.UUID) string {
	return userID + "|" + promoCodeID.String()
}

func (m *mockPromoStore) GetByCode(_ context.Context, code string) (models.PromoCode, error) {
	if m.err != nil {
		return models.PromoCode{}, m.err
	}
	p, ok := m.byCode[code]
	if !ok {
		return models.PromoCode{}, store.ErrPromoNotFound
	}
	return p, nil
}

func (m *mockPromoStore) GetByID(_ context.Context, id gocql.UUID) (models.PromoCode, error) {
	p, ok := m.byID[id]
	if !ok {
		return models.PromoCode{}, store.ErrPromoNotFound
	}
	return p, nil
}

func (m *mockPromoStore) IsUsed(_ context.Context, userID string, promoCodeID gocql.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.usage[usageKey(userID, promoCodeID)]
	return ok, nil
}

func (m *mockPromoStore) MarkUsed(_ context.Context, usage models.PromoUsage) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := usageKey(usage.UserID, usage.PromoCodeID)
	if _, ok := m.usage[key]; ok {
		return false, nil
	}
	m.usage[key] = usage
	return true, nil
}

func (m *mockPromoStore) DeleteUsage(_ context.Context, userID string, promoCodeID gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.usage, usageKey(userID, promoCodeID))
	return nil
}

type mockOrderStore struct {
	mu       sync.Mutex
	orders   map[gocql.UUID]models.Order
	items    map[gocql.UUID][]models.OrderItem
	payments []models.Payment
	err      error

	// loseStatusCAS simule une transition concurrente qui gagne la garde
	// LWT entre la lecture de la commande et notre propre transition.
	loseStatusCAS bool
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		orders: make(map[gocql.UUID]models.Order),
		items:  make(map[gocql.UUID][]models.OrderItem),
	}
}

func (m *mockOrderStore) Create(_ context.Context, order models.Order, items []models.OrderItem) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	m.items[order.ID] = items
	return nil
}

func (m *mockOrderStore) Get(_ context.Context, orderID gocql.UUID) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.Order{}, store.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderStore) Items(_ context.Context, orderID gocql.UUID) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[orderID], nil
}

func (m *mockOrderStore) SetStatusIfPending(_ context.Context, orderID gocql.UUID, _ string, _ time.Time, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loseStatusCAS {
		return false, nil
	}
	o, ok := m.orders[orderID]
	if !ok || o.Status != models.OrderStatusPending {
		return false, nil
	}
	o.Status = status
	m.orders[orderID] = o
	return true, nil
}

func (m *mockOrderStore) InsertPayment(_ context.Context, payment models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *mockOrderStore) ListByUser(_ context.Context, userID string, filter store.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID != userID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderStore) ListAll(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

type mockShippingStore struct {
	mu      sync.Mutex
	details map[gocql.UUID]models.ShippingDetail
	writes  int
}

func newMockShippingStore() *mockShippingStore {
	return &mockShippingStore{details: make(map[gocql.UUID]models.ShippingDetail)}
}

func (m *mockShippingStore) Upsert(_ context.Context, detail models.ShippingDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[detail.OrderID] = detail
	m.writes++
	return nil
}

func (m *mockShippingStore) GetShipping(_ context.Context, orderID gocql.UUID) (models.ShippingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.details[orderID]
	if !ok {
		return models.ShippingDetail{}, store.ErrShippingNotFound
	}
	return d, nil
}

type mockCartStore struct {
	mu     sync.Mutex
	lines  map[string][]models.CartItem
	clears int
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{lines: make(map[string][]models.CartItem)}
}

func (m *mockCartStore) Lines(_ context.Context, userID string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lines[userID], nil
}

func (m *mockCartStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, userID)
	m.clears++
	return nil
}

type mockTotalsStore struct {
	mu     sync.Mutex
	totals map[string]models.CheckoutTotals
	saves  int
}

func newMockTotalsStore() *mockTotalsStore {
	return &mockTotalsStore{totals: make(map[string]models.CheckoutTotals)}
}

func (m *mockTotalsStore) Save(_ context.Context, userID string, totals models.CheckoutTotals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[userID] = totals
	m.saves++
	return nil
}

func (m *mockTotalsStore) Get(_ context.Context, userID string) (models.CheckoutTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals[userID], nil
}

func (m *mockTotalsStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.totals, userID)
	return nil
}

type mockNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (m *mockNotifier) OrderCompleted(order models.Order, _ []models.OrderItem, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
}

// newTestService câble un service complet sur les mocks.
func newTestService(promos *mockPromoStore) (*Service, *mockOrderStore, *mockShippingStore, *mockCartStore, *mockTotalsStore, *mockNotifier) {
	orders := newMockOrderStore()
	shipping := newMockShippingStore()
	carts := newMockCartStore()
	totals := newMockTotalsStore()
	notifier := &mockNotifier{}
	svc := NewService(promos, orders, shipping, carts, totals, notifier)
	return svc, orders, shipping, carts, totals, notifier
}
