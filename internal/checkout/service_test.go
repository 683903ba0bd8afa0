package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/models"
	"velora_back_end/internal/promo"
	"velora_back_end/internal/store"
)

const testUser = "3f2b8c1e-5a6d-4e7f-9a0b-1c2d3e4f5a6b"

func welcome10() models.PromoCode {
	return models.PromoCode{
		ID:                 gocql.TimeUUID(),
		Code:               "WELCOME10",
		DiscountPercentage: 10,
		SingleUse:          true,
		ValidUntil:         time.Now().Add(30 * 24 * time.Hour),
	}
}

func testLines() []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", Name: "Clavier", Price: 60.00, Quantity: 1},
		{ProductID: "p2", Name: "Souris", Price: 20.00, Quantity: 2},
	}
}

func TestApplyPromoComputesAndPersistsTotals(t *testing.T) {
	code := welcome10()
	svc, _, _, _, totals, _ := newTestService(newMockPromoStore(code))

	eval, err := svc.ApplyPromo(context.Background(), testUser, "WELCOME10", 100.0)

	require.NoError(t, err)
	assert.InDelta(t, 10.0, eval.Discount, 0.01)
	assert.InDelta(t, 90.0, eval.NewTotal, 0.01)
	assert.Equal(t, code.ID, eval.PromoCodeID)

	saved, err := totals.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, saved.Subtotal, 0.01)
	assert.InDelta(t, 10.0, saved.Discount, 0.01)
	assert.InDelta(t, 90.0, saved.Total, 0.01)
	require.NotNil(t, saved.PromoCodeID)
	assert.Equal(t, code.ID, *saved.PromoCodeID)
}

func TestApplyPromoUnknownCode(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	_, err := svc.ApplyPromo(context.Background(), testUser, "NOPE", 100.0)
	assert.True(t, errors.Is(err, store.ErrPromoNotFound))
}

func TestApplyPromoCodeIsCaseSensitive(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore(welcome10()))

	_, err := svc.ApplyPromo(context.Background(), testUser, "welcome10", 100.0)
	assert.True(t, errors.Is(err, store.ErrPromoNotFound))
}

func TestApplyPromoMinimumBoundary(t *testing.T) {
	code := welcome10()
	minAmount := 50.0
	code.MinimumAmount = &minAmount
	svc, _, _, _, _, _ := newTestService(newMockPromoStore(code))

	_, err := svc.ApplyPromo(context.Background(), testUser, "WELCOME10", 49.99)
	var belowMin *promo.BelowMinimumError
	require.ErrorAs(t, err, &belowMin)
	assert.Equal(t, 50.0, belowMin.Required)

	eval, err := svc.ApplyPromo(context.Background(), testUser, "WELCOME10", 50.00)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, eval.Discount, 0.01)
}

func TestApplyPromoRepeatableBeforeCheckout(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore(welcome10()))

	// Appliquer, abandonner, réappliquer : tant qu'aucune commande n'est
	// complétée, le code single use n'est pas consommé.
	for i := 0; i < 3; i++ {
		_, err := svc.ApplyPromo(context.Background(), testUser, "WELCOME10", 80.0)
		require.NoError(t, err)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, orders, _, _, _, _ := newTestService(newMockPromoStore())

	_, err := svc.CreateOrder(context.Background(), testUser, nil, 0, 0, 0, nil)

	assert.True(t, errors.Is(err, ErrMissingFields))
	all, _ := orders.ListAll(context.Background())
	assert.Empty(t, all, "aucune ligne de commande ne doit exister")
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	lines := []models.CartItem{{ProductID: "p1", Price: 10, Quantity: 0}}
	_, err := svc.CreateOrder(context.Background(), testUser, lines, 10, 0, 10, nil)
	assert.True(t, errors.Is(err, ErrMissingFields))
}

func TestCreateOrderMergesDuplicateLines(t *testing.T) {
	svc, orders, _, _, _, _ := newTestService(newMockPromoStore())

	lines := []models.CartItem{
		{ProductID: "p1", Name: "Clavier", Price: 25.0, Quantity: 1},
		{ProductID: "p1", Name: "Clavier", Price: 25.0, Quantity: 3},
	}

	orderID, err := svc.CreateOrder(context.Background(), testUser, lines, 100, 0, 100, nil)
	require.NoError(t, err)

	items, err := orders.Items(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestOrderLinesKeepPriceAtPurchase(t *testing.T) {
	svc, orders, _, _, _, _ := newTestService(newMockPromoStore())

	lines := testLines()
	orderID, err := svc.CreateOrder(context.Background(), testUser, lines, 100, 0, 100, nil)
	require.NoError(t, err)

	// Le prix catalogue change après la commande…
	lines[0].Price = 999.99

	// …mais la ligne figée garde le prix du panier au moment de l'achat.
	items, err := orders.Items(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, 60.00, items[0].Price)
	assert.Equal(t, 20.00, items[1].Price)
}

func TestGetOrderChecksOwnership(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 0, 100, nil)
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), orderID, "autre-user")
	assert.True(t, errors.Is(err, store.ErrOrderNotFound))

	order, err := svc.GetOrder(context.Background(), orderID, testUser)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
}

func TestRecordShippingUpsertsSingleRow(t *testing.T) {
	svc, _, shipping, _, _, _ := newTestService(newMockPromoStore())

	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 0, 100, nil)
	require.NoError(t, err)

	detail := models.ShippingDetail{
		OrderID:    orderID,
		UserID:     testUser,
		Address:    "12 rue des Lilas",
		City:       "Bruxelles",
		PostalCode: "1000",
		Country:    "BE",
	}

	require.NoError(t, svc.RecordShipping(context.Background(), detail))

	detail.Address = "14 rue des Lilas"
	require.NoError(t, svc.RecordShipping(context.Background(), detail))

	// Deux soumissions, toujours une seule ligne pour la commande.
	assert.Len(t, shipping.details, 1)
	assert.Equal(t, "14 rue des Lilas", shipping.details[orderID].Address)
}

func TestGetOrderIncludesRecordedShipping(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 0, 100, nil)
	require.NoError(t, err)

	// Avant la saisie d'adresse, la reprise n'en expose aucune.
	order, err := svc.GetOrder(context.Background(), orderID, testUser)
	require.NoError(t, err)
	assert.Nil(t, order.Shipping)

	require.NoError(t, svc.RecordShipping(context.Background(), models.ShippingDetail{
		OrderID:    orderID,
		UserID:     testUser,
		Address:    "12 rue des Lilas",
		City:       "Bruxelles",
		PostalCode: "1000",
		Country:    "BE",
	}))

	// Après un refresh, le client retrouve l'adresse déjà saisie.
	order, err = svc.GetOrder(context.Background(), orderID, testUser)
	require.NoError(t, err)
	require.NotNil(t, order.Shipping)
	assert.Equal(t, "12 rue des Lilas", order.Shipping.Address)
	assert.Equal(t, "Bruxelles", order.Shipping.City)
}

func TestRecordShippingMissingFields(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	detail := models.ShippingDetail{OrderID: gocql.TimeUUID(), UserID: testUser, City: "Gand"}
	err := svc.RecordShipping(context.Background(), detail)
	assert.True(t, errors.Is(err, ErrMissingFields))
}

func TestRecordPaymentPaidCompletesOrder(t *testing.T) {
	svc, orders, _, carts, _, notifier := newTestService(newMockPromoStore())
	carts.lines[testUser] = testLines()

	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 0, 100, nil)
	require.NoError(t, err)

	status, err := svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: orderID, UserID: testUser, Email: "client@example.com",
		Method: "card", Status: "paid",
	})

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, status)

	order, _ := orders.Get(context.Background(), orderID)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)

	// Le panier est vidé après complétion, et la notification part.
	assert.Empty(t, carts.lines[testUser])
	assert.Len(t, notifier.orders, 1)
	require.Len(t, orders.payments, 1)
	assert.Equal(t, "paid", orders.payments[0].Status)
}

func TestRecordPaymentNonPaidFailsOrder(t *testing.T) {
	for _, paymentStatus := range []string{"declined", "cancelled", "anything"} {
		svc, orders, _, carts, _, _ := newTestService(newMockPromoStore())
		carts.lines[testUser] = testLines()

		orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 0, 100, nil)
		require.NoError(t, err)

		status, err := svc.RecordPayment(context.Background(), PaymentInput{
			OrderID: orderID, UserID: testUser, Method: "card", Status: paymentStatus,
		})

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusFailed, status)

		order, _ := orders.Get(context.Background(), orderID)
		assert.Equal(t, models.OrderStatusFailed, order.Status)

		// Échec de paiement : le panier reste intact.
		assert.NotEmpty(t, carts.lines[testUser])
	}
}

func TestRecordPaymentUnknownOrder(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: gocql.TimeUUID(), UserID: testUser, Method: "card", Status: "paid",
	})
	assert.True(t, errors.Is(err, store.ErrOrderNotFound))
}

func TestRecordPaymentTerminalOrderIsFrozen(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(newMockPromoStore())

	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 0, 100, nil)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: orderID, UserID: testUser, Method: "card", Status: "declined",
	})
	require.NoError(t, err)

	// failed est terminal : aucune transition supplémentaire, même vers paid.
	_, err = svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: orderID, UserID: testUser, Method: "card", Status: "paid",
	})
	assert.True(t, errors.Is(err, ErrOrderAlreadyFinalized))
}

func TestSingleUsePromoConsumedAtCompletion(t *testing.T) {
	code := welcome10()
	promos := newMockPromoStore(code)
	svc, _, _, _, _, _ := newTestService(promos)

	// Scénario complet : panier 100$, WELCOME10 à 10 %.
	eval, err := svc.ApplyPromo(context.Background(), testUser, "WELCOME10", 100.0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, eval.Discount, 0.01)
	assert.InDelta(t, 90.0, eval.NewTotal, 0.01)

	promoID := eval.PromoCodeID
	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 10, 90, &promoID)
	require.NoError(t, err)

	status, err := svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: orderID, UserID: testUser, Method: "card", Status: "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, status)

	// Le code est maintenant consommé pour cet utilisateur.
	_, err = svc.ApplyPromo(context.Background(), testUser, "WELCOME10", 100.0)
	assert.True(t, errors.Is(err, promo.ErrAlreadyUsed))
}

func TestLostStatusRaceReleasesSingleUsePromo(t *testing.T) {
	code := welcome10()
	promos := newMockPromoStore(code)
	svc, orders, _, _, _, _ := newTestService(promos)

	promoID := code.ID
	orderID, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 10, 90, &promoID)
	require.NoError(t, err)

	// La réservation d'usage passe, mais la garde de statut perd la course
	// face à une finalisation concurrente.
	orders.loseStatusCAS = true

	_, err = svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: orderID, UserID: testUser, Method: "card", Status: "paid",
	})
	assert.True(t, errors.Is(err, ErrOrderAlreadyFinalized))

	// La réservation est libérée : le code n'est pas consommé sans
	// commande complétée.
	used, err := promos.IsUsed(context.Background(), testUser, promoID)
	require.NoError(t, err)
	assert.False(t, used)

	// La commande restée pending se finalise ensuite normalement, avec le
	// même code.
	orders.loseStatusCAS = false
	status, err := svc.RecordPayment(context.Background(), PaymentInput{
		OrderID: orderID, UserID: testUser, Method: "card", Status: "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, status)
}

func TestConcurrentSingleUseConsumption(t *testing.T) {
	code := welcome10()
	promos := newMockPromoStore(code)
	svc, _, _, _, _, _ := newTestService(promos)

	// Deux commandes pending référencent le même code single use
	// (tunnel abandonné puis repris dans un autre onglet).
	promoID := code.ID
	order1, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 10, 90, &promoID)
	require.NoError(t, err)
	order2, err := svc.CreateOrder(context.Background(), testUser, testLines(), 100, 10, 90, &promoID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, orderID := range []gocql.UUID{order1, order2} {
		wg.Add(1)
		go func(i int, id gocql.UUID) {
			defer wg.Done()
			_, results[i] = svc.RecordPayment(context.Background(), PaymentInput{
				OrderID: id, UserID: testUser, Method: "card", Status: "paid",
			})
		}(i, orderID)
	}
	wg.Wait()

	// Une seule finalisation peut consommer le code.
	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, promo.ErrAlreadyUsed):
			rejected++
		default:
			t.Fatalf("erreur inattendue: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
}
