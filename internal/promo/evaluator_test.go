package promo

import (
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/models"
)

func promoFixture() models.PromoCode {
	return models.PromoCode{
		ID:                 gocql.TimeUUID(),
		Code:               "WELCOME10",
		DiscountPercentage: 10,
		ValidUntil:         time.Now().Add(24 * time.Hour),
	}
}

func TestEvaluateComputesDiscount(t *testing.T) {
	code := promoFixture()

	eval, err := Evaluate(code, 100.0, false, time.Now())

	require.NoError(t, err)
	assert.InDelta(t, 10.0, eval.Discount, 0.01)
	assert.InDelta(t, 90.0, eval.NewTotal, 0.01)
	assert.Equal(t, code.ID, eval.PromoCodeID)
}

func TestEvaluateDiscountPlusTotalEqualsCartTotal(t *testing.T) {
	code := promoFixture()

	for _, tc := range []struct {
		pct   float64
		total float64
	}{
		{0, 100}, {10, 99.99}, {33, 49.50}, {100, 12.34}, {7.5, 0.03},
	} {
		code.DiscountPercentage = tc.pct
		eval, err := Evaluate(code, tc.total, false, time.Now())
		require.NoError(t, err)
		assert.InDelta(t, tc.total, eval.Discount+eval.NewTotal, 0.01)
		assert.GreaterOrEqual(t, eval.Discount, 0.0)
		assert.GreaterOrEqual(t, eval.NewTotal, -0.01)
	}
}

func TestEvaluateBelowMinimum(t *testing.T) {
	code := promoFixture()
	minAmount := 50.0
	code.MinimumAmount = &minAmount

	_, err := Evaluate(code, 49.99, false, time.Now())

	var belowMin *BelowMinimumError
	require.ErrorAs(t, err, &belowMin)
	assert.Equal(t, 50.0, belowMin.Required)
	assert.Contains(t, belowMin.Error(), "50.00")
}

func TestEvaluateAtExactMinimum(t *testing.T) {
	code := promoFixture()
	minAmount := 50.0
	code.MinimumAmount = &minAmount

	eval, err := Evaluate(code, 50.00, false, time.Now())

	require.NoError(t, err)
	assert.InDelta(t, 5.0, eval.Discount, 0.01)
}

func TestEvaluateSingleUseAlreadyUsed(t *testing.T) {
	code := promoFixture()
	code.SingleUse = true

	_, err := Evaluate(code, 100, true, time.Now())
	assert.True(t, errors.Is(err, ErrAlreadyUsed))

	// Tant que l'usage n'est pas enregistré, les applications répétées passent.
	eval, err := Evaluate(code, 100, false, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 10.0, eval.Discount, 0.01)
}

func TestEvaluateAlreadyUsedIgnoredForMultiUse(t *testing.T) {
	code := promoFixture()
	code.SingleUse = false

	_, err := Evaluate(code, 100, true, time.Now())
	require.NoError(t, err)
}

func TestEvaluateExpired(t *testing.T) {
	code := promoFixture()
	code.ValidUntil = time.Now().Add(-time.Hour)

	_, err := Evaluate(code, 100, false, time.Now())
	assert.True(t, errors.Is(err, ErrExpired))
}
