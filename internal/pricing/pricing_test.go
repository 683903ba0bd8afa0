package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/models"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.0, Round2(9.999))
	assert.Equal(t, 9.99, Round2(9.994))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.5, Round2(-2.499))
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 10.0, Percentage(100, 10), 0.0001)
	assert.InDelta(t, 0.0, Percentage(100, 0), 0.0001)
	assert.InDelta(t, 100.0, Percentage(100, 100), 0.0001)
	assert.InDelta(t, 12.4975, Percentage(49.99, 25), 0.0001)
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Price: 19.99, Quantity: 2},
		{ProductID: "b", Price: 5.00, Quantity: 3},
	}
	assert.InDelta(t, 54.98, Subtotal(items), 0.0001)
}

func TestSubtotalEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
}
