package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/models"
)

func TestMergeSumsDuplicateLines(t *testing.T) {
	rows := []models.CartItem{
		{ProductID: "p1", Name: "Clavier", Price: 49.90, Quantity: 1},
		{ProductID: "p2", Name: "Souris", Price: 19.90, Quantity: 2},
		{ProductID: "p1", Name: "Clavier", Price: 49.90, Quantity: 3},
		{ProductID: "p1", Name: "Clavier", Price: 49.90, Quantity: 2},
	}

	merged := Merge(rows)

	require.Len(t, merged, 2)
	assert.Equal(t, "p1", merged[0].ProductID)
	assert.Equal(t, 6, merged[0].Quantity)
	assert.Equal(t, "Clavier", merged[0].Name)
	assert.Equal(t, "p2", merged[1].ProductID)
	assert.Equal(t, 2, merged[1].Quantity)
}

func TestMergeKeepsOrderAndMetadata(t *testing.T) {
	rows := []models.CartItem{
		{ProductID: "b", Name: "B", Price: 2, Quantity: 1},
		{ProductID: "a", Name: "A", Price: 1, Quantity: 1},
		{ProductID: "b", Name: "B", Price: 2, Quantity: 1},
	}

	merged := Merge(rows)

	require.Len(t, merged, 2)
	assert.Equal(t, "b", merged[0].ProductID)
	assert.Equal(t, "a", merged[1].ProductID)
	assert.Equal(t, 2.0, merged[0].Price)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 25.00, Quantity: 2},
		{ProductID: "p2", Price: 50.00, Quantity: 1},
	}
	assert.InDelta(t, 100.0, Subtotal(items), 0.0001)
}
