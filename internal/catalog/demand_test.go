package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemandMergeSumsRepeatedProduct(t *testing.T) {
	p := mustIngredient(t, "PAN", 5, 0, "1")

	d := NewDemand()
	require.NoError(t, d.Add(p, 3))
	require.NoError(t, d.Add(p, 3))

	assert.Equal(t, 6, d.Required("PAN"))

	// Each add alone would pass; the running total must not.
	err := d.Check()
	var is *InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, 6, is.Required)
	assert.Equal(t, 5, is.Available)
	assert.Equal(t, 5, p.Stock())
}

func TestDemandFlattensBundles(t *testing.T) {
	bread := mustIngredient(t, "PAN", 10, 0, "1")
	cheese := mustIngredient(t, "QUESO", 10, 0, "1")
	combo, err := NewBundle("COMBO1", "Combo")
	require.NoError(t, err)
	require.NoError(t, combo.AddComponent(bread, 2))
	require.NoError(t, combo.AddComponent(cheese, 1))

	d := NewDemand()
	require.NoError(t, d.Add(combo, 2))
	require.NoError(t, d.Add(bread, 1))

	assert.Equal(t, 5, d.Required("PAN"))
	assert.Equal(t, 2, d.Required("QUESO"))
	assert.Equal(t, 0, d.Required("COMBO1"), "bundle itself carries no requirement")

	require.NoError(t, d.Check())
	require.NoError(t, d.Apply())
	assert.Equal(t, 5, bread.Stock())
	assert.Equal(t, 8, cheese.Stock())
}

func TestDemandProductsFirstReferenceOrder(t *testing.T) {
	a := mustIngredient(t, "A", 10, 0, "1")
	b := mustIngredient(t, "B", 10, 0, "1")

	d := NewDemand()
	require.NoError(t, d.Add(b, 1))
	require.NoError(t, d.Add(a, 1))
	require.NoError(t, d.Add(b, 1))

	got := d.Products()
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID())
	assert.Equal(t, "A", got[1].ID())
}

func TestDemandAddRejectsBadArgs(t *testing.T) {
	p := mustIngredient(t, "PAN", 5, 0, "1")
	d := NewDemand()
	assert.True(t, IsValidation(d.Add(nil, 1)))
	assert.True(t, IsValidation(d.Add(p, 0)))
}
