package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despensa/despensa/internal/catalog"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ingredient(t *testing.T, id string, stock int, cost string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewIngredient(id, "Ingredient "+id, stock, 0, catalog.UnitPiece, dec(cost))
	require.NoError(t, err)
	return p
}

var testTime = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

func TestNewRequestValidation(t *testing.T) {
	_, err := NewRequest(" ", 1)
	assert.True(t, catalog.IsValidation(err))
	_, err = NewRequest("PAN", 0)
	assert.True(t, catalog.IsValidation(err))

	r, err := NewRequest("PAN", 3)
	require.NoError(t, err)
	assert.Equal(t, "PAN", r.ProductID())
	assert.Equal(t, 3, r.Qty())
}

func TestLineSubtotal(t *testing.T) {
	p := ingredient(t, "PAN", 10, "350.5")
	l, err := NewLine(p, 3, p.Price())
	require.NoError(t, err)
	assert.True(t, l.Subtotal().Equal(dec("1051.5")), "got %s", l.Subtotal())
}

func TestLineValidation(t *testing.T) {
	p := ingredient(t, "PAN", 10, "1")
	_, err := NewLine(nil, 1, dec("1"))
	assert.True(t, catalog.IsValidation(err))
	_, err = NewLine(p, 0, dec("1"))
	assert.True(t, catalog.IsValidation(err))
	_, err = NewLine(p, 1, dec("-1"))
	assert.True(t, catalog.IsValidation(err))
}

func TestComposeSnapshotsCurrentPrices(t *testing.T) {
	bread := ingredient(t, "PAN", 10, "100")
	cheese := ingredient(t, "QUESO", 10, "250.75")
	byID := map[string]*catalog.Product{"PAN": bread, "QUESO": cheese}
	resolve := func(id string) *catalog.Product { return byID[id] }

	r1, _ := NewRequest("PAN", 2)
	r2, _ := NewRequest("QUESO", 1)

	s, err := Compose("S-1", testTime, []Request{r1, r2}, resolve)
	require.NoError(t, err)

	assert.Equal(t, "S-1", s.ID())
	assert.Equal(t, testTime, s.At())
	require.Len(t, s.Lines(), 2)
	assert.True(t, s.Lines()[0].UnitPrice().Equal(dec("100")))
	assert.True(t, s.Lines()[1].UnitPrice().Equal(dec("250.75")))
	assert.True(t, s.Total().Equal(dec("450.75")), "got %s", s.Total())
}

func TestComposeUnknownProduct(t *testing.T) {
	r, _ := NewRequest("NOPE", 1)
	_, err := Compose("S-1", testTime, []Request{r}, func(string) *catalog.Product { return nil })
	require.Error(t, err)
	assert.True(t, catalog.IsNotFound(err))
}

func TestSaleRejectsEmptyLines(t *testing.T) {
	_, err := Rehydrate("S-1", testTime, nil)
	assert.True(t, catalog.IsValidation(err))

	_, err = Compose("S-1", testTime, nil, func(string) *catalog.Product { return nil })
	assert.True(t, catalog.IsValidation(err))
}

func TestSaleRejectsBlankIDAndZeroTime(t *testing.T) {
	p := ingredient(t, "PAN", 10, "1")
	l, err := NewLine(p, 1, p.Price())
	require.NoError(t, err)

	_, err = Rehydrate("", testTime, []Line{l})
	assert.True(t, catalog.IsValidation(err))
	_, err = Rehydrate("S-1", time.Time{}, []Line{l})
	assert.True(t, catalog.IsValidation(err))
}

func TestLinesReturnsCopy(t *testing.T) {
	p := ingredient(t, "PAN", 10, "1")
	l, err := NewLine(p, 1, p.Price())
	require.NoError(t, err)
	s, err := Rehydrate("S-1", testTime, []Line{l})
	require.NoError(t, err)

	got := s.Lines()
	got[0] = Line{}
	assert.Equal(t, p, s.Lines()[0].Product())
}
