package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despensa/despensa/internal/catalog"
)

var (
	createdAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	sentAt    = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	recvAt    = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
)

func supplier(t *testing.T) *catalog.Supplier {
	t.Helper()
	s, err := catalog.NewSupplier("PRV1", "Molinos SA", "ventas@molinos.example")
	require.NoError(t, err)
	return s
}

func product(t *testing.T, id string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewIngredient(id, "Ingredient "+id, 0, 0, catalog.UnitPiece, decimal.Zero)
	require.NoError(t, err)
	return p
}

func pendingOrder(t *testing.T) *Order {
	t.Helper()
	o, err := New("P-1", supplier(t), createdAt)
	require.NoError(t, err)
	return o
}

func TestNewOrderStartsPendingAndEmpty(t *testing.T) {
	o := pendingOrder(t)
	assert.Equal(t, StatusPending, o.Status())
	assert.Empty(t, o.Items())
	assert.Equal(t, createdAt, o.CreatedAt())
	assert.True(t, o.SentAt().IsZero())
	assert.True(t, o.ReceivedAt().IsZero())
}

func TestNewOrderValidation(t *testing.T) {
	_, err := New(" ", supplier(t), createdAt)
	assert.True(t, catalog.IsValidation(err))
	_, err = New("P-1", nil, createdAt)
	assert.True(t, catalog.IsValidation(err))
	_, err = New("P-1", supplier(t), time.Time{})
	assert.True(t, catalog.IsValidation(err))
}

func TestAddItemMergeSums(t *testing.T) {
	o := pendingOrder(t)
	pan := product(t, "PAN")
	queso := product(t, "QUESO")

	require.NoError(t, o.AddItem(pan, 2))
	require.NoError(t, o.AddItem(queso, 1))
	require.NoError(t, o.AddItem(pan, 3))

	items := o.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "PAN", items[0].Product().ID())
	assert.Equal(t, 5, items[0].Qty())
	assert.Equal(t, "QUESO", items[1].Product().ID())
	assert.Equal(t, 1, items[1].Qty())
	assert.Equal(t, 5, o.Qty("PAN"))
	assert.Equal(t, 0, o.Qty("OTRO"))
}

func TestAddItemValidation(t *testing.T) {
	o := pendingOrder(t)
	assert.True(t, catalog.IsValidation(o.AddItem(nil, 1)))
	assert.True(t, catalog.IsValidation(o.AddItem(product(t, "PAN"), 0)))
}

func TestAddItemRejectedAfterSend(t *testing.T) {
	o := pendingOrder(t)
	require.NoError(t, o.AddItem(product(t, "PAN"), 1))
	require.NoError(t, o.MarkSent(sentAt))

	err := o.AddItem(product(t, "QUESO"), 1)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
}

func TestRemoveItem(t *testing.T) {
	o := pendingOrder(t)
	pan := product(t, "PAN")
	queso := product(t, "QUESO")
	tomate := product(t, "TOMATE")
	require.NoError(t, o.AddItem(pan, 1))
	require.NoError(t, o.AddItem(queso, 2))
	require.NoError(t, o.AddItem(tomate, 3))

	require.NoError(t, o.RemoveItem("QUESO"))
	require.NoError(t, o.RemoveItem("NOPE")) // absent: no-op

	items := o.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "PAN", items[0].Product().ID())
	assert.Equal(t, "TOMATE", items[1].Product().ID())

	// Index stays coherent after removal.
	require.NoError(t, o.AddItem(tomate, 1))
	assert.Equal(t, 4, o.Qty("TOMATE"))
}

func TestMarkSentRequiresItems(t *testing.T) {
	o := pendingOrder(t)
	err := o.MarkSent(sentAt)
	require.ErrorIs(t, err, ErrEmptyOrder)
	assert.Equal(t, StatusPending, o.Status())
}

func TestLifecycleHappyPath(t *testing.T) {
	o := pendingOrder(t)
	require.NoError(t, o.AddItem(product(t, "PAN"), 2))

	require.NoError(t, o.MarkSent(sentAt))
	assert.Equal(t, StatusSent, o.Status())
	assert.Equal(t, sentAt, o.SentAt())

	require.NoError(t, o.MarkReceived(recvAt))
	assert.Equal(t, StatusReceived, o.Status())
	assert.Equal(t, recvAt, o.ReceivedAt())
}

func TestNoStateIsRevisited(t *testing.T) {
	o := pendingOrder(t)
	require.NoError(t, o.AddItem(product(t, "PAN"), 2))

	// Receive before send.
	assert.True(t, IsInvalidState(o.MarkReceived(recvAt)))

	require.NoError(t, o.MarkSent(sentAt))
	assert.True(t, IsInvalidState(o.MarkSent(sentAt)))

	require.NoError(t, o.MarkReceived(recvAt))
	assert.True(t, IsInvalidState(o.MarkReceived(recvAt)), "RECEIVED is terminal")
	assert.True(t, IsInvalidState(o.MarkSent(sentAt)))
}

func TestRehydrateKeepsStoredStateAndMergesItems(t *testing.T) {
	pan := product(t, "PAN")
	i1, err := NewItem(pan, 2)
	require.NoError(t, err)
	i2, err := NewItem(pan, 3)
	require.NoError(t, err)

	o, err := Rehydrate("P-9", supplier(t), createdAt, StatusReceived, []Item{i1, i2})
	require.NoError(t, err)

	assert.Equal(t, StatusReceived, o.Status())
	require.Len(t, o.Items(), 1)
	assert.Equal(t, 5, o.Items()[0].Qty())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusSent, StatusReceived} {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("SHIPPED")
	assert.True(t, catalog.IsValidation(err))
}
