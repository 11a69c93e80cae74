// Package orders defines the replenishment order and its lifecycle.
//
// An order progresses PENDING -> SENT -> RECEIVED, never revisiting a
// state. Sending requires at least one item; receiving requires the order
// to be sent. Stock is only ever incremented by the receive operation in
// the procurement service, never by the order itself.
package orders

import (
	"strings"
	"time"

	"github.com/despensa/despensa/internal/catalog"
)

// Status is the lifecycle state of a replenishment order.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSent     Status = "SENT"
	StatusReceived Status = "RECEIVED"
)

// ParseStatus maps a stored status name back to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusSent, StatusReceived:
		return Status(s), nil
	}
	return "", &catalog.ValidationError{Field: "order status", Reason: "unknown status " + s}
}

// Item binds one ordered product to the quantity requested. Immutable.
type Item struct {
	product *catalog.Product
	qty     int
}

// NewItem validates and builds an order item.
func NewItem(product *catalog.Product, qty int) (Item, error) {
	if product == nil {
		return Item{}, &catalog.ValidationError{Field: "product", Reason: "must not be nil"}
	}
	if qty <= 0 {
		return Item{}, &catalog.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return Item{product: product, qty: qty}, nil
}

// Product returns the ordered product.
func (i Item) Product() *catalog.Product { return i.product }

// Qty returns the quantity requested.
func (i Item) Qty() int { return i.qty }

// Order is a replenishment order for one supplier. The item list preserves
// insertion order and merge-sums quantities on repeated adds of the same
// product. Mutation happens only through methods that enforce the
// lifecycle invariants; reads hand out copies.
type Order struct {
	id       string
	supplier *catalog.Supplier
	items    []Item
	index    map[string]int // product id -> items position

	createdAt  time.Time
	sentAt     time.Time
	receivedAt time.Time
	status     Status
}

// New creates a fresh order in PENDING state with no items.
func New(id string, supplier *catalog.Supplier, createdAt time.Time) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &catalog.ValidationError{Field: "order id", Reason: "must not be blank"}
	}
	if supplier == nil {
		return nil, &catalog.ValidationError{Field: "supplier", Reason: "must not be nil"}
	}
	if createdAt.IsZero() {
		return nil, &catalog.ValidationError{Field: "creation time", Reason: "must be set"}
	}
	return &Order{
		id:        id,
		supplier:  supplier,
		index:     make(map[string]int),
		createdAt: createdAt,
		status:    StatusPending,
	}, nil
}

// Rehydrate rebuilds an order from stored header and detail records,
// accepting the stored state and creation time as-is. Items merge-sum by
// product id the same way live adds do, but no lifecycle policy applies:
// a RECEIVED order rehydrates with its items intact.
func Rehydrate(id string, supplier *catalog.Supplier, createdAt time.Time, status Status, items []Item) (*Order, error) {
	o, err := New(id, supplier, createdAt)
	if err != nil {
		return nil, err
	}
	o.status = status
	for _, it := range items {
		o.merge(it.product, it.qty)
	}
	return o, nil
}

// ID returns the order identifier.
func (o *Order) ID() string { return o.id }

// Supplier returns the supplier this order is addressed to.
func (o *Order) Supplier() *catalog.Supplier { return o.supplier }

// Status returns the current lifecycle state.
func (o *Order) Status() Status { return o.status }

// CreatedAt returns the order's creation time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// SentAt returns when the order was marked sent; zero if it never was.
// Not persisted: the stored header carries only the creation time.
func (o *Order) SentAt() time.Time { return o.sentAt }

// ReceivedAt returns when the order was marked received; zero if it never
// was. Not persisted.
func (o *Order) ReceivedAt() time.Time { return o.receivedAt }

// Items returns a copy of the item list in insertion order.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Qty returns the quantity requested for a product id, or zero.
func (o *Order) Qty(productID string) int {
	if i, ok := o.index[productID]; ok {
		return o.items[i].qty
	}
	return 0
}

// AddItem adds qty units of product to the order, summing with any
// existing quantity for the same product id. Only PENDING orders accept
// items; adding to a sent or received order fails with InvalidStateError.
func (o *Order) AddItem(product *catalog.Product, qty int) error {
	if _, err := NewItem(product, qty); err != nil {
		return err
	}
	if o.status != StatusPending {
		return &InvalidStateError{OrderID: o.id, From: o.status, Attempted: "add item"}
	}
	o.merge(product, qty)
	return nil
}

func (o *Order) merge(product *catalog.Product, qty int) {
	if i, ok := o.index[product.ID()]; ok {
		o.items[i].qty += qty
		return
	}
	o.index[product.ID()] = len(o.items)
	o.items = append(o.items, Item{product: product, qty: qty})
}

// RemoveItem drops a product from the order entirely. Removing an absent
// product is a no-op. Like AddItem, only PENDING orders may be changed.
func (o *Order) RemoveItem(productID string) error {
	if o.status != StatusPending {
		return &InvalidStateError{OrderID: o.id, From: o.status, Attempted: "remove item"}
	}
	i, ok := o.index[productID]
	if !ok {
		return nil
	}
	o.items = append(o.items[:i], o.items[i+1:]...)
	delete(o.index, productID)
	for pid, pos := range o.index {
		if pos > i {
			o.index[pid] = pos - 1
		}
	}
	return nil
}

// MarkSent transitions PENDING -> SENT and stamps the send time.
// Fails with InvalidStateError from any other state, and with
// ErrEmptyOrder when the order has no items.
func (o *Order) MarkSent(at time.Time) error {
	if o.status != StatusPending {
		return &InvalidStateError{OrderID: o.id, From: o.status, Attempted: "mark sent"}
	}
	if len(o.items) == 0 {
		return ErrEmptyOrder
	}
	o.status = StatusSent
	o.sentAt = at
	return nil
}

// MarkReceived transitions SENT -> RECEIVED and stamps the receive time.
// RECEIVED is terminal; a second receive fails with InvalidStateError.
func (o *Order) MarkReceived(at time.Time) error {
	if o.status != StatusSent {
		return &InvalidStateError{OrderID: o.id, From: o.status, Attempted: "mark received"}
	}
	o.status = StatusReceived
	o.receivedAt = at
	return nil
}
