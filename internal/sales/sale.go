// Package sales defines the immutable sale record and its line items.
//
// Sales are created one of two ways and never mutated afterwards:
//
//   - Compose builds a fresh sale from validated requests, snapshotting
//     each line's unit price from the product's current price.
//   - Rehydrate rebuilds a sale from stored header and line records,
//     accepting the pre-existing id and timestamp as-is.
//
// A sale always has at least one line.
package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/catalog"
)

// Request is a validated sale request for one product: what the caller
// asked to buy, before any stock check has happened.
type Request struct {
	productID string
	qty       int
}

// NewRequest validates and builds a sale request.
func NewRequest(productID string, qty int) (Request, error) {
	if strings.TrimSpace(productID) == "" {
		return Request{}, &catalog.ValidationError{Field: "product id", Reason: "must not be blank"}
	}
	if qty <= 0 {
		return Request{}, &catalog.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return Request{productID: productID, qty: qty}, nil
}

// ProductID returns the requested product id.
func (r Request) ProductID() string { return r.productID }

// Qty returns the requested quantity.
func (r Request) Qty() int { return r.qty }

// Line is one entry of a sale: a product, a quantity, and the unit price
// that applied at sale time. Immutable.
type Line struct {
	product   *catalog.Product
	qty       int
	unitPrice decimal.Decimal
}

// NewLine validates and builds a sale line.
func NewLine(product *catalog.Product, qty int, unitPrice decimal.Decimal) (Line, error) {
	if product == nil {
		return Line{}, &catalog.ValidationError{Field: "product", Reason: "must not be nil"}
	}
	if qty <= 0 {
		return Line{}, &catalog.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if unitPrice.IsNegative() {
		return Line{}, &catalog.ValidationError{Field: "unit price", Reason: "must not be negative"}
	}
	return Line{product: product, qty: qty, unitPrice: unitPrice}, nil
}

// Product returns the product sold on this line.
func (l Line) Product() *catalog.Product { return l.product }

// Qty returns the number of units sold.
func (l Line) Qty() int { return l.qty }

// UnitPrice returns the price per unit applied at sale time.
func (l Line) UnitPrice() decimal.Decimal { return l.unitPrice }

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.qty)))
}

// Sale is an immutable sale record.
type Sale struct {
	id    string
	at    time.Time
	lines []Line
}

// Compose builds a fresh sale from requests, resolving each product and
// snapshotting its current price. Stock checking and deduction are the
// caller's responsibility (the registration protocol runs them before
// composing). The resolver returns nil for unknown ids, which surfaces as
// a NotFoundError.
func Compose(id string, at time.Time, requests []Request, resolve func(productID string) *catalog.Product) (*Sale, error) {
	lines := make([]Line, 0, len(requests))
	for _, req := range requests {
		p := resolve(req.productID)
		if p == nil {
			return nil, &catalog.NotFoundError{Kind: "product", ID: req.productID}
		}
		line, err := NewLine(p, req.qty, p.Price())
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return newSale(id, at, lines)
}

// Rehydrate rebuilds a sale from stored records, keeping the stored id and
// timestamp.
func Rehydrate(id string, at time.Time, lines []Line) (*Sale, error) {
	return newSale(id, at, lines)
}

func newSale(id string, at time.Time, lines []Line) (*Sale, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &catalog.ValidationError{Field: "sale id", Reason: "must not be blank"}
	}
	if at.IsZero() {
		return nil, &catalog.ValidationError{Field: "sale timestamp", Reason: "must be set"}
	}
	if len(lines) == 0 {
		return nil, &catalog.ValidationError{Field: "sale lines", Reason: "must not be empty"}
	}
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return &Sale{id: id, at: at, lines: copied}, nil
}

// ID returns the sale identifier.
func (s *Sale) ID() string { return s.id }

// At returns the sale timestamp.
func (s *Sale) At() time.Time { return s.at }

// Lines returns a copy of the sale's line items.
func (s *Sale) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total returns the sum of all line subtotals.
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
