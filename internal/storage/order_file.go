package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/despensa/despensa/internal/codec"
	"github.com/despensa/despensa/internal/orders"
)

const (
	orderHeaderHeader = "id;supplierId;createdAt;status"
	orderItemHeader   = "orderId;productId;qty"
)

// OrderHeader is a raw order header record. Supplier is an id only;
// resolution against the live supplier store happens during hydration.
type OrderHeader struct {
	ID         string
	SupplierID string
	CreatedAt  time.Time
	Status     orders.Status
}

// ItemRow is a merged order detail record.
type ItemRow struct {
	ProductID string
	Qty       int
}

// OrderFile stores replenishment orders across two files:
//
//   - a header file, where UpsertHeader rewrites the matching row in place
//     (state transitions update the header, never duplicate it), and
//   - an append-only detail file with one row per added item. Rows are
//     never rewritten; readers merge-sum rows per (order, product).
//
// AddItem pre-scans the detail file and skips a row identical to one
// already present, so replaying the same add is idempotent. Delete fails
// with ErrUnsupported.
type OrderFile struct {
	headersPath string
	itemsPath   string
}

// NewOrderFile opens (creating if needed) the order store files.
func NewOrderFile(headersPath, itemsPath string) (*OrderFile, error) {
	if err := initFile(headersPath, orderHeaderHeader); err != nil {
		return nil, err
	}
	if err := initFile(itemsPath, orderItemHeader); err != nil {
		return nil, err
	}
	return &OrderFile{headersPath: headersPath, itemsPath: itemsPath}, nil
}

// Headers returns every order header in file order. Corrupt rows are
// skipped.
func (s *OrderFile) Headers() ([]OrderHeader, error) {
	rows, err := readRecords(s.headersPath)
	if err != nil {
		return nil, err
	}
	var out []OrderHeader
	for _, c := range rows {
		h, ok := parseOrderHeader(c)
		if !ok {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func parseOrderHeader(c []string) (OrderHeader, bool) {
	if len(c) < 4 {
		return OrderHeader{}, false
	}
	createdAt, err := time.Parse(time.RFC3339, c[2])
	if err != nil {
		return OrderHeader{}, false
	}
	status, err := orders.ParseStatus(c[3])
	if err != nil {
		return OrderHeader{}, false
	}
	return OrderHeader{ID: c[0], SupplierID: c[1], CreatedAt: createdAt, Status: status}, true
}

// FindHeader returns the header with the given order id, if stored.
func (s *OrderFile) FindHeader(id string) (OrderHeader, bool, error) {
	all, err := s.Headers()
	if err != nil {
		return OrderHeader{}, false, err
	}
	for _, h := range all {
		if h.ID == id {
			return h, true, nil
		}
	}
	return OrderHeader{}, false, nil
}

// UpsertHeader inserts or replaces the header row for h.ID, rewriting the
// header file. Detail rows are untouched; items are persisted only through
// AddItem.
func (s *OrderFile) UpsertHeader(h OrderHeader) error {
	all, err := s.Headers()
	if err != nil {
		return err
	}
	replaced := false
	lines := make([]string, 0, len(all)+1)
	for _, existing := range all {
		if existing.ID == h.ID {
			lines = append(lines, formatOrderHeader(h))
			replaced = true
			continue
		}
		lines = append(lines, formatOrderHeader(existing))
	}
	if !replaced {
		lines = append(lines, formatOrderHeader(h))
	}
	return writeAll(s.headersPath, orderHeaderHeader, lines)
}

func formatOrderHeader(h OrderHeader) string {
	return codec.Join(h.ID, h.SupplierID, h.CreatedAt.Format(time.RFC3339), string(h.Status))
}

// AddItem appends one detail row. A row identical in order id, product id
// and quantity to one already stored is skipped, so re-adding the same
// item is idempotent; a different quantity for the same product appends a
// further row and readers merge-sum.
func (s *OrderFile) AddItem(orderID, productID string, qty int) error {
	rows, err := readRecords(s.itemsPath)
	if err != nil {
		return err
	}
	for _, c := range rows {
		if len(c) < 3 {
			continue
		}
		if c[0] == orderID && c[1] == productID && c[2] == strconv.Itoa(qty) {
			return nil
		}
	}
	return appendLines(s.itemsPath, []string{
		codec.Join(orderID, productID, strconv.Itoa(qty)),
	})
}

// Items returns the merged detail rows for one order: quantities summed
// per product, first-appearance order preserved.
func (s *OrderFile) Items(orderID string) ([]ItemRow, error) {
	rows, err := readRecords(s.itemsPath)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var out []ItemRow
	for _, c := range rows {
		if len(c) < 3 || c[0] != orderID {
			continue
		}
		qty, err := strconv.Atoi(c[2])
		if err != nil {
			continue
		}
		if i, ok := index[c[1]]; ok {
			out[i].Qty += qty
			continue
		}
		index[c[1]] = len(out)
		out = append(out, ItemRow{ProductID: c[1], Qty: qty})
	}
	return out, nil
}

// Delete is not supported: order history is append-only.
func (s *OrderFile) Delete(id string) error {
	return fmt.Errorf("delete order %q: %w", id, ErrUnsupported)
}
