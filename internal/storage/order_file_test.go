package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/despensa/despensa/internal/orders"
)

func newOrderFile(t *testing.T) *OrderFile {
	t.Helper()
	dir := t.TempDir()
	s, err := NewOrderFile(filepath.Join(dir, "orders.csv"), filepath.Join(dir, "order_items.csv"))
	if err != nil {
		t.Fatalf("NewOrderFile() failed: %v", err)
	}
	return s
}

var orderCreatedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestOrderFile_UpsertHeaderReplacesInPlace(t *testing.T) {
	s := newOrderFile(t)
	h := OrderHeader{ID: "P-1", SupplierID: "PRV1", CreatedAt: orderCreatedAt, Status: orders.StatusPending}
	if err := s.UpsertHeader(h); err != nil {
		t.Fatalf("UpsertHeader() failed: %v", err)
	}

	h.Status = orders.StatusSent
	if err := s.UpsertHeader(h); err != nil {
		t.Fatalf("UpsertHeader() update failed: %v", err)
	}

	all, err := s.Headers()
	if err != nil {
		t.Fatalf("Headers() failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Headers() = %d rows, want 1 (state change must not duplicate)", len(all))
	}
	if all[0].Status != orders.StatusSent {
		t.Errorf("status = %s, want SENT", all[0].Status)
	}
	if !all[0].CreatedAt.Equal(orderCreatedAt) {
		t.Errorf("createdAt round-trip = %v", all[0].CreatedAt)
	}
}

func TestOrderFile_HeadersKeepFileOrder(t *testing.T) {
	s := newOrderFile(t)
	for _, id := range []string{"P-1", "P-2", "P-3"} {
		h := OrderHeader{ID: id, SupplierID: "PRV1", CreatedAt: orderCreatedAt, Status: orders.StatusPending}
		if err := s.UpsertHeader(h); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.Headers()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "P-1" || all[2].ID != "P-3" {
		t.Errorf("Headers() order = %+v", all)
	}
}

func TestOrderFile_AddItemIdenticalRowIsIdempotent(t *testing.T) {
	s := newOrderFile(t)
	if err := s.AddItem("P-1", "PAN", 5); err != nil {
		t.Fatalf("AddItem() failed: %v", err)
	}
	// Identical row: skipped by the pre-scan.
	if err := s.AddItem("P-1", "PAN", 5); err != nil {
		t.Fatalf("AddItem() replay failed: %v", err)
	}

	items, err := s.Items("P-1")
	if err != nil {
		t.Fatalf("Items() failed: %v", err)
	}
	if len(items) != 1 || items[0].Qty != 5 {
		t.Errorf("Items() = %+v, want single PAN:5", items)
	}
}

func TestOrderFile_ItemsMergeSumPerProduct(t *testing.T) {
	s := newOrderFile(t)
	if err := s.AddItem("P-1", "PAN", 5); err != nil {
		t.Fatal(err)
	}
	if err := s.AddItem("P-1", "QUESO", 1); err != nil {
		t.Fatal(err)
	}
	// Different quantity for an existing product: appended, then merged on
	// read.
	if err := s.AddItem("P-1", "PAN", 3); err != nil {
		t.Fatal(err)
	}
	// Another order's rows are invisible here.
	if err := s.AddItem("P-2", "PAN", 9); err != nil {
		t.Fatal(err)
	}

	items, err := s.Items("P-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("Items() = %+v, want 2 products", items)
	}
	if items[0].ProductID != "PAN" || items[0].Qty != 8 {
		t.Errorf("merged PAN = %+v, want qty 8", items[0])
	}
	if items[1].ProductID != "QUESO" || items[1].Qty != 1 {
		t.Errorf("QUESO = %+v", items[1])
	}
}

func TestOrderFile_FindHeaderMissing(t *testing.T) {
	s := newOrderFile(t)
	_, ok, err := s.FindHeader("NOPE")
	if err != nil {
		t.Fatalf("FindHeader() failed: %v", err)
	}
	if ok {
		t.Error("FindHeader(missing) reported found")
	}
}

func TestOrderFile_DeleteUnsupported(t *testing.T) {
	s := newOrderFile(t)
	err := s.Delete("P-1")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Delete() = %v, want ErrUnsupported", err)
	}
}
