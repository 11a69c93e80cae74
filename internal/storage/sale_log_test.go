package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/sales"
)

func newSaleLog(t *testing.T) *SaleLog {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSaleLog(filepath.Join(dir, "sales.csv"), filepath.Join(dir, "sale_lines.csv"))
	if err != nil {
		t.Fatalf("NewSaleLog() failed: %v", err)
	}
	return s
}

func testSale(t *testing.T, id string) *sales.Sale {
	t.Helper()
	pan := ingredient(t, "PAN", "Pan", 10, 0, "350.5")
	queso := ingredient(t, "QUESO", "Queso", 10, 0, "1200.25")
	l1, err := sales.NewLine(pan, 2, pan.Price())
	if err != nil {
		t.Fatal(err)
	}
	l2, err := sales.NewLine(queso, 1, queso.Price())
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	sale, err := sales.Rehydrate(id, at, []sales.Line{l1, l2})
	if err != nil {
		t.Fatal(err)
	}
	return sale
}

func TestSaleLog_AppendAndReadBack(t *testing.T) {
	s := newSaleLog(t)
	if err := s.Append(testSale(t, "S-1")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	headers, err := s.Headers()
	if err != nil {
		t.Fatalf("Headers() failed: %v", err)
	}
	if len(headers) != 1 || headers[0].ID != "S-1" {
		t.Fatalf("Headers() = %+v, want one S-1", headers)
	}
	if !headers[0].At.Equal(time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("timestamp round-trip = %v", headers[0].At)
	}

	lines, err := s.Lines()
	if err != nil {
		t.Fatalf("Lines() failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Lines() returned %d rows, want 2", len(lines))
	}
	if lines[0].ProductID != "PAN" || lines[0].Qty != 2 {
		t.Errorf("first line = %+v", lines[0])
	}
	if !lines[1].UnitPrice.Equal(decimal.RequireFromString("1200.25")) {
		t.Errorf("unit price round-trip = %s", lines[1].UnitPrice)
	}
}

func TestSaleLog_AppendIsAppendOnly(t *testing.T) {
	s := newSaleLog(t)
	// The log does not deduplicate: appending the same sale twice stores
	// it twice. Callers append each sale exactly once.
	if err := s.Append(testSale(t, "S-1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(testSale(t, "S-1")); err != nil {
		t.Fatal(err)
	}
	headers, err := s.Headers()
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 2 {
		t.Errorf("Headers() = %d rows, want 2 (no dedup)", len(headers))
	}
}

func TestSaleLog_DeleteUnsupported(t *testing.T) {
	s := newSaleLog(t)
	err := s.Delete("S-1")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Delete() = %v, want ErrUnsupported", err)
	}
}
