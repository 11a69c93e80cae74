package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/orders"
	"github.com/despensa/despensa/internal/sales"
)

// TestGoldenFileLayout locks the on-disk layout of every store file. Any
// change to delimiters, escaping, column order or timestamp format shows
// up here as a golden diff.
func TestGoldenFileLayout(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	dir := t.TempDir()

	mustDecimal := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad decimal literal %q: %v", s, err)
		}
		return d
	}

	pan, err := catalog.NewIngredient("PAN", "Pan lactal", 10, 5, catalog.UnitPiece, mustDecimal("350.5"))
	if err != nil {
		t.Fatal(err)
	}
	queso, err := catalog.NewIngredient("QUESO", "Queso cremoso", 4, 2, catalog.UnitKilo, mustDecimal("1200.25"))
	if err != nil {
		t.Fatal(err)
	}
	combo, err := catalog.NewBundle("COMBO1", "Combo sandwich")
	if err != nil {
		t.Fatal(err)
	}
	if err := combo.AddComponent(pan, 2); err != nil {
		t.Fatal(err)
	}
	if err := combo.AddComponent(queso, 1); err != nil {
		t.Fatal(err)
	}

	productsPath := filepath.Join(dir, "products.csv")
	products, err := NewProductFile(productsPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []*catalog.Product{pan, queso, combo} {
		if err := products.Upsert(p); err != nil {
			t.Fatalf("Upsert(%s) failed: %v", p.ID(), err)
		}
	}
	g.Assert(t, "products", readFile(t, productsPath))

	suppliersPath := filepath.Join(dir, "suppliers.csv")
	suppliers, err := NewSupplierFile(suppliersPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, args := range [][3]string{
		{"PRV1", "Granja Los Alamos", "011-4555-1234"},
		{"PRV2", "Lacteos del Sur", "ventas@lacteosdelsur.com"},
	} {
		sup, err := catalog.NewSupplier(args[0], args[1], args[2])
		if err != nil {
			t.Fatal(err)
		}
		if err := suppliers.Upsert(sup); err != nil {
			t.Fatalf("Upsert(%s) failed: %v", args[0], err)
		}
	}
	g.Assert(t, "suppliers", readFile(t, suppliersPath))

	orderHeadersPath := filepath.Join(dir, "orders.csv")
	orderItemsPath := filepath.Join(dir, "order_items.csv")
	orderStore, err := NewOrderFile(orderHeadersPath, orderItemsPath)
	if err != nil {
		t.Fatal(err)
	}
	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	h := OrderHeader{ID: "P-100", SupplierID: "PRV1", CreatedAt: createdAt, Status: orders.StatusPending}
	if err := orderStore.UpsertHeader(h); err != nil {
		t.Fatal(err)
	}
	if err := orderStore.AddItem("P-100", "PAN", 2); err != nil {
		t.Fatal(err)
	}
	if err := orderStore.AddItem("P-100", "QUESO", 1); err != nil {
		t.Fatal(err)
	}
	g.Assert(t, "order_headers", readFile(t, orderHeadersPath))
	g.Assert(t, "order_items", readFile(t, orderItemsPath))

	saleHeadersPath := filepath.Join(dir, "sales.csv")
	saleLinesPath := filepath.Join(dir, "sale_lines.csv")
	saleLog, err := NewSaleLog(saleHeadersPath, saleLinesPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := make([]sales.Line, 0, 2)
	for _, spec := range []struct {
		p     *catalog.Product
		qty   int
		price string
	}{
		{pan, 2, "350.5"},
		{queso, 1, "1200.25"},
	} {
		line, err := sales.NewLine(spec.p, spec.qty, mustDecimal(spec.price))
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, line)
	}
	sale, err := sales.Rehydrate("S-100", time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC), lines)
	if err != nil {
		t.Fatal(err)
	}
	if err := saleLog.Append(sale); err != nil {
		t.Fatal(err)
	}
	g.Assert(t, "sale_headers", readFile(t, saleHeadersPath))
	g.Assert(t, "sale_lines", readFile(t, saleLinesPath))
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return b
}
