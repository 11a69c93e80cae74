package storage

import (
	"path/filepath"
	"testing"

	"github.com/despensa/despensa/internal/catalog"
)

func newSupplierFile(t *testing.T) *SupplierFile {
	t.Helper()
	s, err := NewSupplierFile(filepath.Join(t.TempDir(), "suppliers.csv"))
	if err != nil {
		t.Fatalf("NewSupplierFile() failed: %v", err)
	}
	return s
}

func supplier(t *testing.T, id, name, contact string) *catalog.Supplier {
	t.Helper()
	sup, err := catalog.NewSupplier(id, name, contact)
	if err != nil {
		t.Fatalf("NewSupplier(%q) failed: %v", id, err)
	}
	return sup
}

func TestSupplierFile_RoundTrip(t *testing.T) {
	s := newSupplierFile(t)
	if err := s.Upsert(supplier(t, "PRV1", "Molinos SA", "ventas@molinos.example")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	got, ok, err := s.Find("PRV1")
	if err != nil || !ok {
		t.Fatalf("Find() = %v, %v", ok, err)
	}
	if got.Name() != "Molinos SA" || got.Contact() != "ventas@molinos.example" {
		t.Errorf("round-trip mismatch: %q / %q", got.Name(), got.Contact())
	}
}

func TestSupplierFile_UpsertReplaces(t *testing.T) {
	s := newSupplierFile(t)
	if err := s.Upsert(supplier(t, "PRV1", "Molinos SA", "old@example.com")); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(supplier(t, "PRV1", "Molinos SA", "new@example.com")); err != nil {
		t.Fatal(err)
	}

	all, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("List() returned %d suppliers, want 1", len(all))
	}
	if all[0].Contact() != "new@example.com" {
		t.Errorf("contact = %q, want latest value", all[0].Contact())
	}
}

func TestSupplierFile_DeleteMissingIsNoOp(t *testing.T) {
	s := newSupplierFile(t)
	if err := s.Delete("NOPE"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestSupplierFile_FindMissing(t *testing.T) {
	s := newSupplierFile(t)
	_, ok, err := s.Find("NOPE")
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	if ok {
		t.Error("Find(missing) reported found")
	}
}
