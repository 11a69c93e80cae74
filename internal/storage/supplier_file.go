package storage

import (
	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/codec"
)

const supplierHeader = "id;name;contact"

// SupplierFile stores suppliers in a single flat file, one row each.
// Rewrite store, same contract as ProductFile.
type SupplierFile struct {
	path string
}

// NewSupplierFile opens (creating if needed) the supplier store at path.
func NewSupplierFile(path string) (*SupplierFile, error) {
	if err := initFile(path, supplierHeader); err != nil {
		return nil, err
	}
	return &SupplierFile{path: path}, nil
}

// List returns every stored supplier in file order. Corrupt rows are
// skipped.
func (s *SupplierFile) List() ([]*catalog.Supplier, error) {
	rows, err := readRecords(s.path)
	if err != nil {
		return nil, err
	}
	var out []*catalog.Supplier
	for _, c := range rows {
		if len(c) < 3 {
			continue
		}
		sup, err := catalog.NewSupplier(c[0], c[1], c[2])
		if err != nil {
			continue
		}
		out = append(out, sup)
	}
	return out, nil
}

// Find returns the supplier with the given id, if stored.
func (s *SupplierFile) Find(id string) (*catalog.Supplier, bool, error) {
	all, err := s.List()
	if err != nil {
		return nil, false, err
	}
	for _, sup := range all {
		if sup.ID() == id {
			return sup, true, nil
		}
	}
	return nil, false, nil
}

// Upsert inserts or replaces the supplier with sup's id.
func (s *SupplierFile) Upsert(sup *catalog.Supplier) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, q := range all {
		if q.ID() != sup.ID() {
			kept = append(kept, q)
		}
	}
	kept = append(kept, sup)
	return s.writeAll(kept)
}

// Delete removes the supplier with the given id. Missing id is a no-op.
func (s *SupplierFile) Delete(id string) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	kept := all[:0]
	removed := false
	for _, q := range all {
		if q.ID() == id {
			removed = true
			continue
		}
		kept = append(kept, q)
	}
	if !removed {
		return nil
	}
	return s.writeAll(kept)
}

func (s *SupplierFile) writeAll(suppliers []*catalog.Supplier) error {
	lines := make([]string, 0, len(suppliers))
	for _, sup := range suppliers {
		lines = append(lines, codec.Join(sup.ID(), sup.Name(), sup.Contact()))
	}
	return writeAll(s.path, supplierHeader, lines)
}
