package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/despensa/despensa/internal/catalog"
)

// SupplierStore is the SQLite-backed supplier repository.
type SupplierStore struct {
	db *sql.DB
}

// List returns every stored supplier in insertion order.
func (s *SupplierStore) List() ([]*catalog.Supplier, error) {
	rows, err := s.db.Query(`SELECT id, name, contact FROM suppliers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Supplier
	for rows.Next() {
		var id, name, contact string
		if err := rows.Scan(&id, &name, &contact); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		sup, err := catalog.NewSupplier(id, name, contact)
		if err != nil {
			continue
		}
		out = append(out, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return out, nil
}

// Find returns the supplier with the given id, if stored.
func (s *SupplierStore) Find(id string) (*catalog.Supplier, bool, error) {
	var name, contact string
	err := s.db.QueryRow(`SELECT name, contact FROM suppliers WHERE id = ?`, id).Scan(&name, &contact)
	switch {
	case err == sql.ErrNoRows:
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("find supplier: %w", err)
	}
	sup, err := catalog.NewSupplier(id, name, contact)
	if err != nil {
		return nil, false, nil
	}
	return sup, true, nil
}

// Upsert inserts or replaces the supplier with sup's id.
func (s *SupplierStore) Upsert(sup *catalog.Supplier) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`SELECT position FROM suppliers WHERE id = ?`, sup.ID()).Scan(&position)
	switch {
	case err == sql.ErrNoRows:
		position, err = nextPosition(tx, "suppliers")
		if err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("upsert supplier: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO suppliers (id, name, contact, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			contact = excluded.contact
	`, sup.ID(), sup.Name(), sup.Contact(), position)
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}
	return nil
}

// Delete removes the supplier with the given id. Missing id is a no-op.
func (s *SupplierStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM suppliers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}
