package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/catalog"
)

// ProductStore is the SQLite-backed product repository. It honors the
// same contract as the flat-file store: Upsert replaces per id, Delete
// of a missing id is a no-op, and List returns bundles holding live
// references to the product instances of the same call.
type ProductStore struct {
	db *sql.DB
}

// List returns every stored product in insertion order, ingredients
// before bundles. Rows that fail to parse are skipped.
func (s *ProductStore) List() ([]*catalog.Product, error) {
	byID := make(map[string]*catalog.Product)
	var out []*catalog.Product

	rows, err := s.db.Query(`
		SELECT id, name, stock, min_stock, unit, unit_cost
		FROM products WHERE kind = 'ingredient' ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	for rows.Next() {
		var id, name, unit, cost string
		var stock, minStock int
		if err := rows.Scan(&id, &name, &stock, &minStock, &unit, &cost); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		u, err := catalog.ParseUnit(unit)
		if err != nil {
			continue
		}
		c, err := decimal.NewFromString(cost)
		if err != nil {
			continue
		}
		p, err := catalog.NewIngredient(id, name, stock, minStock, u, c)
		if err != nil {
			continue
		}
		byID[id] = p
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	rows.Close()

	rows, err = s.db.Query(`
		SELECT id, name FROM products WHERE kind = 'bundle' ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		p, err := catalog.NewBundle(id, name)
		if err != nil {
			continue
		}
		byID[id] = p
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	rows.Close()

	// All shells exist, so component references resolve regardless of
	// bundle nesting depth.
	rows, err = s.db.Query(`
		SELECT product_id, component_id, qty
		FROM product_components ORDER BY product_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid, cid string
		var qty int
		if err := rows.Scan(&pid, &cid, &qty); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		bundle, ok := byID[pid]
		if !ok {
			continue
		}
		ref, ok := byID[cid]
		if !ok {
			continue
		}
		if err := bundle.AddComponent(ref, qty); err != nil {
			continue
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}

	return out, nil
}

// Find returns the product with the given id, if stored.
func (s *ProductStore) Find(id string) (*catalog.Product, bool, error) {
	all, err := s.List()
	if err != nil {
		return nil, false, err
	}
	for _, p := range all {
		if p.ID() == id {
			return p, true, nil
		}
	}
	return nil, false, nil
}

// Upsert inserts or replaces the product with p's id. A replaced product
// keeps its position, so listings stay stable across updates.
func (s *ProductStore) Upsert(p *catalog.Product) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`SELECT position FROM products WHERE id = ?`, p.ID()).Scan(&position)
	switch {
	case err == sql.ErrNoRows:
		position, err = nextPosition(tx, "products")
		if err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("upsert product: %w", err)
	}

	if p.Kind() == catalog.KindIngredient {
		_, err = tx.Exec(`
			INSERT INTO products (id, kind, name, stock, min_stock, unit, unit_cost, position)
			VALUES (?, 'ingredient', ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind,
				name = excluded.name,
				stock = excluded.stock,
				min_stock = excluded.min_stock,
				unit = excluded.unit,
				unit_cost = excluded.unit_cost
		`, p.ID(), p.Name(), p.Stock(), p.MinStock(), string(p.Unit()), p.UnitCost().String(), position)
	} else {
		_, err = tx.Exec(`
			INSERT INTO products (id, kind, name, stock, min_stock, unit, unit_cost, position)
			VALUES (?, 'bundle', ?, NULL, NULL, NULL, NULL, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind,
				name = excluded.name,
				stock = NULL,
				min_stock = NULL,
				unit = NULL,
				unit_cost = NULL
		`, p.ID(), p.Name(), position)
	}
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM product_components WHERE product_id = ?`, p.ID()); err != nil {
		return fmt.Errorf("upsert product components: %w", err)
	}
	for i, c := range p.Components() {
		_, err := tx.Exec(`
			INSERT INTO product_components (product_id, component_id, qty, position)
			VALUES (?, ?, ?, ?)
		`, p.ID(), c.Product().ID(), c.Qty(), i+1)
		if err != nil {
			return fmt.Errorf("upsert product components: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// Delete removes the product with the given id and its component rows.
// Missing id is a no-op.
func (s *ProductStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
