package storage

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/codec"
)

const productHeader = "kind;id;name;stock;minStock;unit;unitCost;components"

// ProductFile stores the product catalog in a single flat file, one row
// per product. Ingredient rows carry stock/unit/cost fields; bundle rows
// leave those blank and carry a components field of the form
// "id:qty|id:qty".
//
// Rewrite store: Upsert and Delete read everything and rewrite the file.
type ProductFile struct {
	path string
}

// NewProductFile opens (creating if needed) the product store at path.
func NewProductFile(path string) (*ProductFile, error) {
	if err := initFile(path, productHeader); err != nil {
		return nil, err
	}
	return &ProductFile{path: path}, nil
}

// List returns every stored product in file order. Bundles hold references
// to the product instances returned in the same call, so a component's
// stock change is visible through the bundle. Corrupt rows are skipped.
//
// Bundles may reference other bundles, as long as the referenced bundle
// appears earlier in the file; the writer preserves that ordering.
func (s *ProductFile) List() ([]*catalog.Product, error) {
	rows, err := readRecords(s.path)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*catalog.Product)
	var out []*catalog.Product

	// First pass: ingredients, so bundle components can resolve.
	for _, c := range rows {
		if len(c) < 7 || c[0] != string(catalog.KindIngredient) {
			continue
		}
		p, ok := parseIngredientRow(c)
		if !ok {
			continue
		}
		byID[p.ID()] = p
		out = append(out, p)
	}

	// Second pass: bundles, resolving components against what is loaded.
	for _, c := range rows {
		if len(c) < 8 || c[0] != string(catalog.KindBundle) {
			continue
		}
		p, ok := parseBundleRow(c, byID)
		if !ok {
			continue
		}
		byID[p.ID()] = p
		out = append(out, p)
	}

	return out, nil
}

func parseIngredientRow(c []string) (*catalog.Product, bool) {
	stock, err := strconv.Atoi(c[3])
	if err != nil {
		return nil, false
	}
	minStock, err := strconv.Atoi(c[4])
	if err != nil {
		return nil, false
	}
	unit, err := catalog.ParseUnit(c[5])
	if err != nil {
		return nil, false
	}
	cost, err := decimal.NewFromString(c[6])
	if err != nil {
		return nil, false
	}
	p, err := catalog.NewIngredient(c[1], c[2], stock, minStock, unit, cost)
	if err != nil {
		return nil, false
	}
	return p, true
}

func parseBundleRow(c []string, byID map[string]*catalog.Product) (*catalog.Product, bool) {
	p, err := catalog.NewBundle(c[1], c[2])
	if err != nil {
		return nil, false
	}
	comps := c[7]
	if comps == "" {
		return p, true
	}
	for _, part := range strings.Split(comps, "|") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		qty, err := strconv.Atoi(kv[1])
		if err != nil {
			continue
		}
		ref, ok := byID[kv[0]]
		if !ok {
			continue
		}
		if err := p.AddComponent(ref, qty); err != nil {
			continue
		}
	}
	return p, true
}

// Find returns the product with the given id, if stored.
func (s *ProductFile) Find(id string) (*catalog.Product, bool, error) {
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

// Upsert inserts or replaces the product with p's id and rewrites the
// whole file. Ingredients are written before bundles so component
// references always resolve on the next read.
func (s *ProductFile) Upsert(p *catalog.Product) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, q := range all {
		if q.ID() != p.ID() {
			kept = append(kept, q)
		}
	}
	kept = append(kept, p)
	return s.writeAll(kept)
}

// Delete removes the product with the given id. Missing id is a no-op.
func (s *ProductFile) Delete(id string) error {
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

func (s *ProductFile) writeAll(products []*catalog.Product) error {
	var lines []string
	for _, p := range products {
		if p.Kind() != catalog.KindIngredient {
			continue
		}
		lines = append(lines, codec.Join(
			string(catalog.KindIngredient),
			p.ID(),
			p.Name(),
			strconv.Itoa(p.Stock()),
			strconv.Itoa(p.MinStock()),
			string(p.Unit()),
			p.UnitCost().String(),
			"",
		))
	}
	for _, p := range orderBundles(products) {
		var comps []string
		for _, c := range p.Components() {
			comps = append(comps, c.Product().ID()+":"+strconv.Itoa(c.Qty()))
		}
		lines = append(lines, codec.Join(
			string(catalog.KindBundle),
			p.ID(),
			p.Name(),
			"", "", "", "",
			strings.Join(comps, "|"),
		))
	}
	return writeAll(s.path, productHeader, lines)
}

// orderBundles returns the bundles so that any bundle referencing another
// bundle comes after it, keeping reads single-forward-pass. Bundle graphs
// are acyclic (catalog rejects cycles), so this always terminates.
func orderBundles(products []*catalog.Product) []*catalog.Product {
	present := make(map[string]bool, len(products))
	for _, p := range products {
		present[p.ID()] = true
	}
	var out []*catalog.Product
	emitted := make(map[string]bool)
	var emit func(p *catalog.Product)
	emit = func(p *catalog.Product) {
		if emitted[p.ID()] || !present[p.ID()] {
			return
		}
		emitted[p.ID()] = true
		for _, c := range p.Components() {
			if c.Product().Kind() == catalog.KindBundle {
				emit(c.Product())
			}
		}
		out = append(out, p)
	}
	for _, p := range products {
		if p.Kind() == catalog.KindBundle {
			emit(p)
		}
	}
	return out
}
