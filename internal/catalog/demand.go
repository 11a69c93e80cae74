package catalog

// Demand accumulates stock requirements across products before any stock is
// touched. Bundles flatten recursively into their leaf ingredients, and
// repeated references to the same product (two sale lines for one product,
// two bundles sharing an ingredient) merge-sum into one per-product total.
// That running total is what makes the check phase safe: each product is
// validated once against everything the whole operation needs from it.
type Demand struct {
	order []*Product     // leaf products, first-reference order
	need  map[string]int // product id -> total required units
}

// NewDemand creates an empty requirement set.
func NewDemand() *Demand {
	return &Demand{need: make(map[string]int)}
}

// Add records that qty units of p are required. Bundles are flattened into
// their components transitively; only leaf ingredients end up in the set.
func (d *Demand) Add(p *Product, qty int) error {
	if p == nil {
		return &ValidationError{Field: "product", Reason: "must not be nil"}
	}
	if qty <= 0 {
		return errNonPositive("quantity")
	}
	if p.kind == KindBundle {
		for _, c := range p.components {
			if err := d.Add(c.product, c.qty*qty); err != nil {
				return err
			}
		}
		return nil
	}
	if _, seen := d.need[p.id]; !seen {
		d.order = append(d.order, p)
	}
	d.need[p.id] += qty
	return nil
}

// Check validates every accumulated requirement against current stock and
// mutates nothing. The first shortfall, in first-reference order, is
// returned as an InsufficientStockError.
func (d *Demand) Check() error {
	for _, p := range d.order {
		required := d.need[p.id]
		if p.stock < required {
			return &InsufficientStockError{ProductID: p.id, Required: required, Available: p.stock}
		}
	}
	return nil
}

// Apply decrements every accumulated requirement. Callers run Check first;
// a shortfall here still aborts before touching the failing product, but
// earlier products will already have been decremented.
func (d *Demand) Apply() error {
	for _, p := range d.order {
		required := d.need[p.id]
		if p.stock < required {
			return &InsufficientStockError{ProductID: p.id, Required: required, Available: p.stock}
		}
		p.stock -= required
	}
	return nil
}

// Products returns the leaf products touched by this demand, in
// first-reference order. After Apply these are exactly the products whose
// stock changed and must be persisted.
func (d *Demand) Products() []*Product {
	out := make([]*Product, len(d.order))
	copy(out, d.order)
	return out
}

// Required returns the accumulated requirement for a product id.
func (d *Demand) Required(productID string) int {
	return d.need[productID]
}
