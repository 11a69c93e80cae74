package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates the product variants.
type Kind string

const (
	// KindIngredient is an atomic product with its own stock and unit cost.
	KindIngredient Kind = "ingredient"

	// KindBundle is a composite product whose price and availability derive
	// from component products.
	KindBundle Kind = "bundle"
)

// Unit is an ingredient's unit of measure.
type Unit string

const (
	UnitPiece Unit = "UNIT"
	UnitKilo  Unit = "KILO"
	UnitLitre Unit = "LITRE"
)

// ParseUnit maps a stored unit name back to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitPiece, UnitKilo, UnitLitre:
		return Unit(s), nil
	}
	return "", &ValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", s)}
}

// Component binds a bundle to one of its component products with the
// quantity of that product one bundle consumes. Immutable.
type Component struct {
	product *Product
	qty     int
}

// Product returns the referenced component product.
func (c Component) Product() *Product { return c.product }

// Qty returns how many units of the component one bundle consumes.
func (c Component) Qty() int { return c.qty }

// Product is the tagged-union product type. Exactly one kind-specific
// payload is populated: unit/unitCost for ingredients, components for
// bundles. Bundles report zero for their own stock fields; their real
// availability derives from component stock.
type Product struct {
	id       string
	name     string
	stock    int
	minStock int
	kind     Kind

	// ingredient payload
	unit     Unit
	unitCost decimal.Decimal

	// bundle payload
	components []Component

	// placeholder marks a stand-in created for a dangling reference found
	// during hydration. Placeholders are never written back to storage.
	placeholder bool
}

// NewIngredient creates an atomic product. Stock counts must be
// non-negative and the unit cost must not be negative.
func NewIngredient(id, name string, stock, minStock int, unit Unit, unitCost decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errBlank("product id")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errBlank("product name")
	}
	if stock < 0 {
		return nil, &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if minStock < 0 {
		return nil, &ValidationError{Field: "minimum stock", Reason: "must not be negative"}
	}
	if _, err := ParseUnit(string(unit)); err != nil {
		return nil, err
	}
	if unitCost.IsNegative() {
		return nil, &ValidationError{Field: "unit cost", Reason: "must not be negative"}
	}
	return &Product{
		id:       id,
		name:     name,
		stock:    stock,
		minStock: minStock,
		kind:     KindIngredient,
		unit:     unit,
		unitCost: unitCost,
	}, nil
}

// NewBundle creates a composite product with no components yet.
// Components are added with AddComponent.
func NewBundle(id, name string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errBlank("product id")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errBlank("product name")
	}
	return &Product{id: id, name: name, kind: KindBundle}, nil
}

// PlaceholderProduct creates a stand-in for a product reference that could
// not be resolved against live storage. It carries the given unit cost so
// rehydrated sale lines keep a meaningful price, and zeroed stock fields.
func PlaceholderProduct(id string, unitCost decimal.Decimal) *Product {
	return &Product{
		id:          id,
		name:        "N/D",
		kind:        KindIngredient,
		unit:        UnitPiece,
		unitCost:    unitCost,
		placeholder: true,
	}
}

// ID returns the immutable product identifier.
func (p *Product) ID() string { return p.id }

// Name returns the product's display name.
func (p *Product) Name() string { return p.name }

// Rename changes the product's display name.
func (p *Product) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return errBlank("product name")
	}
	p.name = name
	return nil
}

// Kind returns the product variant.
func (p *Product) Kind() Kind { return p.kind }

// Placeholder reports whether this product is a hydration stand-in rather
// than a live catalog record.
func (p *Product) Placeholder() bool { return p.placeholder }

// Stock returns the current stock count. Always zero for bundles.
func (p *Product) Stock() int { return p.stock }

// MinStock returns the replenishment threshold. Always zero for bundles.
func (p *Product) MinStock() int { return p.minStock }

// SetMinStock changes the replenishment threshold.
func (p *Product) SetMinStock(n int) error {
	if n < 0 {
		return &ValidationError{Field: "minimum stock", Reason: "must not be negative"}
	}
	p.minStock = n
	return nil
}

// Unit returns the unit of measure. Meaningful for ingredients only.
func (p *Product) Unit() Unit { return p.unit }

// UnitCost returns the cost per unit. Meaningful for ingredients only.
func (p *Product) UnitCost() decimal.Decimal { return p.unitCost }

// Components returns a copy of the bundle's component list.
// Empty for ingredients.
func (p *Product) Components() []Component {
	out := make([]Component, len(p.components))
	copy(out, p.components)
	return out
}

// AddComponent appends a component to a bundle. Repeated adds of the same
// product append further entries; Demand flattening merge-sums them.
// Adding a component that transitively contains the bundle itself is
// rejected, since a cyclic bundle has no well-defined price.
func (p *Product) AddComponent(component *Product, qty int) error {
	if p.kind != KindBundle {
		return &ValidationError{Field: "product", Reason: "only bundles have components"}
	}
	if component == nil {
		return &ValidationError{Field: "component", Reason: "must not be nil"}
	}
	if qty <= 0 {
		return errNonPositive("component quantity")
	}
	if component == p || component.contains(p) {
		return &ValidationError{Field: "component", Reason: "bundle may not contain itself"}
	}
	p.components = append(p.components, Component{product: component, qty: qty})
	return nil
}

// contains reports whether p transitively references target as a component.
func (p *Product) contains(target *Product) bool {
	for _, c := range p.components {
		if c.product == target || c.product.contains(target) {
			return true
		}
	}
	return false
}

// Price returns the selling price: the unit cost for an ingredient, or the
// recursive sum of component prices times quantities for a bundle.
func (p *Product) Price() decimal.Decimal {
	if p.kind == KindIngredient {
		return p.unitCost
	}
	total := decimal.Zero
	for _, c := range p.components {
		total = total.Add(c.product.Price().Mul(decimal.NewFromInt(int64(c.qty))))
	}
	return total
}

// Restock increases the stock count. Receiving a replenishment order is
// the usual caller.
func (p *Product) Restock(n int) error {
	if n <= 0 {
		return errNonPositive("quantity")
	}
	p.stock += n
	return nil
}

// Deduct removes n units of this product. For an ingredient this checks
// and decrements its own stock. For a bundle it is a two-phase operation:
// every transitive leaf requirement is validated first, and only if all of
// them hold is any component decremented. On failure nothing is mutated.
func (p *Product) Deduct(n int) error {
	if n <= 0 {
		return errNonPositive("quantity")
	}
	d := NewDemand()
	if err := d.Add(p, n); err != nil {
		return err
	}
	if err := d.Check(); err != nil {
		return err
	}
	return d.Apply()
}
