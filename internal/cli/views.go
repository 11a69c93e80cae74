package cli

import (
	"time"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/orders"
	"github.com/despensa/despensa/internal/sales"
)

// View structs shape entities for JSON output. Monetary values are
// emitted as decimal strings to keep them exact.

type componentView struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type productView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Stock       int             `json:"stock,omitempty"`
	MinStock    int             `json:"min_stock,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	UnitCost    string          `json:"unit_cost,omitempty"`
	Price       string          `json:"price"`
	Components  []componentView `json:"components,omitempty"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

func viewProduct(p *catalog.Product) productView {
	v := productView{
		ID:          p.ID(),
		Name:        p.Name(),
		Kind:        string(p.Kind()),
		Price:       p.Price().String(),
		Placeholder: p.Placeholder(),
	}
	if p.Kind() == catalog.KindIngredient {
		v.Stock = p.Stock()
		v.MinStock = p.MinStock()
		v.Unit = string(p.Unit())
		v.UnitCost = p.UnitCost().String()
	}
	for _, c := range p.Components() {
		v.Components = append(v.Components, componentView{ProductID: c.Product().ID(), Qty: c.Qty()})
	}
	return v
}

type supplierView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

func viewSupplier(s *catalog.Supplier) supplierView {
	return supplierView{
		ID:          s.ID(),
		Name:        s.Name(),
		Contact:     s.Contact(),
		Placeholder: s.Placeholder(),
	}
}

type saleLineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type saleView struct {
	ID    string         `json:"id"`
	At    string         `json:"at"`
	Lines []saleLineView `json:"lines"`
	Total string         `json:"total"`
}

func viewSale(s *sales.Sale) saleView {
	v := saleView{
		ID:    s.ID(),
		At:    s.At().Format(time.RFC3339),
		Total: s.Total().String(),
	}
	for _, l := range s.Lines() {
		v.Lines = append(v.Lines, saleLineView{
			ProductID: l.Product().ID(),
			Name:      l.Product().Name(),
			Qty:       l.Qty(),
			UnitPrice: l.UnitPrice().String(),
			Subtotal:  l.Subtotal().String(),
		})
	}
	return v
}

type orderItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
}

type orderView struct {
	ID        string          `json:"id"`
	Supplier  supplierView    `json:"supplier"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	Items     []orderItemView `json:"items"`
}

func viewOrder(o *orders.Order) orderView {
	v := orderView{
		ID:        o.ID(),
		Supplier:  viewSupplier(o.Supplier()),
		Status:    string(o.Status()),
		CreatedAt: o.CreatedAt().Format(time.RFC3339),
	}
	for _, it := range o.Items() {
		v.Items = append(v.Items, orderItemView{
			ProductID: it.Product().ID(),
			Name:      it.Product().Name(),
			Qty:       it.Qty(),
		})
	}
	return v
}
