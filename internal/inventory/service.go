package inventory

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/procurement"
	"github.com/despensa/despensa/internal/sales"
	"github.com/despensa/despensa/internal/storage"
)

// SaleStore is the persistence contract for the sale log. Satisfied by
// storage.SaleLog.
type SaleStore interface {
	Append(sale *sales.Sale) error
	Headers() ([]storage.SaleHeader, error)
	Lines() ([]storage.SaleLineRow, error)
}

// SupplierDirectory resolves a product to its configured supplier.
// Satisfied by storage.Assignments.
type SupplierDirectory interface {
	SupplierOf(productID string) (string, bool)
}

// Service is the catalog-facing application service.
type Service struct {
	products    storage.Store[*catalog.Product]
	saleLog     SaleStore
	procurement *procurement.Service
	assignments SupplierDirectory

	newID func() string
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides sale id generation. The generator returns
// the id suffix; the service prefixes "S-".
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger overrides the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService builds an inventory service. The procurement service is
// used only by the replenishment trigger to open orders.
func NewService(products storage.Store[*catalog.Product], saleLog SaleStore, proc *procurement.Service, assignments SupplierDirectory, opts ...Option) *Service {
	s := &Service{
		products:    products,
		saleLog:     saleLog,
		procurement: proc,
		assignments: assignments,
		newID:       uuid.NewString,
		now:         time.Now,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveProduct inserts or replaces a product in the catalog.
func (s *Service) SaveProduct(p *catalog.Product) error {
	if p == nil {
		return &catalog.ValidationError{Field: "product", Reason: "must not be nil"}
	}
	return s.products.Upsert(p)
}

// RemoveProduct deletes a product. Removing an unknown id is a no-op.
func (s *Service) RemoveProduct(id string) error {
	return s.products.Delete(id)
}

// Products returns the whole catalog.
func (s *Service) Products() ([]*catalog.Product, error) {
	return s.products.List()
}

// Product returns one product by id.
func (s *Service) Product(id string) (*catalog.Product, error) {
	p, ok, err := s.products.Find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &catalog.NotFoundError{Kind: "product", ID: id}
	}
	return p, nil
}

// RegisterSale runs the two-phase sale protocol over the given requests.
//
// The demand of all lines is aggregated first, so two lines for the same
// product (or two bundles sharing an ingredient) are checked against
// stock as one total. If any product falls short the sale is rejected
// with an InsufficientStockError and nothing changes. Otherwise stock is
// deducted, the sale is composed with current unit prices, appended to
// the log, and every touched product is saved.
func (s *Service) RegisterSale(requests []sales.Request) (*sales.Sale, error) {
	if len(requests) == 0 {
		return nil, &catalog.ValidationError{Field: "sale lines", Reason: "must not be empty"}
	}

	all, err := s.products.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*catalog.Product, len(all))
	for _, p := range all {
		byID[p.ID()] = p
	}

	demand := catalog.NewDemand()
	for _, req := range requests {
		p, ok := byID[req.ProductID()]
		if !ok {
			return nil, &catalog.NotFoundError{Kind: "product", ID: req.ProductID()}
		}
		if err := demand.Add(p, req.Qty()); err != nil {
			return nil, err
		}
	}
	if err := demand.Check(); err != nil {
		return nil, err
	}
	if err := demand.Apply(); err != nil {
		return nil, err
	}

	sale, err := sales.Compose("S-"+s.newID(), s.now(), requests, func(id string) *catalog.Product {
		return byID[id]
	})
	if err != nil {
		return nil, err
	}
	if err := s.saleLog.Append(sale); err != nil {
		return nil, err
	}
	for _, p := range demand.Products() {
		if err := s.products.Upsert(p); err != nil {
			return nil, err
		}
	}
	s.log.Info("sale registered", "sale", sale.ID(), "lines", len(requests), "total", sale.Total())
	return sale, nil
}

// Sales returns every recorded sale, hydrated: lines are grouped under
// their header and each product reference is resolved against the live
// catalog. A product that no longer exists resolves to a placeholder
// carrying the unit price stored at sale time.
func (s *Service) Sales() ([]*sales.Sale, error) {
	headers, err := s.saleLog.Headers()
	if err != nil {
		return nil, err
	}
	rows, err := s.saleLog.Lines()
	if err != nil {
		return nil, err
	}

	all, err := s.products.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*catalog.Product, len(all))
	for _, p := range all {
		byID[p.ID()] = p
	}

	bySale := make(map[string][]sales.Line)
	for _, r := range rows {
		p, ok := byID[r.ProductID]
		if !ok {
			p = catalog.PlaceholderProduct(r.ProductID, r.UnitPrice)
		}
		line, err := sales.NewLine(p, r.Qty, r.UnitPrice)
		if err != nil {
			s.log.Warn("skipping unusable sale line", "sale", r.SaleID, "product", r.ProductID, "err", err)
			continue
		}
		bySale[r.SaleID] = append(bySale[r.SaleID], line)
	}

	out := make([]*sales.Sale, 0, len(headers))
	for _, h := range headers {
		lines := bySale[h.ID]
		if len(lines) == 0 {
			s.log.Warn("skipping sale header without lines", "sale", h.ID)
			continue
		}
		sale, err := sales.Rehydrate(h.ID, h.At, lines)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, nil
}

// Replenish opens a replenishment order for a product whose stock has
// fallen below its minimum: one order for the product's configured
// supplier, requesting exactly the shortfall. A product at or above its
// minimum, or without a configured supplier, is a no-op. Returns the id
// of the order created, or the empty string when nothing was needed.
func (s *Service) Replenish(p *catalog.Product) (string, error) {
	if p == nil {
		return "", &catalog.ValidationError{Field: "product", Reason: "must not be nil"}
	}
	if p.Kind() != catalog.KindIngredient {
		return "", nil
	}
	if p.Stock() >= p.MinStock() {
		return "", nil
	}
	supplierID, ok := s.assignments.SupplierOf(p.ID())
	if !ok {
		s.log.Warn("product below minimum has no supplier configured", "product", p.ID())
		return "", nil
	}

	shortfall := p.MinStock() - p.Stock()
	ord, err := s.procurement.Create(supplierID)
	if err != nil {
		return "", err
	}
	if err := s.procurement.AddItem(ord.ID(), p.ID(), shortfall); err != nil {
		return "", err
	}
	s.log.Info("replenishment order opened", "order", ord.ID(), "product", p.ID(), "qty", shortfall)
	return ord.ID(), nil
}

// ReplenishAll runs the replenishment trigger over the whole catalog.
// Each product below its minimum yields its own order. Returns the ids
// of the orders created.
func (s *Service) ReplenishAll() ([]string, error) {
	all, err := s.products.List()
	if err != nil {
		return nil, err
	}
	var created []string
	for _, p := range all {
		id, err := s.Replenish(p)
		if err != nil {
			return created, err
		}
		if id != "" {
			created = append(created, id)
		}
	}
	return created, nil
}
