package procurement

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/orders"
	"github.com/despensa/despensa/internal/storage"
)

// OrderStore is the persistence contract the service needs for orders.
// Satisfied by storage.OrderFile.
type OrderStore interface {
	Headers() ([]storage.OrderHeader, error)
	FindHeader(id string) (storage.OrderHeader, bool, error)
	UpsertHeader(h storage.OrderHeader) error
	AddItem(orderID, productID string, qty int) error
	Items(orderID string) ([]storage.ItemRow, error)
}

// BulkFailure reports one order a bulk operation could not advance.
type BulkFailure struct {
	OrderID string
	Err     error
}

// Service coordinates order lifecycle, persistence and stock effects.
type Service struct {
	products  storage.Store[*catalog.Product]
	suppliers storage.Store[*catalog.Supplier]
	orders    OrderStore

	newID func() string
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides order id generation. The generator returns
// the id suffix; the service prefixes "P-".
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

// NewService builds a procurement service over the given stores.
func NewService(products storage.Store[*catalog.Product], suppliers storage.Store[*catalog.Supplier], orderStore OrderStore, opts ...Option) *Service {
	s := &Service{
		products:  products,
		suppliers: suppliers,
		orders:    orderStore,
		newID:     uuid.NewString,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a fresh PENDING order addressed to the given supplier and
// persists its header. The supplier must exist.
func (s *Service) Create(supplierID string) (*orders.Order, error) {
	sup, ok, err := s.suppliers.Find(supplierID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &catalog.NotFoundError{Kind: "supplier", ID: supplierID}
	}

	ord, err := orders.New("P-"+s.newID(), sup, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpsertHeader(headerOf(ord)); err != nil {
		return nil, err
	}
	s.log.Info("order created", "order", ord.ID(), "supplier", supplierID)
	return ord, nil
}

// AddItem adds qty units of a product to a pending order and persists
// the detail row. The product must exist in the catalog; the order must
// be PENDING.
func (s *Service) AddItem(orderID, productID string, qty int) error {
	ord, err := s.Get(orderID)
	if err != nil {
		return err
	}
	p, ok, err := s.products.Find(productID)
	if err != nil {
		return err
	}
	if !ok {
		return &catalog.NotFoundError{Kind: "product", ID: productID}
	}
	if err := ord.AddItem(p, qty); err != nil {
		return err
	}
	return s.orders.AddItem(orderID, productID, qty)
}

// Send transitions a pending, non-empty order to SENT.
func (s *Service) Send(orderID string) error {
	ord, err := s.Get(orderID)
	if err != nil {
		return err
	}
	if err := ord.MarkSent(s.now()); err != nil {
		return err
	}
	if err := s.orders.UpsertHeader(headerOf(ord)); err != nil {
		return err
	}
	s.log.Info("order sent", "order", orderID)
	return nil
}

// Receive transitions a sent order to RECEIVED and applies its items to
// stock: each ordered product is restocked by the ordered quantity and
// saved. The state check happens before any stock changes, so receiving
// an order twice leaves stock untouched. Items whose product no longer
// exists in the catalog are skipped with a warning rather than
// resurrected.
func (s *Service) Receive(orderID string) error {
	ord, err := s.Get(orderID)
	if err != nil {
		return err
	}
	if err := ord.MarkReceived(s.now()); err != nil {
		return err
	}

	for _, it := range ord.Items() {
		p := it.Product()
		if p.Placeholder() {
			s.log.Warn("skipping item for product no longer in catalog", "order", orderID, "product", p.ID())
			continue
		}
		if err := p.Restock(it.Qty()); err != nil {
			return err
		}
		if err := s.products.Upsert(p); err != nil {
			return err
		}
	}

	if err := s.orders.UpsertHeader(headerOf(ord)); err != nil {
		return err
	}
	s.log.Info("order received", "order", orderID)
	return nil
}

// SendAll sends every pending order. Orders that cannot be sent (for
// example because they are empty) are reported as failures; the rest
// still go out. Returns the number of orders sent.
func (s *Service) SendAll() (int, []BulkFailure) {
	return s.bulk(orders.StatusPending, s.Send)
}

// ReceiveAll receives every sent order. Returns the number of orders
// received plus the failures.
func (s *Service) ReceiveAll() (int, []BulkFailure) {
	return s.bulk(orders.StatusSent, s.Receive)
}

func (s *Service) bulk(from orders.Status, advance func(string) error) (int, []BulkFailure) {
	headers, err := s.orders.Headers()
	if err != nil {
		return 0, []BulkFailure{{Err: err}}
	}
	var done int
	var failures []BulkFailure
	for _, h := range headers {
		if h.Status != from {
			continue
		}
		if err := advance(h.ID); err != nil {
			s.log.Warn("bulk order transition failed", "order", h.ID, "err", err)
			failures = append(failures, BulkFailure{OrderID: h.ID, Err: err})
			continue
		}
		done++
	}
	return done, failures
}

// Get loads one order, hydrated: the supplier and every item's product
// are resolved against the live stores. A supplier or product that no
// longer exists resolves to a placeholder, so reads always succeed.
func (s *Service) Get(orderID string) (*orders.Order, error) {
	h, ok, err := s.orders.FindHeader(orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &catalog.NotFoundError{Kind: "order", ID: orderID}
	}
	return s.hydrate(h)
}

// List loads every order, hydrated, in storage order.
func (s *Service) List() ([]*orders.Order, error) {
	headers, err := s.orders.Headers()
	if err != nil {
		return nil, err
	}
	out := make([]*orders.Order, 0, len(headers))
	for _, h := range headers {
		ord, err := s.hydrate(h)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, nil
}

func (s *Service) hydrate(h storage.OrderHeader) (*orders.Order, error) {
	sup, ok, err := s.suppliers.Find(h.SupplierID)
	if err != nil {
		return nil, err
	}
	if !ok {
		sup = catalog.PlaceholderSupplier(h.SupplierID)
	}

	rows, err := s.orders.Items(h.ID)
	if err != nil {
		return nil, err
	}
	items := make([]orders.Item, 0, len(rows))
	for _, r := range rows {
		p, ok, err := s.products.Find(r.ProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			p = catalog.PlaceholderProduct(r.ProductID, decimal.Zero)
		}
		it, err := orders.NewItem(p, r.Qty)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return orders.Rehydrate(h.ID, sup, h.CreatedAt, h.Status, items)
}

func headerOf(ord *orders.Order) storage.OrderHeader {
	return storage.OrderHeader{
		ID:         ord.ID(),
		SupplierID: ord.Supplier().ID(),
		CreatedAt:  ord.CreatedAt(),
		Status:     ord.Status(),
	}
}
