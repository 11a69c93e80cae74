package cli

import (
	"log/slog"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/config"
	"github.com/despensa/despensa/internal/inventory"
	"github.com/despensa/despensa/internal/procurement"
	"github.com/despensa/despensa/internal/sqlstore"
	"github.com/despensa/despensa/internal/storage"
)

// app wires configuration, stores and services for one command run.
// The catalog stores come from the configured backend; sale and order
// history plus supplier assignments always live in flat files.
type app struct {
	cfg *config.Config

	products    storage.Store[*catalog.Product]
	suppliers   storage.Store[*catalog.Supplier]
	saleLog     *storage.SaleLog
	orderStore  *storage.OrderFile
	assignments *storage.Assignments

	inventory   *inventory.Service
	procurement *procurement.Service

	db *sqlstore.Store // nil for the csv backend
}

func openApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	a := &app{cfg: cfg}

	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlstore.Open(cfg.DatabasePath())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		a.db = db
		a.products = db.Products()
		a.suppliers = db.Suppliers()
	default:
		products, err := storage.NewProductFile(cfg.ProductsPath())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open product store", err)
		}
		suppliers, err := storage.NewSupplierFile(cfg.SuppliersPath())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open supplier store", err)
		}
		a.products = products
		a.suppliers = suppliers
	}

	a.saleLog, err = storage.NewSaleLog(cfg.SalesPath(), cfg.SaleLinesPath())
	if err != nil {
		a.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open sale log", err)
	}
	a.orderStore, err = storage.NewOrderFile(cfg.OrdersPath(), cfg.OrderItemsPath())
	if err != nil {
		a.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open order store", err)
	}
	a.assignments = storage.NewAssignments(cfg.AssignmentsPath())

	a.procurement = procurement.NewService(a.products, a.suppliers, a.orderStore)
	a.inventory = inventory.NewService(a.products, a.saleLog, a.procurement, a.assignments)
	return a, nil
}

// Close releases backend resources.
func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
