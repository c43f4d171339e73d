package repository

import (
	"context"
	"fmt"

	"discts/config"
	"discts/database"
	invoiceRepo "discts/database/repository/invoice"
	productRepo "discts/database/repository/product"

	"go.uber.org/zap"
)

// Re-export the repository interfaces.
type ProductRepository = productRepo.ProductRepository

type InvoiceRepository = invoiceRepo.InvoiceRepository

// Stores bundles the two logical tables of the record store.
type Stores struct {
	Products ProductRepository
	Invoices InvoiceRepository
	Driver   string

	closeFn func(ctx context.Context) error
}

// Close releases the underlying client, if any.
func (s *Stores) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// Ping checks both tables are reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if err := s.Products.Ping(ctx); err != nil {
		return fmt.Errorf("products store: %w", err)
	}
	if err := s.Invoices.Ping(ctx); err != nil {
		return fmt.Errorf("invoices store: %w", err)
	}
	return nil
}

// NewMemoryStores returns empty in-memory stores.
func NewMemoryStores() *Stores {
	return &Stores{
		Products: productRepo.NewMemoryProductRepo(),
		Invoices: invoiceRepo.NewMemoryInvoiceRepo(),
		Driver:   "memory",
	}
}

// Open connects to the record store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case "dynamodb":
		client, err := database.NewDynamoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		err = database.EnsureTables(ctx, client,
			database.TableSpec{Name: cfg.ProductsTable, HashKey: "productId"},
			database.TableSpec{Name: cfg.InvoicesTable, HashKey: "invoiceId"},
		)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Products: productRepo.NewDynamoProductRepo(client, cfg.ProductsTable),
			Invoices: invoiceRepo.NewDynamoInvoiceRepo(client, cfg.InvoicesTable),
			Driver:   cfg.StoreDriver,
		}, nil

	case "mongo":
		client, err := database.InitMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DatabaseName)
		products, err := productRepo.NewMongoProductRepo(db, cfg.ProductsTable)
		if err != nil {
			return nil, err
		}
		invoices, err := invoiceRepo.NewMongoInvoiceRepo(db, cfg.InvoicesTable)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Products: products,
			Invoices: invoices,
			Driver:   cfg.StoreDriver,
			closeFn:  client.Disconnect,
		}, nil

	case "memory":
		zap.L().Warn("Using in-memory record store; data is lost on restart")
		return NewMemoryStores(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
