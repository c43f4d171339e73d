package invoiceRepo

import (
	"context"

	"discts/models"
)

// InvoiceRepository defines methods for invoice data access.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	// GetByID returns database.ErrNotFound when the invoice is absent.
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	GetAll(ctx context.Context) ([]models.Invoice, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]models.Invoice, error)
	// GetCreatedBefore returns invoices whose createdAt sorts before cutoff.
	// createdAt values are fixed-width UTC RFC 3339 strings, so string order
	// is time order.
	GetCreatedBefore(ctx context.Context, cutoff string) ([]models.Invoice, error)
	// Delete removes an invoice; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
