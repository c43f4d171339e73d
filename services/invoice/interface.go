package invoice

import (
	"context"
	"time"

	invoiceRepo "discts/database/repository/invoice"
	productRepo "discts/database/repository/product"
	"discts/models"
	"discts/services/idempotency"
	"discts/utils"
)

// TaxRate is the GST rate applied to every invoice.
const TaxRate = "0.18"

// InvoiceService defines invoice operations.
type InvoiceService interface {
	// CreateInvoice runs the full sale. A non-empty idempotencyKey makes
	// retries return the invoice created by the first attempt.
	CreateInvoice(ctx context.Context, req models.InvoiceRequest, idempotencyKey string) (*Result, error)
	GetAllInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoiceByID(ctx context.Context, id string) (*Result, error)
	GetInvoicesByCustomer(ctx context.Context, customerID string) ([]models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
	// DownloadInvoicePdf re-renders the stored invoice on every call.
	DownloadInvoicePdf(ctx context.Context, id string) ([]byte, error)
	// PurgeOlderThan deletes invoices created before cutoff.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (PurgeResult, error)
}

// Renderer turns an invoice into a PDF document.
type Renderer interface {
	Render(invoice models.Invoice) ([]byte, error)
}

// Result is an invoice together with its rendered PDF.
type Result struct {
	Invoice *models.Invoice
	PDF     []byte
	// Replayed is set when the invoice came from an earlier request with
	// the same idempotency key.
	Replayed bool
}

// PurgeResult summarises one retention run.
type PurgeResult struct {
	Matched int `json:"matched"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// DefaultInvoiceService implements InvoiceService.
type DefaultInvoiceService struct {
	Products    productRepo.ProductRepository
	Invoices    invoiceRepo.InvoiceRepository
	Renderer    Renderer
	Idempotency idempotency.Store
	IDs         *utils.IDGenerator
	Now         func() time.Time
}

func (s *DefaultInvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultInvoiceService) ids() *utils.IDGenerator {
	if s.IDs != nil {
		return s.IDs
	}
	return utils.DefaultIDGenerator()
}

func (s *DefaultInvoiceService) claims() idempotency.Store {
	if s.Idempotency != nil {
		return s.Idempotency
	}
	return idempotency.Noop{}
}
