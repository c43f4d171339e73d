package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"discts/database"
	"discts/metrics"
	"discts/models"
	"discts/utils"

	"go.uber.org/zap"
)

func (s *DefaultInvoiceService) GetAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.Invoices.GetAll(ctx)
	if err != nil {
		return nil, utils.StoreError("Error retrieving invoices", err)
	}
	return invoices, nil
}

func (s *DefaultInvoiceService) getInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.Invoices.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFoundError("Invoice not found")
	}
	if err != nil {
		return nil, utils.StoreError("Error retrieving invoice", err)
	}
	return invoice, nil
}

func (s *DefaultInvoiceService) render(invoice *models.Invoice) ([]byte, error) {
	pdf, err := s.Renderer.Render(*invoice)
	if err != nil {
		return nil, &utils.AppError{
			Kind:    utils.KindRender,
			Message: "Error generating invoice PDF",
			Details: "invoiceId: " + invoice.InvoiceID,
			Err:     err,
		}
	}
	return pdf, nil
}

// GetInvoiceByID returns the invoice and a freshly rendered PDF.
func (s *DefaultInvoiceService) GetInvoiceByID(ctx context.Context, id string) (*Result, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.render(invoice)
	if err != nil {
		return nil, err
	}
	return &Result{Invoice: invoice, PDF: pdf}, nil
}

func (s *DefaultInvoiceService) GetInvoicesByCustomer(ctx context.Context, customerID string) ([]models.Invoice, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, utils.ValidationError("Customer ID is required")
	}
	invoices, err := s.Invoices.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, utils.StoreError("Error retrieving invoices", err)
	}
	return invoices, nil
}

func (s *DefaultInvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.Invoices.Delete(ctx, id); err != nil {
		return utils.StoreError("Error deleting invoice", err)
	}
	return nil
}

func (s *DefaultInvoiceService) DownloadInvoicePdf(ctx context.Context, id string) ([]byte, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(invoice)
}

// PurgeOlderThan deletes, one at a time, every invoice created before
// cutoff. A failed delete is logged and counted; the run carries on.
func (s *DefaultInvoiceService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (PurgeResult, error) {
	var result PurgeResult
	bound := cutoff.UTC().Format(models.CreatedAtLayout)

	stale, err := s.Invoices.GetCreatedBefore(ctx, bound)
	if err != nil {
		return result, utils.StoreError("Error scanning invoices", err)
	}
	result.Matched = len(stale)

	for _, inv := range stale {
		if err := s.Invoices.Delete(ctx, inv.InvoiceID); err != nil {
			result.Failed++
			metrics.InvoicesPurged.WithLabelValues("failed").Inc()
			zap.L().Error("Failed to delete expired invoice", zap.String("invoiceId", inv.InvoiceID), zap.Error(err))
			continue
		}
		result.Deleted++
		metrics.InvoicesPurged.WithLabelValues("deleted").Inc()
	}

	zap.L().Info("Invoice retention run finished",
		zap.String("cutoff", bound),
		zap.Int("matched", result.Matched),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
