package invoice

import (
	"context"
	"errors"
	"strings"

	"discts/database"
	"discts/metrics"
	"discts/models"
	"discts/utils"

	"go.uber.org/zap"
)

type appliedDecrement struct {
	productID string
	quantity  int
}

// CreateInvoice validates the request, resolves and checks every line,
// decrements stock conditionally, persists the invoice and renders it.
// Stock is restored when the sale fails before the invoice is stored.
func (s *DefaultInvoiceService) CreateInvoice(ctx context.Context, req models.InvoiceRequest, idempotencyKey string) (*Result, error) {
	if idempotencyKey != "" {
		existing, claimed, err := s.claims().Claim(ctx, idempotencyKey)
		if err != nil {
			return nil, utils.StoreError("Error checking idempotency key", err)
		}
		if !claimed {
			if existing == "" {
				return nil, &utils.AppError{Kind: utils.KindConflict, Message: "Request in progress", Details: "idempotency key " + idempotencyKey}
			}
			res, err := s.GetInvoiceByID(ctx, existing)
			if err != nil {
				return nil, err
			}
			res.Replayed = true
			return res, nil
		}
	}

	invoice, err := s.createInvoice(ctx, req)
	if err != nil {
		metrics.InvoiceFailures.WithLabelValues(string(kindOrUnknown(err))).Inc()
		if idempotencyKey != "" {
			if relErr := s.claims().Release(context.WithoutCancel(ctx), idempotencyKey); relErr != nil {
				zap.L().Warn("Failed to release idempotency key", zap.String("key", idempotencyKey), zap.Error(relErr))
			}
		}
		return nil, err
	}
	metrics.InvoicesCreated.Inc()

	if idempotencyKey != "" {
		s.completeClaim(context.WithoutCancel(ctx), idempotencyKey, invoice.InvoiceID)
	}

	pdf, err := s.Renderer.Render(*invoice)
	if err != nil {
		metrics.InvoiceFailures.WithLabelValues(string(utils.KindRender)).Inc()
		zap.L().Error("Invoice stored but PDF rendering failed", zap.String("invoiceId", invoice.InvoiceID), zap.Error(err))
		return nil, &utils.AppError{
			Kind:    utils.KindRender,
			Message: "Invoice created but PDF generation failed",
			Details: "invoiceId: " + invoice.InvoiceID,
			Err:     err,
		}
	}
	return &Result{Invoice: invoice, PDF: pdf}, nil
}

// completeClaim records the invoice under key, retrying once. If both
// writes fail the pending claim lapses on its own TTL.
func (s *DefaultInvoiceService) completeClaim(ctx context.Context, key, invoiceID string) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = s.claims().Complete(ctx, key, invoiceID); err == nil {
			return
		}
	}
	zap.L().Error("Failed to record idempotency key", zap.String("key", key), zap.String("invoiceId", invoiceID), zap.Error(err))
}

func (s *DefaultInvoiceService) createInvoice(ctx context.Context, req models.InvoiceRequest) (*models.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	lines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if err := checkStock(lines); err != nil {
		return nil, err
	}

	items, total, tax, grandTotal := buildItems(lines)

	applied, err := s.decrementStock(ctx, lines)
	if err != nil {
		s.compensate(ctx, applied)
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceID:       s.ids().New("inv"),
		CustomerID:      strings.TrimSpace(req.CustomerID),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		Total:           total.InexactFloat64(),
		Tax:             tax.InexactFloat64(),
		GrandTotal:      grandTotal.InexactFloat64(),
		CreatedAt:       s.now().UTC().Format(models.CreatedAtLayout),
		Status:          models.InvoicePaid,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
	}
	if invoice.CustomerID == "" {
		invoice.CustomerID = s.ids().New("cust")
	}
	if invoice.PaymentMethod == "" {
		invoice.PaymentMethod = "cash"
	}

	if err := s.Invoices.Create(ctx, invoice); err != nil {
		s.compensate(ctx, applied)
		return nil, utils.StoreError("Error creating invoice", err)
	}

	zap.L().Info("Invoice created",
		zap.String("invoiceId", invoice.InvoiceID),
		zap.String("customerId", invoice.CustomerID),
		zap.Int("lines", len(items)),
		zap.Float64("grandTotal", invoice.GrandTotal),
	)
	return invoice, nil
}

// decrementStock applies one conditional decrement per line and returns
// the decrements that succeeded, including when it fails part way.
func (s *DefaultInvoiceService) decrementStock(ctx context.Context, lines []resolvedLine) ([]appliedDecrement, error) {
	applied := make([]appliedDecrement, 0, len(lines))
	for _, line := range lines {
		id := line.product.ProductID
		_, err := s.Products.DecrementStock(ctx, id, line.quantity)
		switch {
		case err == nil:
			applied = append(applied, appliedDecrement{productID: id, quantity: line.quantity})
		case errors.Is(err, database.ErrConditionFailed):
			available := 0
			if current, getErr := s.Products.GetByID(ctx, id); getErr == nil {
				available = current.Stock
			}
			return applied, insufficientStock(line.product.Name, line.quantity, available)
		case errors.Is(err, database.ErrNotFound):
			return applied, utils.NotFoundError("Product not found: " + id)
		default:
			return applied, utils.StoreError("Error updating stock", err)
		}
	}
	return applied, nil
}

// compensate re-increments stock taken by a failed sale. It keeps going
// after the request context is cancelled.
func (s *DefaultInvoiceService) compensate(ctx context.Context, applied []appliedDecrement) {
	ctx = context.WithoutCancel(ctx)
	for _, d := range applied {
		if err := s.Products.IncrementStock(ctx, d.productID, d.quantity); err != nil {
			metrics.StockCompensations.WithLabelValues("failed").Inc()
			zap.L().Error("Failed to restore stock",
				zap.String("productId", d.productID),
				zap.Int("quantity", d.quantity),
				zap.Error(err),
			)
			continue
		}
		metrics.StockCompensations.WithLabelValues("restored").Inc()
	}
}

func kindOrUnknown(err error) utils.ErrorKind {
	if kind := utils.KindOf(err); kind != "" {
		return kind
	}
	return "Unknown"
}
