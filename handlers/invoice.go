package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"discts/models"
	"discts/services/invoice"
	"discts/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// InvoiceHandler serves the order endpoints.
type InvoiceHandler struct {
	Service invoice.InvoiceService
}

func NewInvoiceHandler(svc invoice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: svc}
}

// invoiceWithPdf is an invoice plus its PDF as base64.
type invoiceWithPdf struct {
	models.Invoice
	PDF string `json:"pdf"`
}

func withPdf(res *invoice.Result) invoiceWithPdf {
	return invoiceWithPdf{Invoice: *res.Invoice, PDF: base64.StdEncoding.EncodeToString(res.PDF)}
}

// CreateOrderHandler handles POST /discts/order/create-order.
func (h *InvoiceHandler) CreateOrderHandler(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewAppError(utils.KindValidation, "Invalid request body", err))
		return
	}

	res, err := h.Service.CreateInvoice(c.Request.Context(), req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if res.Replayed {
		getLogger(c).Info("Replayed invoice for idempotency key", zap.String("invoiceId", res.Invoice.InvoiceID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice already created", "invoice": withPdf(res)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Invoice created successfully", "invoice": withPdf(res)})
}

// GetAllInvoicesHandler handles GET /discts/order/all-invoices.
func (h *InvoiceHandler) GetAllInvoicesHandler(c *gin.Context) {
	invoices, err := h.Service.GetAllInvoices(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "invoices": invoices})
}

// GetInvoiceHandler handles GET /discts/order/invoice/:id.
func (h *InvoiceHandler) GetInvoiceHandler(c *gin.Context) {
	res, err := h.Service.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "invoice": withPdf(res)})
}

// GetCustomerInvoicesHandler handles GET /discts/order/invoice-by-cusID/:customerId.
func (h *InvoiceHandler) GetCustomerInvoicesHandler(c *gin.Context) {
	invoices, err := h.Service.GetInvoicesByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "invoices": invoices})
}

// DownloadPdfHandler handles GET /discts/order/invoice/:id/pdf.
func (h *InvoiceHandler) DownloadPdfHandler(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.Service.DownloadInvoicePdf(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoice-%s.pdf\"", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// DeleteInvoiceHandler handles DELETE /discts/order/delete-invoice/:id.
func (h *InvoiceHandler) DeleteInvoiceHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.DeleteInvoice(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Invoice deleted", zap.String("invoiceId", id))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Invoice %s deleted successfully", id)})
}
