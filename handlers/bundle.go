package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Inventory endpoints
	AddItemHandler      gin.HandlerFunc
	GetItemsHandler     gin.HandlerFunc
	GetItemHandler      gin.HandlerFunc
	ExpiringSoonHandler gin.HandlerFunc
	UpdateStockHandler  gin.HandlerFunc
	UpdateItemHandler   gin.HandlerFunc
	DeleteItemHandler   gin.HandlerFunc

	// Order endpoints
	CreateOrderHandler         gin.HandlerFunc
	GetAllInvoicesHandler      gin.HandlerFunc
	GetInvoiceHandler          gin.HandlerFunc
	GetCustomerInvoicesHandler gin.HandlerFunc
	DownloadPdfHandler         gin.HandlerFunc
	DeleteInvoiceHandler       gin.HandlerFunc

	// Prediction endpoints
	PredictHandler          gin.HandlerFunc
	PredictionHealthHandler gin.HandlerFunc

	// Admin endpoints
	PurgeInvoicesHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(inv *InventoryHandler, orders *InvoiceHandler, pred *PredictionHandler, admin *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		AddItemHandler:      inv.AddItemHandler,
		GetItemsHandler:     inv.GetItemsHandler,
		GetItemHandler:      inv.GetItemHandler,
		ExpiringSoonHandler: inv.ExpiringSoonHandler,
		UpdateStockHandler:  inv.UpdateStockHandler,
		UpdateItemHandler:   inv.UpdateItemHandler,
		DeleteItemHandler:   inv.DeleteItemHandler,

		CreateOrderHandler:         orders.CreateOrderHandler,
		GetAllInvoicesHandler:      orders.GetAllInvoicesHandler,
		GetInvoiceHandler:          orders.GetInvoiceHandler,
		GetCustomerInvoicesHandler: orders.GetCustomerInvoicesHandler,
		DownloadPdfHandler:         orders.DownloadPdfHandler,
		DeleteInvoiceHandler:       orders.DeleteInvoiceHandler,

		PredictHandler:          pred.PredictHandler,
		PredictionHealthHandler: pred.HealthHandler,

		PurgeInvoicesHandler: admin.PurgeInvoicesHandler,

		HealthHandler: HealthHandler,
	}
}
