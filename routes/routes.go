package routes

import (
	"time"

	"discts/config"
	"discts/handlers"
	"discts/metrics"
	"discts/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterInventoryRoutes registers product endpoints.
func RegisterInventoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/discts/inventory")
	{
		api.POST("/add", hb.AddItemHandler)
		api.GET("/items", hb.GetItemsHandler)
		api.GET("/expiring-soon", hb.ExpiringSoonHandler)
		api.GET("/items/:id", hb.GetItemHandler)
		api.PUT("/update-stock/:id", hb.UpdateStockHandler)
		api.PUT("/update/:id", hb.UpdateItemHandler)
		api.DELETE("/delete-item/:id", hb.DeleteItemHandler)
	}
}

// RegisterOrderRoutes registers invoice endpoints.
func RegisterOrderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/discts/order")
	{
		api.POST("/create-order", hb.CreateOrderHandler)
		api.GET("/all-invoices", hb.GetAllInvoicesHandler)
		api.GET("/invoice/:id", hb.GetInvoiceHandler)
		api.GET("/invoice/:id/pdf", hb.DownloadPdfHandler)
		api.GET("/invoice-by-cusID/:customerId", hb.GetCustomerInvoicesHandler)
		api.DELETE("/delete-invoice/:id", hb.DeleteInvoiceHandler)
	}
}

// RegisterPredictionRoutes registers the sales prediction endpoints.
func RegisterPredictionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/discts/prediction")
	{
		api.POST("/predict", hb.PredictHandler)
		api.GET("/", hb.PredictionHealthHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for maintenance operations behind
// the admin bearer token.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminToken string) {
	adminGroup := r.Group("/discts/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware(adminToken))
		adminGroup.POST("/maintenance/purge-invoices", hb.PurgeInvoicesHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", metrics.Handler())
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(metrics.Middleware())

	RegisterInventoryRoutes(r, hb)
	RegisterOrderRoutes(r, hb)
	RegisterPredictionRoutes(r, hb)
	RegisterAdminRoutes(r, hb, cfg.AdminToken)
	RegisterHealthRoute(r, hb)
}
