package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discts/config"
	"discts/cron"
	"discts/database/repository"
	"discts/handlers"
	"discts/middleware"
	"discts/routes"
	"discts/services/idempotency"
	"discts/services/inventory"
	"discts/services/invoice"
	"discts/services/pdf"
	"discts/services/prediction"
	"discts/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.InitializeLogger(cfg)
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ids, err := utils.NewIDGenerator(cfg.NodeID)
	if err != nil {
		logger.Fatal("main: invalid NODE_ID", zap.Error(err))
	}

	// Record store.
	initCtx, cancelInit := context.WithTimeout(ctx, 3*time.Minute)
	stores, err := repository.Open(initCtx, cfg)
	cancelInit()
	if err != nil {
		logger.Fatal("main: failed to open record store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	logger.Info("Record store ready", zap.String("driver", stores.Driver))

	// Redis is optional; without it idempotency replay is disabled.
	var (
		claims       idempotency.Store = idempotency.Noop{}
		redisClients []*redis.Client
	)
	if cfg.RedisAddr != "" {
		client, err := utils.NewRedisClient(ctx, cfg, cfg.RedisIdempotencyDB)
		if err != nil {
			logger.Warn("main: Redis unavailable, idempotency replay disabled", zap.Error(err))
		} else {
			claims = idempotency.NewRedisStore(client, cfg.IdempotencyTTL)
			redisClients = append(redisClients, client)
			defer client.Close()
		}
	}

	// services.
	inventoryService := &inventory.DefaultInventoryService{
		Repo: stores.Products,
		IDs:  ids,
	}
	invoiceService := &invoice.DefaultInvoiceService{
		Products:    stores.Products,
		Invoices:    stores.Invoices,
		Renderer:    pdf.NewRenderer(),
		Idempotency: claims,
		IDs:         ids,
	}
	predictionService := &prediction.DefaultPredictionService{
		Gateway: prediction.NewGateway(cfg),
	}
	if !predictionService.Gateway.ScriptAvailable() {
		logger.Warn("Prediction script not found", zap.String("script", cfg.PredictionScript))
	}

	// Maintenance job.
	purgeJob := &cron.PurgeJob{
		Purger:        invoiceService,
		RetentionDays: cfg.InvoiceRetentionDays,
	}
	runner, err := cron.NewRunner(cfg, purgeJob)
	if err != nil {
		logger.Fatal("main: failed to configure retention job", zap.Error(err))
	}
	if err := runner.Start(); err != nil {
		logger.Fatal("main: failed to start retention job", zap.Error(err))
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, stores, redisClients)

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewInventoryHandler(inventoryService),
		handlers.NewInvoiceHandler(invoiceService),
		handlers.NewPredictionHandler(predictionService),
		handlers.NewAdminHandler(purgeJob),
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle, cfg)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	runner.Stop(shutdownCtx)
	stop()
	if err := stores.Close(shutdownCtx); err != nil {
		logger.Warn("main: failed to close record store", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
