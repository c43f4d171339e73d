package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discts_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discts_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// InvoicesCreated counts invoices persisted.
	InvoicesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "discts_invoices_created_total",
		Help: "Invoices successfully persisted",
	})

	// InvoiceFailures counts failed invoice creations by error kind.
	InvoiceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discts_invoice_failures_total",
		Help: "Failed invoice creations by error kind",
	}, []string{"kind"})

	// StockCompensations counts decrements rolled back after a failed sale.
	StockCompensations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discts_stock_compensations_total",
		Help: "Stock decrements re-incremented after a failed invoice, by outcome",
	}, []string{"outcome"})

	// InvoicesPurged counts invoices handled by the retention job.
	InvoicesPurged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discts_invoices_purged_total",
		Help: "Invoices removed by the retention job, by outcome",
	}, []string{"outcome"})

	// PredictionDuration observes prediction script runs by outcome.
	PredictionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "discts_prediction_duration_seconds",
		Help:    "Prediction script run time",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		InvoicesCreated,
		InvoiceFailures,
		StockCompensations,
		InvoicesPurged,
		PredictionDuration,
	)
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
