package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	fraudAnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_fraud_analyses_total",
			Help: "Total number of completed claim fraud analyses",
		},
		[]string{"risk_level"},
	)

	documentUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_document_uploads_total",
			Help: "Total number of uploaded claim documents",
		},
		[]string{"document_type"},
	)
)

// Metrics middleware records Prometheus metrics
func Metrics(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		method := c.Request.Method

		if endpoint == "" {
			endpoint = "not_found"
		}

		httpRequestsTotal.WithLabelValues(serviceName, method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(serviceName, method, endpoint, status).Observe(duration)
	}
}

// RecordFraudAnalysis counts a completed fraud analysis by risk level.
func RecordFraudAnalysis(riskLevel string) {
	fraudAnalysesTotal.WithLabelValues(riskLevel).Inc()
}

// RecordDocumentUpload counts an accepted document upload by inferred type.
func RecordDocumentUpload(documentType string) {
	documentUploadsTotal.WithLabelValues(documentType).Inc()
}
