package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector counts requests and error responses for /metrics.
type MetricsCollector struct {
	requestCount     *atomic.Int64
	errorCount       *atomic.Int64
	serverErrorCount *atomic.Int64
}

// NewMetricsCollector creates a collector that writes into the given
// counters. serverErrors may be nil.
func NewMetricsCollector(requests, errors, serverErrors *atomic.Int64) *MetricsCollector {
	if serverErrors == nil {
		serverErrors = new(atomic.Int64)
	}
	return &MetricsCollector{
		requestCount:     requests,
		errorCount:       errors,
		serverErrorCount: serverErrors,
	}
}

// Middleware counts every request; 4xx and 5xx count as errors, 5xx also as
// server errors.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= http.StatusBadRequest {
			mc.errorCount.Add(1)
		}
		if rw.statusCode >= http.StatusInternalServerError {
			mc.serverErrorCount.Add(1)
		}
	})
}
