package metrics

import (
	"net/http"
	"time"
)

// Metrics interface for dependency injection
type Metrics interface {
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)
	RecordAnalysis(category, routingStatus string)
	RecordDuplicate(category string)
	RecordLoadDelta(departmentID string, delta int)
	Handler() http.Handler
}

// NoOpMetrics provides a no-op implementation
type NoOpMetrics struct{}

func (m *NoOpMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (m *NoOpMetrics) RecordAnalysis(category, routingStatus string) {}
func (m *NoOpMetrics) RecordDuplicate(category string)               {}
func (m *NoOpMetrics) RecordLoadDelta(departmentID string, delta int) {}
func (m *NoOpMetrics) Handler() http.Handler                          { return http.NotFoundHandler() }

// Global metrics instance
var globalMetrics Metrics = &NoOpMetrics{}

// Init initializes metrics (no-op for now, can be extended with Prometheus)
func Init() {
}

// Handler returns the metrics handler
func Handler() http.Handler {
	return globalMetrics.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	globalMetrics.RecordHTTPRequest(method, endpoint, statusCode, duration)
}

// RecordAnalysis records one completed analysis and its routing status.
func RecordAnalysis(category, routingStatus string) {
	globalMetrics.RecordAnalysis(category, routingStatus)
}

// RecordDuplicate records a detected duplicate submission.
func RecordDuplicate(category string) {
	globalMetrics.RecordDuplicate(category)
}

// RecordLoadDelta records a department load change applied by the caller.
func RecordLoadDelta(departmentID string, delta int) {
	globalMetrics.RecordLoadDelta(departmentID, delta)
}
