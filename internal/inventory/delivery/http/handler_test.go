package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Metric registration happens in the constructor, so the handler is built once
// for the whole package.
var testHandler = NewInventoryHandler(nil, nil, nil, nil, nil, nil, nil)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	wrapped := testHandler.metricsMiddleware("/api/inventory", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
	}

	got := testutil.ToFloat64(testHandler.requestCounter.WithLabelValues("GET", "/api/inventory", "200"))
	assert.Equal(t, float64(3), got)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(testHandler.requestLatency), 1)
}

func TestMetricsMiddlewareRecordsErrorStatus(t *testing.T) {
	wrapped := testHandler.metricsMiddleware("/api/warehouses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/warehouses", nil))

	got := testutil.ToFloat64(testHandler.requestCounter.WithLabelValues("POST", "/api/warehouses", "400"))
	assert.Equal(t, float64(1), got)
}
