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
var testHandler = NewOrderHandler(nil, nil, nil, nil, nil, nil, nil, nil, nil)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	wrapped := testHandler.metricsMiddleware("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/orders", nil))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/orders", nil))

	got := testutil.ToFloat64(testHandler.requestCounter.WithLabelValues("POST", "/api/orders", "201"))
	assert.Equal(t, float64(2), got)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(testHandler.requestLatency), 1)
}

func TestMetricsMiddlewareSplitsByStatus(t *testing.T) {
	ok := testHandler.metricsMiddleware("/api/orders/my", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	notFound := testHandler.metricsMiddleware("/api/orders/my", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/my", nil))
	notFound.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/my", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(testHandler.requestCounter.WithLabelValues("GET", "/api/orders/my", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(testHandler.requestCounter.WithLabelValues("GET", "/api/orders/my", "404")))
}
