package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smshub/internal/metrics"
	"smshub/internal/tracing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservabilityCountsOutcomes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := metrics.NewRegistry()

	handler := Observability(logger, registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/webhook", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	assert.Equal(t, int64(3), registry.CounterValue(metrics.HTTPRequestsTotal,
		map[string]string{"path": "/webhook", "status": "401"}))
}

func TestObservabilityDefaultsToOK(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := metrics.NewRegistry()

	handler := Observability(logger, registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", nil))

	assert.Equal(t, int64(1), registry.CounterValue(metrics.HTTPRequestsTotal,
		map[string]string{"path": "/health/live", "status": "200"}))
}

func TestObservabilityInjectsRequestContext(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := metrics.NewRegistry()

	var requestID string
	handler := Observability(logger, registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = tracing.GetRequestID(r.Context())
		assert.False(t, tracing.GetStartTime(r.Context()).IsZero())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/stats", nil))
	assert.NotEmpty(t, requestID)
}
