package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playcheck/internal/handlers"
	"playcheck/internal/metrics"
	"playcheck/internal/middleware"
	"playcheck/internal/models"
)

type echoRunner struct{}

func (echoRunner) Run(_ context.Context, state *models.SessionState) *models.SessionState {
	state.Append(models.NewAssistantTurn("echo: " + state.Turns[0].Content))
	return state
}

func newTestRouter(t *testing.T, perMinute int) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.New(reg).ObserveExchange("answered")
	limiter := middleware.NewRateLimiter(perMinute, time.Minute)
	t.Cleanup(limiter.Stop)
	return New(handlers.NewCheckHandler(echoRunner{}, time.Minute), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), limiter)
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, 10).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, 10).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "playcheck_exchanges_total")
}

func TestRouter_CheckAndRateLimit(t *testing.T) {
	r := newTestRouter(t, 1)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", bytes.NewReader([]byte(`{"message":"Hades?"}`)))
		req.RemoteAddr = "192.0.2.1:5555"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	first := send()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "echo: Hades?")

	assert.Equal(t, http.StatusTooManyRequests, send().Code)
}

func TestRouter_CheckRejectsGet(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, 10).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/check", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
