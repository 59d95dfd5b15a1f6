package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	h := rl.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_SeparateVisitors(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := rl.Middleware(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func serveFrom(h http.Handler, addr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", nil)
	req.RemoteAddr = addr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_SameIPAcrossPorts(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := rl.Middleware(okHandler())

	codes := []int{
		serveFrom(h, "10.0.0.9:1001"),
		serveFrom(h, "10.0.0.9:1002"),
		serveFrom(h, "10.0.0.9:1003"),
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_BareAddressFromRealIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, serveFrom(h, "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "203.0.113.7"))
}

func TestRateLimiter_RetryingDoesNotExtendWindow(t *testing.T) {
	rl := NewRateLimiter(1, 100*time.Millisecond)
	defer rl.Stop()

	clock := time.Unix(1_700_000_000, 0)
	rl.mu.Lock()
	rl.now = func() time.Time { return clock }
	rl.mu.Unlock()
	h := rl.Middleware(okHandler())

	var codes []int
	for i := 0; i < 7; i++ {
		codes = append(codes, serveFrom(h, "10.0.0.9:1001"))
		clock = clock.Add(70 * time.Millisecond)
	}

	// Requests at 0, 70, 140, 210, 280, 350 and 420ms; windows open at 0, 140 and 280ms.
	assert.Equal(t, []int{
		http.StatusOK, http.StatusTooManyRequests,
		http.StatusOK, http.StatusTooManyRequests,
		http.StatusOK, http.StatusTooManyRequests,
		http.StatusOK,
	}, codes)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	rl.Stop()
	rl.Stop()

	select {
	case <-rl.stop:
	default:
		t.Fatal("stop channel not closed")
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "fixed-id", rr.Header().Get("X-Request-ID"))
}
