package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewIPRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	if l := NewIPRateLimiter(0, time.Minute); l != nil {
		t.Fatalf("expected nil limiter for zero requests")
	}
	var l *IPRateLimiter
	if wait := l.Reserve("192.0.2.1"); wait != 0 {
		t.Fatalf("nil limiter must allow, got wait=%s", wait)
	}
}

func TestIPRateLimiter_PerClientBudget(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := range 2 {
		if wait := l.Reserve("192.0.2.1"); wait != 0 {
			t.Fatalf("request %d should pass, got wait=%s", i, wait)
		}
	}
	wait := l.Reserve("192.0.2.1")
	if wait <= 0 || wait > 30*time.Second {
		t.Fatalf("unexpected wait for third request: %s", wait)
	}
	if wait := l.Reserve("198.51.100.7"); wait != 0 {
		t.Fatalf("other client should pass, got wait=%s", wait)
	}

	now = now.Add(30 * time.Second)
	if wait := l.Reserve("192.0.2.1"); wait != 0 {
		t.Fatalf("refilled token should pass, got wait=%s", wait)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(NewIPRateLimiter(1, time.Minute), next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request got=%d want=%d", first.Code, http.StatusOK)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request got=%d want=%d", second.Code, http.StatusTooManyRequests)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}
