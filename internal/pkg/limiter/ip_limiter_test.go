package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestMiddlewareRejectsOverBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	l := NewIPRateLimiter(ctx, rate.Limit(0.001), 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := range 2 {
		if code := do("198.51.100.1:1000"); code != http.StatusNoContent {
			t.Fatalf("request %d: status=%d, want 204", i, code)
		}
	}
	if code := do("198.51.100.1:1001"); code != http.StatusTooManyRequests {
		t.Fatalf("over-burst status=%d, want 429", code)
	}
	if code := do("198.51.100.2:1000"); code != http.StatusNoContent {
		t.Fatalf("other IP status=%d, want 204", code)
	}
}

func TestPurgeDropsRefilledBuckets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	l := NewIPRateLimiter(ctx, rate.Limit(1), 1)
	l.GetLimiter("idle")
	l.GetLimiter("busy").Allow()

	removed, remaining := l.purge(time.Now())
	if removed != 1 || remaining != 1 {
		t.Fatalf("purge=(%d,%d), want (1,1)", removed, remaining)
	}
}
