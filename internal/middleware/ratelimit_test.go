package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiter(generalBurst, syncBurst int) *RateLimiter {
	cfg := RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // effectively no refill during the test
		GeneralBurst:    generalBurst,
		SyncRate:        rate.Limit(0.001),
		SyncBurst:       syncBurst,
		CleanupInterval: time.Hour,
	}
	return NewRateLimiter(cfg)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGeneralMiddlewareLimitsPerClient(t *testing.T) {
	rl := testRateLimiter(2, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
		req.RemoteAddr = "10.0.0.1:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.RemoteAddr = "10.0.0.1:51000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after burst exhausted", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}

	// A different client has its own budget.
	req = httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.RemoteAddr = "10.0.0.2:51000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}

	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("tracked limiters = %d, want 2", rl.GeneralLimiterCount())
	}
}

func TestSyncTriggerMiddlewareIndependentOfGeneral(t *testing.T) {
	rl := testRateLimiter(10, 1)
	defer rl.Stop()

	general := rl.GeneralMiddleware()(okHandler())
	syncTrigger := rl.SyncTriggerMiddleware()(okHandler())

	// Exhaust the sync budget.
	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.RemoteAddr = "10.0.0.1:51000"
	syncTrigger.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.RemoteAddr = "10.0.0.1:51000"
	rec := httptest.NewRecorder()
	syncTrigger.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("sync status = %d, want 429", rec.Code)
	}

	// The general budget is untouched.
	req = httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.RemoteAddr = "10.0.0.1:51000"
	rec = httptest.NewRecorder()
	general.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("general status = %d, want 200", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:40000"
	if got := clientKey(req); got != "192.0.2.7" {
		t.Errorf("clientKey = %q, want host only", got)
	}

	req.RemoteAddr = "no-port"
	if got := clientKey(req); got != "no-port" {
		t.Errorf("clientKey fallback = %q", got)
	}
}
