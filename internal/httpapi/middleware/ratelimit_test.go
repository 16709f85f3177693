package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}

	// another client has its own bucket
	other := httptest.NewRequest("GET", "/", nil)
	other.Header.Set("X-Forwarded-For", "5.6.7.8, 10.0.0.1")
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, other)
	if rr2.Code != 200 {
		t.Fatalf("want 200 for other client got %d", rr2.Code)
	}
}

func TestLimiter_RefillAndSweep(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	if !l.allow("a") || l.allow("a") {
		t.Fatalf("burst of 1 should allow exactly one")
	}
	now = now.Add(1100 * time.Millisecond)
	if !l.allow("a") {
		t.Fatalf("want refill after a second")
	}

	now = now.Add(2 * time.Minute)
	l.allow("b")
	if _, ok := l.buckets["a"]; ok {
		t.Fatalf("idle bucket should be swept")
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
}
