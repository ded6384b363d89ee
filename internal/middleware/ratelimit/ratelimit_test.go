package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestAllowWindow(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	l := newLimiter(Config{RequestsPerMinute: 2}, c.now)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests must pass")
	}
	if l.Allow("a") {
		t.Fatal("third request must be rejected")
	}
	if !l.Allow("b") {
		t.Fatal("clients are counted separately")
	}
	if got := l.RetryAfter("a"); got != time.Minute {
		t.Fatalf("RetryAfter = %s", got)
	}

	c.t = c.t.Add(time.Minute)
	if !l.Allow("a") {
		t.Fatal("a new window must reset the count")
	}
	if m := l.GetMetrics(); m.Rejected != 1 || m.ClientCount != 2 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestCleanup(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	l := newLimiter(Config{}, c.now)
	l.Allow("old")
	c.t = c.t.Add(11 * time.Minute)
	l.Allow("new")
	l.cleanup()
	if m := l.GetMetrics(); m.ClientCount != 1 {
		t.Fatalf("stale client should be dropped, have %d", m.ClientCount)
	}
}

func TestMiddlewareOnlyCountsMutations(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	l := newLimiter(Config{RequestsPerMinute: 1}, c.now)
	ip := func(*http.Request) string { return "10.0.0.9" }
	h := l.Middleware(ip, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("GET %d: status %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first POST: status %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST: status %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After must be set")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}
