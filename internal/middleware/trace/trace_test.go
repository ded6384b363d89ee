package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dompetku/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Output: &buf, Component: log.ComponentHTTP})
	m := NewMiddleware(logger, func(*http.Request) string { return "10.0.0.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		if log.FromContext(r.Context()).Component() != log.ComponentHTTP {
			t.Errorf("request logger missing from context")
		}
		w.WriteHeader(http.StatusSeeOther)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("unexpected request id %q", seen)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header must echo the request id")
	}
	out := buf.String()
	if !strings.Contains(out, "status_code=303") || !strings.Contains(out, "request_id="+seen) {
		t.Fatalf("access log missing fields: %q", out)
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[int]slog.Level{200: slog.LevelInfo, 303: slog.LevelInfo, 404: slog.LevelWarn, 500: slog.LevelError}
	for code, want := range cases {
		if got := levelFor(code); got != want {
			t.Errorf("levelFor(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}
