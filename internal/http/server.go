// Package http serves the server-rendered ledger pages.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dompetku/internal/core"
	"dompetku/internal/log"
	"dompetku/internal/middleware/ratelimit"
	"dompetku/internal/middleware/security"
	"dompetku/internal/middleware/trace"
	"dompetku/internal/period"
	appweb "dompetku/web"
)

// Ledger is the transaction service as used by the handlers.
type Ledger interface {
	Calculator() period.Calculator
	Now() time.Time
	Summary(ctx context.Context, periodStart time.Time) (core.PeriodSummary, error)
	Create(ctx context.Context, f core.TransactionFields) (string, error)
	Update(ctx context.Context, id string, f core.TransactionFields) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Options configures presentation and request hardening.
type Options struct {
	Addr               string
	CurrencySymbol     string
	PeriodOptions      int
	FlashSecret        []byte
	RateLimitPerMinute int
	TrustedProxies     []string
	Logger             *log.Logger
}

type Server struct {
	http.Server
	ledger    Ledger
	templates *template.Template
	flashes   *FlashCodec
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	logger    *log.Logger

	currency      string
	periodOptions int

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(ledger Ledger, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentHTTP})
	}
	if opts.PeriodOptions <= 0 {
		opts.PeriodOptions = 12
	}

	templates, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	flashes, err := NewFlashCodec(opts.FlashSecret)
	if err != nil {
		return nil, fmt.Errorf("flash key: %w", err)
	}
	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}
	limitCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limitCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		ledger:        ledger,
		templates:     templates,
		flashes:       flashes,
		limiter:       ratelimit.NewLimiter(limitCfg),
		detector:      detector,
		logger:        opts.Logger,
		currency:      opts.CurrencySymbol,
		periodOptions: opts.PeriodOptions,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", security.NoStore(http.HandlerFunc(s.handleIndex)))
	mux.HandleFunc("POST /add", s.handleAdd)
	mux.HandleFunc("POST /edit/{id}", s.handleEdit)
	mux.HandleFunc("POST /delete/{id}", s.handleDelete)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServerFS(static))))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ExtractClientIP, s.onRateLimited)(handler)
	handler = s.withDetection(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(opts.Logger, detector.ExtractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// withDetection logs probing requests; it does not block them.
func (s *Server) withDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	writeFailurePage(w, s.templates, http.StatusTooManyRequests, "Terlalu banyak permintaan. Silakan coba lagi sebentar lagi.")
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
