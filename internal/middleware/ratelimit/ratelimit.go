// Package ratelimit throttles ledger mutations per client address.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	// SafeMethods pass through without being counted.
	SafeMethods []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
		SafeMethods:       []string{http.MethodGet, http.MethodHead},
	}
}

// Metrics is a snapshot of limiter activity.
type Metrics struct {
	Rejected    int64
	ClientCount int
}

// Limiter counts requests per client in fixed one-minute windows.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*window
	limit    int
	safe     map[string]bool
	now      func() time.Time
	rejected atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	started time.Time
	count   int
}

// NewLimiter creates a new rate limiter and starts its cleanup loop.
func NewLimiter(config Config) *Limiter {
	l := newLimiter(config, time.Now)
	go l.cleanupLoop(config.CleanupInterval)
	return l
}

func newLimiter(config Config, now func() time.Time) *Limiter {
	defaults := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.SafeMethods == nil {
		config.SafeMethods = defaults.SafeMethods
	}
	safe := make(map[string]bool, len(config.SafeMethods))
	for _, m := range config.SafeMethods {
		safe[m] = true
	}
	return &Limiter{
		clients: make(map[string]*window),
		limit:   config.RequestsPerMinute,
		safe:    safe,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Allow reports whether another request from clientIP fits in its window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[clientIP]
	if !ok || now.Sub(w.started) >= time.Minute {
		l.clients[clientIP] = &window{started: now, count: 1}
		return true
	}
	w.count++
	if w.count > l.limit {
		l.rejected.Add(1)
		return false
	}
	return true
}

// RetryAfter is how long clientIP waits for a fresh window.
func (l *Limiter) RetryAfter(clientIP string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.clients[clientIP]
	if !ok {
		return 0
	}
	if d := time.Minute - l.now().Sub(w.started); d > 0 {
		return d
	}
	return 0
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultConfig().CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup drops windows that ended more than ten minutes ago.
func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-10 * time.Minute)
	for ip, w := range l.clients {
		if w.started.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// GetMetrics returns current rate limiting metrics
func (l *Limiter) GetMetrics() Metrics {
	l.mu.Lock()
	n := len(l.clients)
	l.mu.Unlock()
	return Metrics{Rejected: l.rejected.Load(), ClientCount: n}
}

// Middleware rejects over-limit requests. onLimit, when set, writes the
// rejection; otherwise a plain 429 is sent.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.safe[r.Method] {
				next.ServeHTTP(w, r)
				return
			}
			ip := extractIP(r)
			if !l.Allow(ip) {
				secs := int(l.RetryAfter(ip).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
