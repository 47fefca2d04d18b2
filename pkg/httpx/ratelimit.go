package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig controls a token-bucket limiter keyed per client.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate per key.
	RequestsPerSecond float64

	// Burst is the bucket size per key.
	Burst int

	// KeyExtractor derives the limiter key from the request. Defaults to
	// IPKeyExtractor when nil.
	KeyExtractor func(r *http.Request) string
}

// IPKeyExtractor keys rate limits by client IP, ignoring the port.
func IPKeyExtractor(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

// limiterTable is a mutex-guarded limiter map. Stale keys are swept in-band
// on the request path, at most once per sweep interval, so the table stays
// bounded without a background goroutine.
type limiterTable struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func (t *limiterTable) get(key string, newLimiter func() *rate.Limiter) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastSweep) >= limiterSweepInterval {
		cutoff := now.Add(-limiterIdleTTL)
		for k, e := range t.entries {
			if e.lastSeen.Before(cutoff) {
				delete(t.entries, k)
			}
		}
		t.lastSweep = now
	}

	e, ok := t.entries[key]
	if !ok {
		e = &limiterEntry{limiter: newLimiter()}
		t.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimit returns a middleware applying per-key token-bucket limiting.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = IPKeyExtractor
	}

	table := &limiterTable{
		entries:   make(map[string]*limiterEntry),
		lastSweep: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := table.get(cfg.KeyExtractor(r), func() *rate.Limiter {
				return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			})

			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				WriteFail(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
