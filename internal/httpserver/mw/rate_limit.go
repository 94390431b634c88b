package mw

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/logger"
	"github.com/HashibulAmin/reward-claim/internal/utils"
)

const tooManyRequestsMsg = "Too many attempts. Please wait a moment and try again."

type RateLimitConfig struct {
	Burst         int // bucket capacity
	RefillPerMin  int // tokens added per key per minute
	MaxEntries    int // sweep early once this many keys are tracked (0 = unbounded)
	SweepInterval time.Duration
	IdleTTL       time.Duration
	TrustProxy    bool // resolve IP from proxy headers when true

	// Key picks the bucket for a request. Defaults to the client IP.
	Key func(r *http.Request) string
	// Now defaults to time.Now.
	Now func() time.Time
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	lastRef  time.Time
	lastSeen time.Time
}

type limiter struct {
	cfg       RateLimitConfig
	rate      float64 // tokens per second
	capacity  float64
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillPerMin < 1 {
		cfg.RefillPerMin = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Key == nil {
		trust := cfg.TrustProxy
		cfg.Key = func(r *http.Request) string { return utils.ClientIP(r, trust) }
	}
	return &limiter{
		cfg:       cfg,
		rate:      float64(cfg.RefillPerMin) / 60.0,
		capacity:  float64(cfg.Burst),
		buckets:   make(map[string]*bucket, 256),
		lastSweep: cfg.Now(),
	}
}

func (l *limiter) getBucket(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cfg.MaxEntries > 0 && len(l.buckets) >= l.cfg.MaxEntries {
		l.sweepLocked(now)
	}
	b := l.buckets[key]
	if b == nil {
		b = &bucket{tokens: l.capacity, lastRef: now, lastSeen: now}
		l.buckets[key] = b
	}
	return b
}

func (l *limiter) allow(key string, now time.Time) (ok bool, remaining int, retryAfterSec int) {
	b := l.getBucket(key, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.lastRef).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.capacity, b.tokens+elapsed*l.rate)
		b.lastRef = now
	}
	b.lastSeen = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true, int(math.Floor(b.tokens)), 0
	}

	sec := int(math.Ceil((1.0 - b.tokens) / l.rate))
	if sec < 1 {
		sec = 1
	}
	return false, 0, sec
}

func (l *limiter) sweepLocked(now time.Time) {
	for key, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.lastSeen) > l.cfg.IdleTTL
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *limiter) sweepMaybe(now time.Time) {
	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.sweepLocked(now)
	}
	l.mu.Unlock()
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit is a per-key token bucket. Rejected requests get a JSON 429 with Retry-After.
// Each call owns its buckets, so separate routes never share a budget.
func RateLimit(cfg RateLimitConfig, log logger.Logger) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limitStr := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := l.cfg.Now()
			l.sweepMaybe(now)

			key := l.cfg.Key(r)
			ok, remaining, retry := l.allow(key, now)

			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				log.Info("rate limited",
					logger.String("key", key),
					logger.String("path", r.URL.Path),
					logger.Int("retry_after", retry))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": tooManyRequestsMsg})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
