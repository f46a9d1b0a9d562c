package httpapi

import (
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ashishkaushik/leazzy/internal/logging"
	"github.com/ashishkaushik/leazzy/internal/server/auth"
	"github.com/ashishkaushik/leazzy/internal/server/metrics"
)

// statusRecorder wraps http.ResponseWriter and records the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewRecoveryMiddleware turns handler panics into 500 responses instead of
// crashing the process.
func NewRecoveryMiddleware(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error(r.Context(), "panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NewLoggingMiddleware logs one structured line per request: method, path,
// status, duration and the user id when authenticated. The level follows the
// status code.
func NewLoggingMiddleware(logger logging.Logger, collector *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if collector != nil {
				collector.RecordHTTPStatus(rec.statusCode)
				collector.RecordRequestLatency(duration)
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"duration_ms", float64(duration.Nanoseconds()) / float64(time.Millisecond),
			}
			if userID := auth.UserID(r.Context()); userID != "" {
				args = append(args, "user_id", userID)
			}

			switch {
			case rec.statusCode >= 500:
				logger.Error(r.Context(), "http_request", args...)
			case rec.statusCode >= 400:
				logger.Warn(r.Context(), "http_request", args...)
			default:
				logger.Info(r.Context(), "http_request", args...)
			}
		})
	}
}

// clientLimiter pairs a token bucket with its last access time so idle
// entries can be evicted.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client request budget. Clients are keyed by the
// authenticated user id when present, otherwise by remote IP.
type RateLimiter struct {
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu       sync.RWMutex
	limiters map[string]*clientLimiter

	logger logging.Logger
	stopCh chan struct{}
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second per
// client and starts the background cleanup of idle entries.
func NewRateLimiter(rps int, logger logging.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:           rate.Limit(rps),
		burst:           rps * 2,
		cleanupInterval: 5 * time.Minute,
		limiters:        make(map[string]*clientLimiter),
		logger:          logger,
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware rejects requests over the client's budget with 429 and a
// Retry-After hint.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			if !rl.getOrCreateLimiter(key).Allow() {
				retryAfterSec := int(math.Ceil(1.0 / float64(rl.limit)))
				if retryAfterSec < 1 {
					retryAfterSec = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
				writeError(w, http.StatusTooManyRequests, "too many requests")

				rl.logger.Warn(r.Context(), "rate limit exceeded", "client", key)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LimiterCount returns the number of tracked clients. Used by tests.
func (rl *RateLimiter) LimiterCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

func clientKey(r *http.Request) string {
	if userID := auth.UserID(r.Context()); userID != "" {
		return userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) getOrCreateLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	cl, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		cl.lastAccess = time.Now()
		rl.mu.Unlock()
		return cl.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// double check after swapping the lock
	if cl, exists := rl.limiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[key] = &clientLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops entries idle for more than twice the cleanup interval.
func (rl *RateLimiter) cleanup() {
	ttl := rl.cleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
	rl.mu.Unlock()
}
