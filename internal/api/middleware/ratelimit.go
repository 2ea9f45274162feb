package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/futig/proposal-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	inactiveClientThreshold = time.Hour
	cleanupInterval         = 10 * time.Minute
)

// clientLimit tracks rate limit state for a single client address
type clientLimit struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimiter implements token bucket rate limiting per client address.
// Every generation request spends one token.
type RateLimiter struct {
	limits     map[string]*clientLimit
	mu         sync.Mutex
	maxTokens  float64
	refillRate float64 // tokens per second
	now        func() time.Time
}

// NewRateLimiter allows requestsPerMinute requests per client with bursts of
// up to burst requests.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limits:     make(map[string]*clientLimit),
		maxTokens:  float64(max(burst, 1)),
		refillRate: float64(requestsPerMinute) / 60.0,
		now:        time.Now,
	}
}

// Handler rejects requests over the limit with 429
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientAddr(r)

		if !rl.allow(client) {
			ctxzap.Warn(r.Context(), "rate limit exceeded", zap.String("client", client))

			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			response.Error(w, http.StatusTooManyRequests, "too many proposal requests, please wait before trying again")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Run periodically forgets clients idle for an hour. It returns when stop
// is closed.
func (rl *RateLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) allow(client string) bool {
	now := rl.now()

	rl.mu.Lock()
	limit, exists := rl.limits[client]
	if !exists {
		limit = &clientLimit{
			tokens:     rl.maxTokens,
			lastRefill: now,
		}
		rl.limits[client] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens = min(limit.tokens+elapsed*rl.refillRate, rl.maxTokens)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		return true
	}
	return false
}

func (rl *RateLimiter) retryAfter() int {
	if rl.refillRate <= 0 {
		return 60
	}
	return max(int(1/rl.refillRate), 1)
}

func (rl *RateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for client, limit := range rl.limits {
		limit.mu.Lock()
		if now.Sub(limit.lastRefill) > inactiveClientThreshold {
			delete(rl.limits, client)
		}
		limit.mu.Unlock()
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
