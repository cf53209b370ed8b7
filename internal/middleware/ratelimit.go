package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-backend/internal/ratelimit"
	"portfolio-backend/internal/transport"
)

// RateLimiter throttles a route per client IP and path.
type RateLimiter struct {
	op      ratelimit.Op
	limiter *ratelimit.Limiter
}

func NewRateLimiter(op ratelimit.Op, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		op:      op,
		limiter: ratelimit.New(ratelimit.Limits{op: limit}, window),
	}
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r) + ":" + r.URL.Path
		err := rl.limiter.Allow(rl.op, key)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limiter.Limit(rl.op)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.limiter.Remaining(rl.op, key)))
		if err != nil {
			var exceeded *ratelimit.ExceededError
			if errors.As(err, &exceeded) {
				w.Header().Set("Retry-After", strconv.Itoa(exceeded.WaitSeconds()))
			}
			transport.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
