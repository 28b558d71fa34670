package middleware

import (
	"net/http"

	"clinic-inventory/pkg/response"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles credential endpoints against brute-force
// attempts with a shared token bucket.
type RateLimitMiddleware struct {
	limiter *rate.Limiter
}

func NewRateLimitMiddleware(r rate.Limit, burst int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: rate.NewLimiter(r, burst),
	}
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow() {
			response.Error(w, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
