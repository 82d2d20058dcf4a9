package rest

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// NewSubmitLimiter returns a token bucket allowing rps submissions per second
// with the given burst. It returns nil when rps is not positive.
func NewSubmitLimiter(rps, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = rps
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimit rejects requests with 429 once limiter is exhausted.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(delay.Round(time.Second)/time.Second)+1))
				writeJSON(w, http.StatusTooManyRequests, errResp{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
