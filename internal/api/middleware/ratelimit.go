package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/gymmate/gymmate/internal/api/models"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

// Default rate limit configurations.
var (
	// AuthRateLimit applies to signup and login (10 req/min).
	AuthRateLimit = RateLimitConfig{RequestLimit: 10, WindowLength: time.Minute}

	// AdviceRateLimit applies to generated advice, which costs a provider call (30 req/min).
	AdviceRateLimit = RateLimitConfig{RequestLimit: 30, WindowLength: time.Minute}

	// StandardRateLimit applies to everything else (100 req/min).
	StandardRateLimit = RateLimitConfig{RequestLimit: 100, WindowLength: time.Minute}
)

// RateLimitByIP limits by client IP (after chi's RealIP).
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceeded(cfg)),
	)
}

// RateLimitByUser limits by authenticated user, or by IP without one.
func RateLimitByUser(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(limitExceeded(cfg)),
	)
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if email := GetUserEmail(r.Context()); email != "" {
		return "user:" + email, nil
	}
	return httprate.KeyByRealIP(r)
}

// limitExceeded writes a problem response with Retry-After set to the window length.
func limitExceeded(cfg RateLimitConfig) http.HandlerFunc {
	retryAfter := strconv.Itoa(int(cfg.WindowLength.Seconds()))
	return func(w http.ResponseWriter, r *http.Request) {
		problem := models.NewTooManyRequests(GetRequestID(r.Context()), "Rate limit exceeded. Please try again later.")
		problem.Instance = r.URL.Path
		w.Header().Set("Retry-After", retryAfter)
		problem.Write(w)
	}
}
