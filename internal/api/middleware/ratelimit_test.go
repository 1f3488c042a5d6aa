package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gymmate/gymmate/internal/api/middleware"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimitByIP(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimitConfig{RequestLimit: 3, WindowLength: time.Minute})(http.HandlerFunc(okHandler))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", http.NoBody)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("192.168.1.1:1234").Code, "request %d", i+1)
	}

	rec := send("192.168.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusOK, send("192.168.1.2:1234").Code)
}

func TestRateLimitByUser(t *testing.T) {
	limited := middleware.RateLimitByUser(middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute})(http.HandlerFunc(okHandler))

	send := func(email string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/me/profile", http.NoBody)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(middleware.WithUserEmail(req.Context(), email))
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("jane@example.com"))
	assert.Equal(t, http.StatusOK, send("jane@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, send("jane@example.com"))

	// same IP, different user
	assert.Equal(t, http.StatusOK, send("john@example.com"))
}
