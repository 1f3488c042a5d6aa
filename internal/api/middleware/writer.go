package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// routePattern returns the matched chi pattern, such as
// /v1/me/diet/logs/{date}, falling back to the raw path outside chi.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// requestFields collects values learned deeper in the chain for the access log.
type requestFields struct {
	user string
}

type requestFieldsKey struct{}

func withRequestFields(ctx context.Context) (context.Context, *requestFields) {
	if f, ok := ctx.Value(requestFieldsKey{}).(*requestFields); ok {
		return ctx, f
	}
	f := &requestFields{}
	return context.WithValue(ctx, requestFieldsKey{}, f), f
}

func setLoggedUser(ctx context.Context, email string) {
	if f, ok := ctx.Value(requestFieldsKey{}).(*requestFields); ok {
		f.user = email
	}
}
