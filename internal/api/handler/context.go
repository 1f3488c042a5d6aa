package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gymmate/gymmate/internal/api/middleware"
	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/diet"
	"github.com/gymmate/gymmate/internal/store"
	"github.com/gymmate/gymmate/internal/workout"
)

// GetUserEmail retrieves the authenticated user's email from the context.
// This is a convenience wrapper around middleware.GetUserEmail.
func GetUserEmail(ctx context.Context) string {
	return middleware.GetUserEmail(ctx)
}

// currentUser returns the session user, writing a 401 when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := GetUserEmail(r.Context())
	if email == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return "", false
	}
	return email, true
}

// decode reads a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := response.Decode(w, r, dst); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return false
	}
	return true
}

// writeError maps a service error to its problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Validation(w, r, verr)
	case errors.Is(err, store.ErrUnauthenticated):
		response.Unauthorized(w, r, "user not authenticated")
	case errors.Is(err, workout.ErrExerciseNotFound):
		response.NotFound(w, r, "exercise not found")
	case errors.Is(err, diet.ErrMealNotFound):
		response.NotFound(w, r, "meal not found")
	case errors.Is(err, diet.ErrTemplateNotFound):
		response.NotFound(w, r, "template not found")
	case errors.Is(err, store.ErrUnavailable):
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("storage unavailable")
		response.ServiceUnavailable(w, r, "storage unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(w, r, "request cancelled")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		response.InternalError(w, r, "internal server error")
	}
}
