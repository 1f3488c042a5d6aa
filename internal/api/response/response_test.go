package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/api/middleware"
	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
)

// requestWithID returns a request that went through the RequestID middleware.
func requestWithID(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	var processed *http.Request
	middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		processed = r
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, strings.NewReader(body)))
	return processed
}

func TestJSON(t *testing.T) {
	req := requestWithID(t, http.MethodGet, "/v1/me/profile", "")
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]string{"name": "jane"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, middleware.GetRequestID(req.Context()), rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"name":"jane"}`, rec.Body.String())
}

func TestJSON_NilData(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody), http.StatusOK, nil)

	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Request-Id"))
}

func TestCreatedAndNoContent(t *testing.T) {
	req := requestWithID(t, http.MethodPost, "/v1/me/diet/templates", "")

	rec := httptest.NewRecorder()
	response.Created(rec, req, "/v1/me/diet/templates/mtmpl_1", map[string]string{"id": "mtmpl_1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/v1/me/diet/templates/mtmpl_1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	response.NoContent(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProblems(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
		typ    string
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) { response.BadRequest(w, r, "bad", nil) }, http.StatusBadRequest, models.ProblemTypeValidation},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) { response.Unauthorized(w, r, "no") }, http.StatusUnauthorized, models.ProblemTypeUnauthorized},
		{"not found", func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "meal") }, http.StatusNotFound, models.ProblemTypeNotFound},
		{"conflict", func(w http.ResponseWriter, r *http.Request) { response.Conflict(w, r, "dup") }, http.StatusConflict, models.ProblemTypeConflict},
		{"internal", func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "oops") }, http.StatusInternalServerError, models.ProblemTypeInternal},
		{"unavailable", func(w http.ResponseWriter, r *http.Request) { response.ServiceUnavailable(w, r, "down") }, http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithID(t, http.MethodGet, "/v1/me/diet/logs/2024-05-15", "")
			rec := httptest.NewRecorder()
			tt.write(rec, req)

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.typ, problem.Type)
			assert.Equal(t, "/v1/me/diet/logs/2024-05-15", problem.Instance)
			assert.Equal(t, middleware.GetRequestID(req.Context()), problem.TraceID)
		})
	}
}

func TestValidation(t *testing.T) {
	req := requestWithID(t, http.MethodPost, "/v1/auth/signup", "")
	rec := httptest.NewRecorder()

	response.Validation(rec, req, &models.ValidationError{Errors: []models.FieldError{
		{Field: "email", Code: models.CodeRequired, Message: "email is required"},
	}})

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "email", problem.Errors[0].Field)
}

func TestDecode(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `{"name":"Oats"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"name":"Oats","extra":1}`, true},
		{"trailing data", `{"name":"Oats"}{"name":"Rice"}`, true},
		{"malformed", `{"name":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.input))
			var dst body
			err := response.Decode(httptest.NewRecorder(), req, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Oats", dst.Name)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.ErrorIs(t, response.Decode(httptest.NewRecorder(), req, &body{}), response.ErrEmptyBody)
}
