package handler

import (
	"net/http"

	"github.com/gymmate/gymmate/internal/api/middleware"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup handles POST /v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !decode(w, r, &creds) {
		return
	}

	result, err := h.authService.Signup(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !result.Success {
		response.JSON(w, r, http.StatusConflict, result)
		return
	}
	response.JSON(w, r, http.StatusCreated, result)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !decode(w, r, &creds) {
		return
	}

	result, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !result.Success {
		response.JSON(w, r, http.StatusUnauthorized, result)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// Logout handles POST /v1/auth/logout. It succeeds without a session too.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		response.Unauthorized(w, r, "invalid authorization header format")
		return
	}
	if err := h.authService.Logout(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// Session handles GET /v1/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)
	session, err := h.authService.CheckSession(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, session)
}
