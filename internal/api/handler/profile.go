package handler

import (
	"net/http"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/profile"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	profileService *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetSummary handles GET /v1/me/profile/summary - name and avatar.
func (h *ProfileHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	summary, err := h.profileService.GetSummary(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, summary)
}

// GetProfile handles GET /v1/me/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := h.profileService.Get(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

// UpdateProfile handles PATCH /v1/me/profile - partial update.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.ProfileUpdateRequest
	if !decode(w, r, &input) {
		return
	}
	p, err := h.profileService.Update(r.Context(), email, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

// WeightProgress handles GET /v1/me/profile/weight/progress.
func (h *ProfileHandler) WeightProgress(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	points, err := h.profileService.WeightProgress(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, points)
}

// WeightHistory handles GET /v1/me/profile/weight/history?range=1m|3m|6m.
// The range defaults to 1m.
func (h *ProfileHandler) WeightHistory(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = "1m"
	}
	history, err := h.profileService.WeightHistory(r.Context(), email, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, history)
}
