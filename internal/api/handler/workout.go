package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/workout"
)

// WorkoutHandler handles workout log, template and statistics endpoints.
type WorkoutHandler struct {
	workoutService *workout.Service
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService *workout.Service) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// ListTemplates handles GET /v1/me/workouts/templates.
func (h *WorkoutHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	templates, err := h.workoutService.Templates(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, templates)
}

// SaveTemplate handles POST /v1/me/workouts/templates.
func (h *WorkoutHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.SaveWorkoutTemplateRequest
	if !decode(w, r, &input) {
		return
	}
	tmpl, err := h.workoutService.SaveTemplate(r.Context(), email, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/me/workouts/templates/"+tmpl.ID, tmpl)
}

// LogDates handles GET /v1/me/workouts/logs - dates with a workout.
func (h *WorkoutHandler) LogDates(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	dates, err := h.workoutService.LogDates(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dates)
}

// GetLog handles GET /v1/me/workouts/logs/{date}.
func (h *WorkoutHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	day, err := h.workoutService.Log(r.Context(), email, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, day)
}

// SaveLog handles PUT /v1/me/workouts/logs/{date}. An empty exercise list
// deletes the day.
func (h *WorkoutHandler) SaveLog(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.SaveWorkoutRequest
	if !decode(w, r, &input) {
		return
	}
	resp, err := h.workoutService.SaveLog(r.Context(), email, chi.URLParam(r, "date"), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// ActivityHistory handles GET /v1/me/workouts/activity.
func (h *WorkoutHandler) ActivityHistory(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	history, err := h.workoutService.ActivityHistory(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, history)
}

// WeeklyActivity handles GET /v1/me/workouts/activity/weekly.
func (h *WorkoutHandler) WeeklyActivity(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	week, err := h.workoutService.WeeklyActivity(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, week)
}

// Heatmap handles GET /v1/me/workouts/activity/heatmap.
func (h *WorkoutHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	heatmap, err := h.workoutService.Heatmap(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, heatmap)
}

// VolumeHistory handles GET /v1/me/workouts/volume?category=.
func (h *WorkoutHandler) VolumeHistory(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	points, err := h.workoutService.VolumeHistory(r.Context(), email, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, points)
}

// StrengthProgression handles GET /v1/me/workouts/strength/{exerciseId}.
func (h *WorkoutHandler) StrengthProgression(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	points, err := h.workoutService.StrengthProgression(r.Context(), email, chi.URLParam(r, "exerciseId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, points)
}
