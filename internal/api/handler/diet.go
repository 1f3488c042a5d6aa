package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/diet"
)

// DietHandler handles diet log and meal template endpoints.
type DietHandler struct {
	dietService *diet.Service
}

// NewDietHandler creates a new DietHandler.
func NewDietHandler(dietService *diet.Service) *DietHandler {
	return &DietHandler{dietService: dietService}
}

// LogDates handles GET /v1/me/diet/logs - dates with meals.
func (h *DietHandler) LogDates(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	dates, err := h.dietService.LogDates(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dates)
}

// GetLog handles GET /v1/me/diet/logs/{date}.
func (h *DietHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	log, err := h.dietService.Log(r.Context(), email, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, log)
}

// LogMeal handles POST /v1/me/diet/logs/{date}/meals.
func (h *DietHandler) LogMeal(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.LogMealRequest
	if !decode(w, r, &input) {
		return
	}
	date := chi.URLParam(r, "date")
	meal, err := h.dietService.LogMeal(r.Context(), email, date, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/me/diet/logs/"+date+"/meals/"+meal.ID, meal)
}

// DeleteMeal handles DELETE /v1/me/diet/logs/{date}/meals/{mealId}.
func (h *DietHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	log, err := h.dietService.DeleteMeal(r.Context(), email, chi.URLParam(r, "date"), chi.URLParam(r, "mealId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, log)
}

// LogCheatMeal handles POST /v1/me/diet/cheat-meals.
func (h *DietHandler) LogCheatMeal(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.CheatMealRequest
	if !decode(w, r, &input) {
		return
	}
	meal, err := h.dietService.LogCheatMeal(r.Context(), email, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, meal)
}

// ListTemplates handles GET /v1/me/diet/templates.
func (h *DietHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	templates, err := h.dietService.MealTemplates(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, templates)
}

// SaveTemplate handles POST /v1/me/diet/templates.
func (h *DietHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.SaveMealTemplateRequest
	if !decode(w, r, &input) {
		return
	}
	tmpl, err := h.dietService.SaveMealTemplate(r.Context(), email, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/me/diet/templates/"+tmpl.ID, tmpl)
}

// LogFromTemplate handles POST /v1/me/diet/templates/{templateId}/log and
// returns today's log.
func (h *DietHandler) LogFromTemplate(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	log, err := h.dietService.LogFromTemplate(r.Context(), email, chi.URLParam(r, "templateId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, log)
}

// WeeklyCalories handles GET /v1/me/diet/calories/weekly.
func (h *DietHandler) WeeklyCalories(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	week, err := h.dietService.WeeklyCalories(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, week)
}
