package handler

import (
	"errors"
	"net/http"

	"github.com/gymmate/gymmate/internal/advice"
	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/dashboard"
	"github.com/gymmate/gymmate/internal/profile"
	"github.com/gymmate/gymmate/internal/stats"
)

// AdviceHandler serves generated coaching text. Provider failures never
// surface as errors; the advice service answers with fallback text instead.
type AdviceHandler struct {
	adviceService    *advice.Service
	dashboardService *dashboard.Service
	profileService   *profile.Service
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(adviceService *advice.Service, dashboardService *dashboard.Service, profileService *profile.Service) *AdviceHandler {
	return &AdviceHandler{
		adviceService:    adviceService,
		dashboardService: dashboardService,
		profileService:   profileService,
	}
}

// GenericTip handles GET /v1/me/advice/tip - a tip without personal context.
func (h *AdviceHandler) GenericTip(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.adviceService.Tip(r.Context(), nil))
}

// Tip handles POST /v1/me/advice/tip. Omitted fields are taken from today's dashboard.
func (h *AdviceHandler) Tip(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.TipRequest
	if !decode(w, r, &input) {
		return
	}

	tc := &advice.TipContext{Breakfast: input.Breakfast, Lunch: input.Lunch}
	if input.WorkoutProgress != nil {
		tc.WorkoutProgress = *input.WorkoutProgress
	} else {
		focus, err := h.dashboardService.TodaysFocus(r.Context(), email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		tc.WorkoutProgress = focus.WorkoutProgress
	}
	if tc.Breakfast == "" || tc.Lunch == "" {
		fuel, err := h.dashboardService.TodaysFuel(r.Context(), email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if tc.Breakfast == "" {
			tc.Breakfast = fuel.Breakfast
		}
		if tc.Lunch == "" {
			tc.Lunch = fuel.Lunch
		}
	}

	response.JSON(w, r, http.StatusOK, h.adviceService.Tip(r.Context(), tc))
}

// Briefing handles POST /v1/me/advice/briefing. The context defaults to the
// profile name, yesterday's performance and today's progress; any field of
// the body overrides it. An empty body is allowed.
func (h *AdviceHandler) Briefing(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.BriefingRequest
	if err := response.Decode(w, r, &input); err != nil && !errors.Is(err, response.ErrEmptyBody) {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	summary, err := h.profileService.GetSummary(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	perf, err := h.dashboardService.YesterdaysPerformance(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	focus, err := h.dashboardService.TodaysFocus(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	bc := advice.BriefingContext{
		Name:             summary.Name,
		WorkoutCompleted: perf.WorkoutCompleted,
		ProteinGoalMet:   perf.ProteinGoalMet,
		WorkoutProgress:  focus.WorkoutProgress,
	}
	if input.Name != nil {
		bc.Name = *input.Name
	}
	if input.WorkoutCompleted != nil {
		bc.WorkoutCompleted = *input.WorkoutCompleted
	}
	if input.ProteinGoalMet != nil {
		bc.ProteinGoalMet = *input.ProteinGoalMet
	}
	if input.WorkoutProgress != nil {
		bc.WorkoutProgress = *input.WorkoutProgress
	}

	response.JSON(w, r, http.StatusOK, h.adviceService.DailyBriefing(r.Context(), bc))
}

// GoalPlan handles POST /v1/me/advice/goal-plan.
func (h *AdviceHandler) GoalPlan(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input models.GoalPlanRequest
	if !decode(w, r, &input) {
		return
	}

	var v models.Validator
	v.Check(input.TargetWeight > 0, "targetWeight", models.CodeOutOfRange, "targetWeight must be positive")
	if input.TargetDate == "" {
		v.Add("targetDate", models.CodeRequired, "targetDate is required")
	} else if _, err := stats.ParseDate(input.TargetDate, nil); err != nil {
		v.Add("targetDate", models.CodeInvalidDate, err.Error())
	}
	if err := v.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	p := input.Profile
	if p == nil {
		stored, err := h.profileService.Get(r.Context(), email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p = stored
	}

	response.JSON(w, r, http.StatusOK, h.adviceService.GoalPlan(r.Context(), *p, input.TargetWeight, input.TargetDate))
}

// WeeklyPlan handles GET /v1/me/advice/weekly-plan for the stored profile.
func (h *AdviceHandler) WeeklyPlan(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := h.profileService.Get(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, h.adviceService.WeeklyWorkoutPlan(r.Context(), *p))
}

// MealSuggestion handles GET /v1/me/advice/meal-suggestion.
func (h *AdviceHandler) MealSuggestion(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.adviceService.MealSuggestion(r.Context()))
}

// WorkoutSuggestion handles GET /v1/me/advice/workout-suggestion.
func (h *AdviceHandler) WorkoutSuggestion(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.adviceService.WorkoutSuggestion(r.Context()))
}
