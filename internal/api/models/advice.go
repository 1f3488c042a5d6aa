package models

import "github.com/gymmate/gymmate/internal/store"

// AdviceResponse carries one piece of generated advice.
type AdviceResponse struct {
	Text string `json:"text"`
	// HTML is the rendered markdown, set for plans only.
	HTML     string `json:"html,omitempty"`
	Fallback bool   `json:"fallback"`
}

// TipRequest personalises the daily tip. All fields are optional.
type TipRequest struct {
	WorkoutProgress *int   `json:"workoutProgress,omitempty"`
	Breakfast       string `json:"breakfast,omitempty"`
	Lunch           string `json:"lunch,omitempty"`
}

// BriefingRequest overrides the dashboard-derived briefing context.
type BriefingRequest struct {
	Name             *string `json:"name,omitempty"`
	WorkoutCompleted *bool   `json:"workoutCompleted,omitempty"`
	ProteinGoalMet   *bool   `json:"proteinGoalMet,omitempty"`
	WorkoutProgress  *int    `json:"workoutProgress,omitempty"`
}

// GoalPlanRequest asks for a plan to reach a target weight.
type GoalPlanRequest struct {
	TargetWeight float64 `json:"targetWeight"`
	TargetDate   string  `json:"targetDate"`
	// Profile overrides the stored profile when set.
	Profile *store.UserProfile `json:"profile,omitempty"`
}
