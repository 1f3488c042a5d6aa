package models

import "github.com/gymmate/gymmate/internal/store"

// SaveWorkoutRequest replaces the workout of one day. An empty list deletes it.
type SaveWorkoutRequest struct {
	Exercises []store.WorkoutLog `json:"exercises"`
}

// SaveWorkoutResponse reports what was stored.
type SaveWorkoutResponse struct {
	Success bool    `json:"success"`
	Date    string  `json:"date"`
	Deleted bool    `json:"deleted,omitempty"`
	Volume  float64 `json:"volume"`
	Level   int     `json:"level"`
}

// SaveWorkoutTemplateRequest snapshots a live workout as a template.
type SaveWorkoutTemplateRequest struct {
	Name      string             `json:"name"`
	Exercises []store.WorkoutLog `json:"exercises"`
}

// WorkoutDay is the workout of one date; Exercises is empty when nothing was logged.
type WorkoutDay struct {
	Date      string             `json:"date"`
	Exercises []store.WorkoutLog `json:"exercises"`
	Level     int                `json:"level"`
	Logged    bool               `json:"logged"`
}
