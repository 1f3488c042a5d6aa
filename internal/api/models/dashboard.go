package models

// DailyFocus is today's progress at a glance.
type DailyFocus struct {
	WorkoutProgress int  `json:"workout_progress"`
	MealLogged      bool `json:"meal_logged"`
}

// DailyFuel names today's first breakfast and lunch.
type DailyFuel struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
}

// NotLogged is shown for a meal slot with nothing logged.
const NotLogged = "Not logged"
