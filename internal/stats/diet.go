package stats

import (
	"time"

	"github.com/gymmate/gymmate/internal/store"
)

// SumMacros adds up the macros of every meal.
func SumMacros(meals []store.Meal) store.Macros {
	var total store.Macros
	for _, m := range meals {
		total = total.Add(m.Macros)
	}
	return total
}

// Performance summarises one past day.
type Performance struct {
	WorkoutCompleted bool `json:"workout_completed"`
	ProteinGoalMet   bool `json:"protein_goal_met"`
}

// DayPerformance reports whether a workout was logged and the protein goal reached.
func DayPerformance(workout *store.DailyWorkoutLog, diet *store.DailyDietLog) Performance {
	return Performance{
		WorkoutCompleted: workout != nil && len(workout.Exercises) > 0,
		ProteinGoalMet:   diet != nil && diet.Totals.Protein >= diet.Goals.Protein,
	}
}

// FirstMealName returns the name of the first meal of type t, if any.
func FirstMealName(log *store.DailyDietLog, t store.MealType) (string, bool) {
	if log == nil {
		return "", false
	}
	for _, m := range log.Meals {
		if m.Type == t {
			return m.Name, true
		}
	}
	return "", false
}

// WeeklyCalories is the calorie total of each of the last 7 days, oldest first.
// Days without a log count as 0.
func WeeklyCalories(logs map[string]*store.DailyDietLog, today time.Time) []Point {
	days := LastNDays(today, 7)
	out := make([]Point, 0, len(days))
	for _, d := range days {
		key := FormatDate(d)
		p := Point{Date: key}
		if log := logs[key]; log != nil {
			p.Value = log.Totals.Calories
		}
		out = append(out, p)
	}
	return out
}
