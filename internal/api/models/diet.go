package models

import "github.com/gymmate/gymmate/internal/store"

// LogMealRequest adds a meal to a day.
type LogMealRequest struct {
	Name     string         `json:"name"`
	Type     store.MealType `json:"type"`
	Calories float64        `json:"calories"`
	Protein  float64        `json:"protein"`
	Carbs    float64        `json:"carbs"`
	Fat      float64        `json:"fat"`
}

// Macros returns the request's macros.
func (r *LogMealRequest) Macros() store.Macros {
	return store.Macros{Calories: r.Calories, Protein: r.Protein, Carbs: r.Carbs, Fat: r.Fat}
}

// CheatMealRequest logs a calorie-only snack for today.
type CheatMealRequest struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// SaveMealTemplateRequest creates a meal template.
type SaveMealTemplateRequest struct {
	Name  string           `json:"name"`
	Type  store.MealType   `json:"type"`
	Items []store.MealItem `json:"items"`
}
