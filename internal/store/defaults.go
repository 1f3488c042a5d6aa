package store

import "net/url"

// DefaultAppData returns the seed data for a new account.
func DefaultAppData(name, today string) *AppData {
	return &AppData{
		Profile: UserProfile{
			Name:          name,
			AvatarURL:     "https://i.pravatar.cc/150?u=" + url.QueryEscape(name),
			Height:        180,
			Weight:        83,
			WeightHistory: []WeightEntry{{Date: today, Value: 83}},
			PRs:           PersonalRecords{Bench: 102, Squat: 143, Deadlift: 184},
		},
		WorkoutTemplates: []WorkoutTemplate{
			{ID: "tmpl_1", Name: "Full Body Strength", Exercises: []TemplateExercise{
				{ExerciseID: "2", ExerciseName: "Squat", SetCount: 3, Reps: 5},
				{ExerciseID: "1", ExerciseName: "Bench Press", SetCount: 3, Reps: 5},
				{ExerciseID: "5", ExerciseName: "Barbell Row", SetCount: 3, Reps: 5},
			}},
			{ID: "tmpl_2", Name: "Push Day", Exercises: []TemplateExercise{
				{ExerciseID: "1", ExerciseName: "Bench Press", SetCount: 4, Reps: 8},
				{ExerciseID: "4", ExerciseName: "Overhead Press", SetCount: 3, Reps: 10},
				{ExerciseID: "11", ExerciseName: "Incline Dumbbell Press", SetCount: 3, Reps: 10},
				{ExerciseID: "12", ExerciseName: "Lateral Raises", SetCount: 3, Reps: 12},
				{ExerciseID: "7", ExerciseName: "Tricep Pushdowns", SetCount: 3, Reps: 12},
			}},
			{ID: "tmpl_3", Name: "Pull Day", Exercises: []TemplateExercise{
				{ExerciseID: "3", ExerciseName: "Deadlift", SetCount: 1, Reps: 5},
				{ExerciseID: "9", ExerciseName: "Lat Pulldowns", SetCount: 3, Reps: 10},
				{ExerciseID: "5", ExerciseName: "Barbell Row", SetCount: 3, Reps: 8},
				{ExerciseID: "16", ExerciseName: "Face Pulls", SetCount: 3, Reps: 15},
				{ExerciseID: "6", ExerciseName: "Bicep Curls", SetCount: 3, Reps: 12},
			}},
			{ID: "tmpl_4", Name: "Leg Day", Exercises: []TemplateExercise{
				{ExerciseID: "2", ExerciseName: "Squat", SetCount: 4, Reps: 8},
				{ExerciseID: "8", ExerciseName: "Leg Press", SetCount: 3, Reps: 12},
				{ExerciseID: "13", ExerciseName: "Romanian Deadlift", SetCount: 3, Reps: 10},
				{ExerciseID: "15", ExerciseName: "Leg Extensions", SetCount: 3, Reps: 15},
				{ExerciseID: "14", ExerciseName: "Leg Curls", SetCount: 3, Reps: 15},
			}},
		},
		MealTemplates: []MealTemplate{
			{ID: "mtmpl_1", Name: "Typical Indian Lunch", Type: MealLunch, Items: []MealItem{
				{Name: "Basmati Rice (1 cup, cooked)", Macros: Macros{Calories: 205, Protein: 4, Carbs: 45, Fat: 0}},
				{Name: "Dal Tadka (1 cup)", Macros: Macros{Calories: 180, Protein: 9, Carbs: 25, Fat: 5}},
			}},
		},
		DietLogs:    map[string]*DailyDietLog{},
		WorkoutLogs: map[string]*DailyWorkoutLog{},
	}
}
