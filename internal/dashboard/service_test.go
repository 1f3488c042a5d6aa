package dashboard_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/dashboard"
	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
)

const testEmail = "jane@example.com"

var now = time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, seed func(data *store.AppData)) *dashboard.Service {
	t.Helper()
	st := store.New(store.Config{Storage: store.NewMemoryStorage(), Logger: zerolog.New(io.Discard)})
	require.NoError(t, st.Update(context.Background(), func(doc *store.Document) error {
		data := store.DefaultAppData("jane", "2024-05-01")
		if seed != nil {
			seed(data)
		}
		doc.Users = append(doc.Users, store.User{Email: testEmail})
		doc.AppData[testEmail] = data
		return nil
	}))
	return dashboard.NewService(dashboard.ServiceConfig{
		Store:  st,
		Now:    func() time.Time { return now },
		Logger: zerolog.New(io.Discard),
	})
}

func meal(name string, t store.MealType, protein float64) store.Meal {
	return store.Meal{ID: "meal_" + name, Name: name, Type: t, Macros: store.Macros{Protein: protein}}
}

func dietLog(date string, meals ...store.Meal) *store.DailyDietLog {
	log := store.NewDailyDietLog(date)
	log.Meals = meals
	log.Totals = stats.SumMacros(meals)
	return log
}

func TestService_TodaysFocus(t *testing.T) {
	svc := newTestService(t, func(data *store.AppData) {
		data.WorkoutLogs["2024-05-15"] = &store.DailyWorkoutLog{Exercises: []store.WorkoutLog{
			{ExerciseID: "1", Sets: []store.WorkoutSet{{Completed: true}, {Completed: true}, {}}},
		}}
		data.DietLogs["2024-05-15"] = dietLog("2024-05-15", meal("Oats", store.MealBreakfast, 10))
	})

	focus, err := svc.TodaysFocus(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, &models.DailyFocus{WorkoutProgress: 67, MealLogged: true}, focus)
}

func TestService_TodaysFocusEmpty(t *testing.T) {
	svc := newTestService(t, nil)

	focus, err := svc.TodaysFocus(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, &models.DailyFocus{}, focus)
}

func TestService_YesterdaysPerformance(t *testing.T) {
	tests := []struct {
		name string
		seed func(data *store.AppData)
		want stats.Performance
	}{
		{"nothing logged", nil, stats.Performance{}},
		{
			"workout and protein",
			func(data *store.AppData) {
				data.WorkoutLogs["2024-05-14"] = &store.DailyWorkoutLog{Exercises: []store.WorkoutLog{{ExerciseID: "1"}}}
				data.DietLogs["2024-05-14"] = dietLog("2024-05-14", meal("Chicken", store.MealDinner, 180))
			},
			stats.Performance{WorkoutCompleted: true, ProteinGoalMet: true},
		},
		{
			"protein short",
			func(data *store.AppData) {
				data.DietLogs["2024-05-14"] = dietLog("2024-05-14", meal("Chicken", store.MealDinner, 179))
			},
			stats.Performance{},
		},
		{
			"today does not count",
			func(data *store.AppData) {
				data.WorkoutLogs["2024-05-15"] = &store.DailyWorkoutLog{Exercises: []store.WorkoutLog{{ExerciseID: "1"}}}
			},
			stats.Performance{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.seed)
			perf, err := svc.YesterdaysPerformance(context.Background(), testEmail)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *perf)
		})
	}
}

func TestService_TodaysFuel(t *testing.T) {
	svc := newTestService(t, func(data *store.AppData) {
		data.DietLogs["2024-05-15"] = dietLog("2024-05-15",
			meal("Protein Shake", store.MealSnack, 25),
			meal("Oats", store.MealBreakfast, 10),
			meal("Eggs", store.MealBreakfast, 12),
		)
	})

	fuel, err := svc.TodaysFuel(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, "Oats", fuel.Breakfast)
	assert.Equal(t, models.NotLogged, fuel.Lunch)
}

func TestService_Unauthenticated(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.TodaysFuel(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUnauthenticated)
}
