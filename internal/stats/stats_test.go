package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
)

// 2024-05-15 is a Wednesday.
var today = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

func sets(pairs ...string) []store.WorkoutSet {
	out := make([]store.WorkoutSet, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, store.WorkoutSet{ID: float64(i), Reps: pairs[i], Weight: pairs[i+1]})
	}
	return out
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{" 82.5 ", 82.5},
		{"202.5", 202.5},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.ParseNumber(tt.in))
		})
	}
}

func TestVolume_FractionalWeight(t *testing.T) {
	ex := store.WorkoutLog{Sets: []store.WorkoutSet{{Reps: "5", Weight: "202.5"}}}
	v := stats.Volume([]store.WorkoutLog{ex})
	assert.Equal(t, 1012.5, v)
	assert.Equal(t, 2, stats.DefaultThresholds().Level(v))
}

func TestValidNumber(t *testing.T) {
	assert.True(t, stats.ValidNumber(""))
	assert.True(t, stats.ValidNumber("0"))
	assert.True(t, stats.ValidNumber("12.5"))
	assert.False(t, stats.ValidNumber("-1"))
	assert.False(t, stats.ValidNumber("ten"))
	assert.False(t, stats.ValidNumber("NaN"))
}

func TestThresholds_Level(t *testing.T) {
	th := stats.DefaultThresholds()
	tests := []struct {
		volume float64
		want   int
	}{
		{0, 1},
		{1000, 1},
		{1000.5, 2},
		{2000, 2},
		{2001, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Level(tt.volume), "volume %v", tt.volume)
	}

	custom := stats.Thresholds{High: 100, Medium: 50}
	assert.Equal(t, 3, custom.Level(101))
}

func TestVolume(t *testing.T) {
	exercises := []store.WorkoutLog{
		{ExerciseID: "1", Sets: sets("5", "100", "5", "100")},
		{ExerciseID: "2", Sets: sets("10", "", "x", "50")},
	}
	assert.Equal(t, 1000.0, stats.Volume(exercises))
}

func TestEpley_Estimate(t *testing.T) {
	assert.Equal(t, 117.0, stats.DefaultEpley().Estimate(100, 5))
	assert.Equal(t, 100.0, stats.DefaultEpley().Estimate(100, 0))
	assert.Equal(t, 110.0, stats.Epley{Divisor: 50}.Estimate(100, 5))
	assert.Equal(t, 117.0, stats.Epley{}.Estimate(100, 5), "zero divisor falls back to 30")
}

func TestCompletion(t *testing.T) {
	assert.Equal(t, 0, stats.Completion(nil))
	assert.Equal(t, 0, stats.Completion(&store.DailyWorkoutLog{}))

	log := &store.DailyWorkoutLog{Exercises: []store.WorkoutLog{
		{Sets: []store.WorkoutSet{{Completed: true}, {Completed: false}}},
		{Sets: []store.WorkoutSet{{Completed: true}}},
	}}
	assert.Equal(t, 67, stats.Completion(log))
}

func TestDayPerformance(t *testing.T) {
	assert.Equal(t, stats.Performance{}, stats.DayPerformance(nil, nil))

	workout := &store.DailyWorkoutLog{Exercises: []store.WorkoutLog{{ExerciseID: "1"}}}
	diet := store.NewDailyDietLog("2024-05-14")
	diet.Totals.Protein = 180
	assert.Equal(t,
		stats.Performance{WorkoutCompleted: true, ProteinGoalMet: true},
		stats.DayPerformance(workout, diet),
	)

	diet.Totals.Protein = 179.9
	assert.False(t, stats.DayPerformance(workout, diet).ProteinGoalMet)
}

func TestSumMacros(t *testing.T) {
	meals := []store.Meal{
		{Name: "Oats", Macros: store.Macros{Calories: 300, Protein: 10, Carbs: 50, Fat: 5}},
		{Name: "Oats", Macros: store.Macros{Calories: 300, Protein: 10, Carbs: 50, Fat: 5}},
	}
	assert.Equal(t, store.Macros{Calories: 600, Protein: 20, Carbs: 100, Fat: 10}, stats.SumMacros(meals))
	assert.Equal(t, store.Macros{}, stats.SumMacros(nil))
}

func TestFirstMealName(t *testing.T) {
	log := store.NewDailyDietLog("2024-05-15")
	log.Meals = []store.Meal{
		{Name: "Eggs", Type: store.MealBreakfast},
		{Name: "Toast", Type: store.MealBreakfast},
	}
	name, ok := stats.FirstMealName(log, store.MealBreakfast)
	assert.True(t, ok)
	assert.Equal(t, "Eggs", name)

	_, ok = stats.FirstMealName(log, store.MealLunch)
	assert.False(t, ok)
}

func TestLastNDays(t *testing.T) {
	days := stats.LastNDays(today, 7)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-09", stats.FormatDate(days[0]))
	assert.Equal(t, "2024-05-15", stats.FormatDate(days[6]))
}

func TestWeekStarts(t *testing.T) {
	starts := stats.WeekStarts(today, 4)
	got := make([]string, 0, len(starts))
	for _, s := range starts {
		assert.Equal(t, time.Sunday, s.Weekday())
		got = append(got, stats.FormatDate(s))
	}
	assert.Equal(t, []string{"2024-04-21", "2024-04-28", "2024-05-05", "2024-05-12"}, got)
}

func TestWeeklyActivity(t *testing.T) {
	logs := map[string]*store.DailyWorkoutLog{
		"2024-05-13": {Exercises: []store.WorkoutLog{{ExerciseID: "1"}}, Level: 1},
	}
	week := stats.WeeklyActivity(logs, today)
	require.Len(t, week, 7)
	assert.Equal(t, stats.DayActivity{Date: "2024-05-09", Day: "Thu", WorkedOut: false}, week[0])
	assert.Equal(t, stats.DayActivity{Date: "2024-05-13", Day: "Mon", WorkedOut: true}, week[4])
}

func TestWeeklyVolume(t *testing.T) {
	logs := map[string]*store.DailyWorkoutLog{
		// week of 2024-05-12
		"2024-05-12": {Exercises: []store.WorkoutLog{
			{ExerciseID: "1", Sets: sets("5", "100")},
			{ExerciseID: "2", Sets: sets("5", "140")},
		}},
		// week of 2024-04-21
		"2024-04-27": {Exercises: []store.WorkoutLog{{ExerciseID: "1", Sets: sets("10", "60.4")}}},
		// outside the window
		"2024-04-20": {Exercises: []store.WorkoutLog{{ExerciseID: "1", Sets: sets("10", "60")}}},
	}

	all := stats.WeeklyVolume(logs, today, 4, nil)
	assert.Equal(t, []stats.VolumePoint{
		{Date: "2024-04-21", Volume: 604},
		{Date: "2024-04-28", Volume: 0},
		{Date: "2024-05-05", Volume: 0},
		{Date: "2024-05-12", Volume: 1200},
	}, all)

	onlyBench := stats.WeeklyVolume(logs, today, 4, func(id string) bool { return id == "1" })
	assert.Equal(t, 500.0, onlyBench[3].Volume)
}

func TestStrengthProgression(t *testing.T) {
	logs := map[string]*store.DailyWorkoutLog{
		"2024-05-10": {Exercises: []store.WorkoutLog{
			{ExerciseID: "1", Sets: sets("8", "90", "5", "100", "3", "100")},
			// only the first entry of the day counts
			{ExerciseID: "1", Sets: sets("1", "200")},
		}},
		"2024-05-01": {Exercises: []store.WorkoutLog{{ExerciseID: "1", Sets: sets("10", "80")}}},
		"2024-05-03": {Exercises: []store.WorkoutLog{{ExerciseID: "2", Sets: sets("5", "140")}}},
		"2024-05-05": {Exercises: []store.WorkoutLog{{ExerciseID: "1"}}},
	}

	got := stats.StrengthProgression(logs, "1", stats.DefaultEpley())
	assert.Equal(t, []stats.Point{
		{Date: "2024-05-01", Value: 107},
		{Date: "2024-05-10", Value: 117},
	}, got)

	assert.Empty(t, stats.StrengthProgression(logs, "99", stats.DefaultEpley()))
}

func TestActivityHistory(t *testing.T) {
	logs := map[string]*store.DailyWorkoutLog{
		"2024-05-10": {Level: 3},
		"2024-05-01": {Level: 1},
	}
	assert.Equal(t, []stats.ActivityEntry{
		{Date: "2024-05-01", Level: 1},
		{Date: "2024-05-10", Level: 3},
	}, stats.ActivityHistory(logs))
}

func TestWeeklyCalories(t *testing.T) {
	logs := map[string]*store.DailyDietLog{
		"2024-05-15": {Totals: store.Macros{Calories: 1800}},
		"2024-05-01": {Totals: store.Macros{Calories: 2000}},
	}
	got := stats.WeeklyCalories(logs, today)
	require.Len(t, got, 7)
	assert.Equal(t, stats.Point{Date: "2024-05-09", Value: 0}, got[0])
	assert.Equal(t, stats.Point{Date: "2024-05-15", Value: 1800}, got[6])
}

func TestBuildHeatmap(t *testing.T) {
	logs := map[string]*store.DailyWorkoutLog{
		"2024-05-15": {Level: 2},
		"2023-05-14": {Level: 3},
		"2024-05-17": {Level: 1},
	}
	h := stats.BuildHeatmap(logs, today)

	require.Len(t, h.Cells, stats.HeatmapWeeks*7)
	assert.Equal(t, stats.HeatmapCell{Date: "2023-05-14", Level: 3}, h.Cells[0])

	last := h.Cells[len(h.Cells)-1]
	assert.Equal(t, "2024-05-18", last.Date)
	assert.True(t, last.Future)

	var future int
	for _, c := range h.Cells {
		if c.Future {
			future++
			assert.Zero(t, c.Level)
		}
		if c.Date == "2024-05-15" {
			assert.Equal(t, 2, c.Level)
			assert.False(t, c.Future)
		}
	}
	assert.Equal(t, 3, future)

	require.NotEmpty(t, h.Months)
	assert.Equal(t, stats.MonthLabel{Month: "May", Week: 0}, h.Months[0])
	assert.Equal(t, stats.MonthLabel{Month: "Jun", Week: 2}, h.Months[1])
}

func TestParseDate(t *testing.T) {
	d, err := stats.ParseDate("2024-02-29", nil)
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = stats.ParseDate("2024-2-29", nil)
	assert.Error(t, err)

	assert.Equal(t, "2024-03-15", stats.FormatDate(stats.MonthsAgo(today, 2)))
}
