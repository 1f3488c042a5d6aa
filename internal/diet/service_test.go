package diet_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/diet"
	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
)

const testEmail = "jane@example.com"

var now = time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *diet.Service {
	t.Helper()
	st := store.New(store.Config{Storage: store.NewMemoryStorage(), Logger: zerolog.New(io.Discard)})
	require.NoError(t, st.Update(context.Background(), func(doc *store.Document) error {
		doc.Users = append(doc.Users, store.User{Email: testEmail})
		doc.AppData[testEmail] = store.DefaultAppData("jane", "2024-05-01")
		return nil
	}))
	return diet.NewService(diet.ServiceConfig{
		Store:  st,
		Now:    func() time.Time { return now },
		Logger: zerolog.New(io.Discard),
	})
}

var oats = &models.LogMealRequest{Name: "Oats", Type: store.MealBreakfast, Calories: 300, Protein: 10, Carbs: 50, Fat: 5}

func TestService_LogDefault(t *testing.T) {
	svc := newTestService(t)

	log, err := svc.Log(context.Background(), testEmail, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", log.Date)
	assert.Empty(t, log.Meals)
	assert.Equal(t, store.Macros{}, log.Totals)
	assert.Equal(t, store.Macros{Calories: 2500, Protein: 180, Carbs: 250, Fat: 80}, log.Goals)
}

func TestService_LogMeal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	meal, err := svc.LogMeal(ctx, testEmail, "2024-01-01", oats)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(meal.ID, "meal_"))
	_, parseErr := uuid.Parse(strings.TrimPrefix(meal.ID, "meal_"))
	assert.NoError(t, parseErr, "id carries a whole uuid")

	log, err := svc.Log(ctx, testEmail, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, log.Meals, 1)
	assert.Equal(t, store.Macros{Calories: 300, Protein: 10, Carbs: 50, Fat: 5}, log.Totals)

	_, err = svc.LogMeal(ctx, testEmail, "2024-01-01", oats)
	require.NoError(t, err)

	log, err = svc.Log(ctx, testEmail, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, log.Meals, 2)
	assert.Equal(t, 600.0, log.Totals.Calories)
}

func TestService_TotalsMatchMeals(t *testing.T) {
	faker := gofakeit.New(42)
	svc := newTestService(t)
	ctx := context.Background()
	const date = "2024-03-03"

	var ids []string
	for i := 0; i < 25; i++ {
		meal, err := svc.LogMeal(ctx, testEmail, date, &models.LogMealRequest{
			Name:     faker.Breakfast(),
			Type:     store.MealTypes[faker.Number(0, len(store.MealTypes)-1)],
			Calories: float64(faker.Number(0, 1200)),
			Protein:  float64(faker.Number(0, 80)),
			Carbs:    float64(faker.Number(0, 150)),
			Fat:      float64(faker.Number(0, 60)),
		})
		require.NoError(t, err)
		ids = append(ids, meal.ID)

		log, err := svc.Log(ctx, testEmail, date)
		require.NoError(t, err)
		assert.Equal(t, stats.SumMacros(log.Meals), log.Totals)
	}

	for i := 0; i < len(ids); i += 3 {
		log, err := svc.DeleteMeal(ctx, testEmail, date, ids[i])
		require.NoError(t, err)
		assert.Equal(t, stats.SumMacros(log.Meals), log.Totals)
	}
}

func TestService_DeleteMeal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.LogMeal(ctx, testEmail, "2024-01-01", oats)
	require.NoError(t, err)
	_, err = svc.LogMeal(ctx, testEmail, "2024-01-01", &models.LogMealRequest{Name: "Rice", Type: store.MealLunch, Calories: 200})
	require.NoError(t, err)

	log, err := svc.DeleteMeal(ctx, testEmail, "2024-01-01", first.ID)
	require.NoError(t, err)
	require.Len(t, log.Meals, 1)
	assert.Equal(t, store.Macros{Calories: 200}, log.Totals)

	_, err = svc.DeleteMeal(ctx, testEmail, "2024-01-01", first.ID)
	assert.ErrorIs(t, err, diet.ErrMealNotFound)
	_, err = svc.DeleteMeal(ctx, testEmail, "2024-02-02", first.ID)
	assert.ErrorIs(t, err, diet.ErrMealNotFound)
}

func TestService_LogMealValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name      string
		date      string
		input     *models.LogMealRequest
		wantField string
	}{
		{"bad date", "2024/01/01", oats, "date"},
		{"missing name", "2024-01-01", &models.LogMealRequest{Type: store.MealLunch}, "name"},
		{"unknown type", "2024-01-01", &models.LogMealRequest{Name: "x", Type: "Brunch"}, "type"},
		{"negative calories", "2024-01-01", &models.LogMealRequest{Name: "x", Type: store.MealLunch, Calories: -1}, "calories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogMeal(context.Background(), testEmail, tt.date, tt.input)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Errors[0].Field)
		})
	}
}

func TestService_LogCheatMeal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	meal, err := svc.LogCheatMeal(ctx, testEmail, &models.CheatMealRequest{Name: "Pizza", Calories: 800})
	require.NoError(t, err)
	assert.Equal(t, store.MealSnack, meal.Type)
	assert.Equal(t, store.Macros{Calories: 800}, meal.Macros)

	log, err := svc.Log(ctx, testEmail, "2024-05-15")
	require.NoError(t, err)
	assert.Len(t, log.Meals, 1)
}

func TestService_LogFromTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	log, err := svc.LogFromTemplate(ctx, testEmail, "mtmpl_1")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-15", log.Date)
	require.Len(t, log.Meals, 2)
	assert.Equal(t, "Basmati Rice (1 cup, cooked)", log.Meals[0].Name)
	assert.Equal(t, "Dal Tadka (1 cup)", log.Meals[1].Name)
	for _, m := range log.Meals {
		assert.Equal(t, store.MealLunch, m.Type)
	}
	assert.Equal(t, store.Macros{Calories: 385, Protein: 13, Carbs: 70, Fat: 5}, log.Totals)

	_, err = svc.LogFromTemplate(ctx, testEmail, "mtmpl_missing")
	assert.ErrorIs(t, err, diet.ErrTemplateNotFound)
}

func TestService_SaveMealTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tmpl, err := svc.SaveMealTemplate(ctx, testEmail, &models.SaveMealTemplateRequest{
		Name:  "Protein breakfast",
		Type:  store.MealBreakfast,
		Items: []store.MealItem{{Name: "Greek Yogurt", Macros: store.Macros{Calories: 150, Protein: 22}}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tmpl.ID, "mtmpl_"))

	templates, err := svc.MealTemplates(ctx, testEmail)
	require.NoError(t, err)
	assert.Len(t, templates, 2)

	_, err = svc.SaveMealTemplate(ctx, testEmail, &models.SaveMealTemplateRequest{Name: "Empty", Type: store.MealLunch})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestService_WeeklyCaloriesAndDates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.LogMeal(ctx, testEmail, "2024-05-14", oats)
	require.NoError(t, err)
	_, err = svc.LogMeal(ctx, testEmail, "2024-04-01", oats)
	require.NoError(t, err)

	week, err := svc.WeeklyCalories(ctx, testEmail)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, stats.Point{Date: "2024-05-14", Value: 300}, week[5])
	assert.Equal(t, 0.0, week[6].Value)

	dates, err := svc.LogDates(ctx, testEmail)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04-01", "2024-05-14"}, dates)
}

func TestService_Foods(t *testing.T) {
	svc := newTestService(t)

	assert.NotEmpty(t, svc.SearchFoods("dal"))
	assert.Empty(t, svc.SearchFoods(""))
	assert.NotEmpty(t, svc.FrequentFoods())
}
