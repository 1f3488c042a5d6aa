// Package diet manages daily meal logs, meal templates and the food catalog.
package diet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/catalog"
	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
)

// Service errors.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrMealNotFound     = errors.New("meal not found")
)

// Service provides diet operations.
type Service struct {
	store    *store.Store
	catalog  *catalog.Catalog
	now      func() time.Time
	location *time.Location
	logger   zerolog.Logger
}

// ServiceConfig holds configuration for the diet service.
type ServiceConfig struct {
	Store    *store.Store
	Catalog  *catalog.Catalog
	Now      func() time.Time
	Location *time.Location
	Logger   zerolog.Logger
}

// NewService creates a new diet service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		store:    cfg.Store,
		catalog:  cfg.Catalog,
		now:      cfg.Now,
		location: cfg.Location,
		logger:   cfg.Logger.With().Str("component", "diet").Logger(),
	}
}

func (s *Service) today() string {
	return stats.FormatDate(stats.Today(s.now(), s.location))
}

// Log returns the diet log of date, or an empty one with default goals.
func (s *Service) Log(ctx context.Context, email, date string) (*store.DailyDietLog, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	if log := data.DietLogs[date]; log != nil {
		return log, nil
	}
	return store.NewDailyDietLog(date), nil
}

// LogMeal appends a meal to date and adds it to the day's totals.
func (s *Service) LogMeal(ctx context.Context, email, date string, input *models.LogMealRequest) (*store.Meal, error) {
	var v models.Validator
	if _, err := stats.ParseDate(date, nil); err != nil {
		v.Add("date", models.CodeInvalidDate, err.Error())
	}
	validateMeal(&v, "", input.Name, input.Type, input.Macros())
	if err := v.Err(); err != nil {
		return nil, err
	}

	meal := newMeal(input.Name, input.Type, input.Macros())
	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		appendMeal(data, date, meal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// DeleteMeal removes a meal and recomputes the day's totals.
func (s *Service) DeleteMeal(ctx context.Context, email, date, mealID string) (*store.DailyDietLog, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var updated *store.DailyDietLog
	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		log := data.DietLogs[date]
		if log == nil {
			return ErrMealNotFound
		}
		idx := -1
		for i, m := range log.Meals {
			if m.ID == mealID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrMealNotFound
		}
		log.Meals = append(log.Meals[:idx], log.Meals[idx+1:]...)
		log.Totals = stats.SumMacros(log.Meals)
		updated = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// LogCheatMeal logs a snack for today with calories only.
func (s *Service) LogCheatMeal(ctx context.Context, email string, input *models.CheatMealRequest) (*store.Meal, error) {
	return s.LogMeal(ctx, email, s.today(), &models.LogMealRequest{
		Name:     input.Name,
		Type:     store.MealSnack,
		Calories: input.Calories,
	})
}

// SearchFoods matches food names case-insensitively.
func (s *Service) SearchFoods(query string) []catalog.Food {
	return s.catalog.SearchFoods(query)
}

// FrequentFoods returns the quick-add foods.
func (s *Service) FrequentFoods() []catalog.Food {
	return s.catalog.FrequentFoods()
}

// MealTemplates returns the user's meal templates.
func (s *Service) MealTemplates(ctx context.Context, email string) ([]store.MealTemplate, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	return data.MealTemplates, nil
}

// SaveMealTemplate stores a new meal template.
func (s *Service) SaveMealTemplate(ctx context.Context, email string, input *models.SaveMealTemplateRequest) (*store.MealTemplate, error) {
	var v models.Validator
	v.Check(strings.TrimSpace(input.Name) != "", "name", models.CodeRequired, "name is required")
	if _, err := store.ParseMealType(string(input.Type)); err != nil {
		v.Add("type", models.CodeUnknownValue, err.Error())
	}
	v.Check(len(input.Items) > 0, "items", models.CodeRequired, "at least one item is required")
	for i, item := range input.Items {
		validateMeal(&v, fmt.Sprintf("items[%d].", i), item.Name, input.Type, item.Macros)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	tmpl := store.MealTemplate{
		ID:    "mtmpl_" + uuid.New().String(),
		Name:  strings.TrimSpace(input.Name),
		Type:  input.Type,
		Items: input.Items,
	}
	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		data.MealTemplates = append(data.MealTemplates, tmpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LogFromTemplate logs every item of a template to today, in order, with the
// template's meal type, and returns today's log.
func (s *Service) LogFromTemplate(ctx context.Context, email, templateID string) (*store.DailyDietLog, error) {
	date := s.today()
	var updated *store.DailyDietLog
	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		var tmpl *store.MealTemplate
		for i := range data.MealTemplates {
			if data.MealTemplates[i].ID == templateID {
				tmpl = &data.MealTemplates[i]
				break
			}
		}
		if tmpl == nil {
			return ErrTemplateNotFound
		}
		for _, item := range tmpl.Items {
			updated = appendMeal(data, date, newMeal(item.Name, tmpl.Type, item.Macros))
		}
		if updated == nil {
			updated = data.DietLogs[date]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return store.NewDailyDietLog(date), nil
	}
	return updated, nil
}

// LogDates returns every date with a diet log, sorted.
func (s *Service) LogDates(ctx context.Context, email string) ([]string, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(data.DietLogs))
	for d := range data.DietLogs {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// WeeklyCalories returns the calorie total of each of the last 7 days.
func (s *Service) WeeklyCalories(ctx context.Context, email string) ([]stats.Point, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	return stats.WeeklyCalories(data.DietLogs, stats.Today(s.now(), s.location)), nil
}

func newMeal(name string, t store.MealType, m store.Macros) store.Meal {
	return store.Meal{
		ID:     "meal_" + uuid.New().String(),
		Name:   strings.TrimSpace(name),
		Type:   t,
		Macros: m,
	}
}

// appendMeal adds meal to date's log, creating the log if needed. Totals
// change together with the meal list.
func appendMeal(data *store.AppData, date string, meal store.Meal) *store.DailyDietLog {
	log := data.DietLogs[date]
	if log == nil {
		log = store.NewDailyDietLog(date)
		data.DietLogs[date] = log
	}
	log.Meals = append(log.Meals, meal)
	log.Totals = log.Totals.Add(meal.Macros)
	return log
}

func validateMeal(v *models.Validator, prefix, name string, t store.MealType, m store.Macros) {
	v.Check(strings.TrimSpace(name) != "", prefix+"name", models.CodeRequired, "name is required")
	if prefix == "" {
		if _, err := store.ParseMealType(string(t)); err != nil {
			v.Add("type", models.CodeUnknownValue, err.Error())
		}
	}
	for _, f := range []struct {
		field string
		value float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
	} {
		v.Check(f.value >= 0 && !math.IsInf(f.value, 0), prefix+f.field, models.CodeOutOfRange, "must be a non-negative number")
	}
}

func validateDate(date string) error {
	if _, err := stats.ParseDate(date, nil); err != nil {
		return &models.ValidationError{Errors: []models.FieldError{{
			Field: "date", Message: err.Error(), Code: models.CodeInvalidDate,
		}}}
	}
	return nil
}
