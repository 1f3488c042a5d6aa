// Package dashboard assembles the at-a-glance summaries of the home screen.
package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
)

// Service computes dashboard summaries from the user's logs.
type Service struct {
	store    *store.Store
	now      func() time.Time
	location *time.Location
	logger   zerolog.Logger
}

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	Store    *store.Store
	Now      func() time.Time
	Location *time.Location
	Logger   zerolog.Logger
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		store:    cfg.Store,
		now:      cfg.Now,
		location: cfg.Location,
		logger:   cfg.Logger.With().Str("component", "dashboard").Logger(),
	}
}

func (s *Service) today() time.Time {
	return stats.Today(s.now(), s.location)
}

// TodaysFocus reports today's set completion and whether any meal was logged.
func (s *Service) TodaysFocus(ctx context.Context, email string) (*models.DailyFocus, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	key := stats.FormatDate(s.today())
	diet := data.DietLogs[key]
	return &models.DailyFocus{
		WorkoutProgress: stats.Completion(data.WorkoutLogs[key]),
		MealLogged:      diet != nil && len(diet.Meals) > 0,
	}, nil
}

// YesterdaysPerformance reports yesterday's workout and protein flags.
func (s *Service) YesterdaysPerformance(ctx context.Context, email string) (*stats.Performance, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	key := stats.FormatDate(s.today().AddDate(0, 0, -1))
	perf := stats.DayPerformance(data.WorkoutLogs[key], data.DietLogs[key])
	return &perf, nil
}

// TodaysFuel names today's first breakfast and first lunch.
func (s *Service) TodaysFuel(ctx context.Context, email string) (*models.DailyFuel, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	log := data.DietLogs[stats.FormatDate(s.today())]
	fuel := &models.DailyFuel{Breakfast: models.NotLogged, Lunch: models.NotLogged}
	if name, ok := stats.FirstMealName(log, store.MealBreakfast); ok {
		fuel.Breakfast = name
	}
	if name, ok := stats.FirstMealName(log, store.MealLunch); ok {
		fuel.Lunch = name
	}
	return fuel, nil
}
