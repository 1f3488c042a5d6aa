// Package profile manages the user's body measurements, weight history and personal records.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
)

// Validation limits.
const (
	MinHeightCm = 50
	MaxHeightCm = 300
	MinWeightKg = 20
	MaxWeightKg = 500
)

// Weight history ranges.
var historyRanges = map[string]int{"1m": 1, "3m": 3, "6m": 6}

// ErrInvalidRange is returned for an unknown weight history range.
var ErrInvalidRange = errors.New("range must be one of 1m, 3m, 6m")

// Service provides profile operations.
type Service struct {
	store    *store.Store
	now      func() time.Time
	location *time.Location
	logger   zerolog.Logger
}

// ServiceConfig holds configuration for the profile service.
type ServiceConfig struct {
	Store    *store.Store
	Now      func() time.Time
	Location *time.Location
	Logger   zerolog.Logger
}

// NewService creates a new profile service.
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
		logger:   cfg.Logger.With().Str("component", "profile").Logger(),
	}
}

func (s *Service) today() time.Time {
	return stats.Today(s.now(), s.location)
}

// GetSummary returns the name and avatar.
func (s *Service) GetSummary(ctx context.Context, email string) (*models.ProfileSummary, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	return &models.ProfileSummary{Name: data.Profile.Name, AvatarURL: data.Profile.AvatarURL}, nil
}

// Get returns the full profile.
func (s *Service) Get(ctx context.Context, email string) (*store.UserProfile, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}
	p := data.Profile
	return &p, nil
}

// Update merges the given fields into the profile. A changed weight is also
// recorded as today's weight-history entry.
func (s *Service) Update(ctx context.Context, email string, input *models.ProfileUpdateRequest) (*store.UserProfile, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	today := stats.FormatDate(s.today())
	var updated store.UserProfile
	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		p := &data.Profile
		oldWeight := p.Weight

		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if input.AvatarURL != nil {
			p.AvatarURL = *input.AvatarURL
		}
		if input.Height != nil {
			p.Height = *input.Height
		}
		if input.PRs != nil {
			p.PRs = *input.PRs
		}
		if input.WeightHistory != nil {
			p.WeightHistory = NormalizeHistory(*input.WeightHistory)
		}
		if input.Weight != nil {
			p.Weight = *input.Weight
			if *input.Weight != oldWeight {
				p.WeightHistory = UpsertWeight(p.WeightHistory, today, *input.Weight)
			}
		}

		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("email", email).Msg("profile updated")
	return &updated, nil
}

// WeightProgress returns the first and last weight-history points. With fewer
// than two points it returns what exists.
func (s *Service) WeightProgress(ctx context.Context, email string) ([]models.WeightProgressPoint, error) {
	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}

	h := data.Profile.WeightHistory
	switch len(h) {
	case 0:
		return []models.WeightProgressPoint{}, nil
	case 1:
		return []models.WeightProgressPoint{{Day: "1", Weight: h[0].Value}}, nil
	default:
		return []models.WeightProgressPoint{
			{Day: "1", Weight: h[0].Value},
			{Day: "30", Weight: h[len(h)-1].Value},
		}, nil
	}
}

// WeightHistory returns the entries on or after today minus the range's months.
func (s *Service) WeightHistory(ctx context.Context, email, rng string) ([]store.WeightEntry, error) {
	months, ok := historyRanges[rng]
	if !ok {
		return nil, &models.ValidationError{Errors: []models.FieldError{{
			Field: "range", Message: ErrInvalidRange.Error(), Code: models.CodeUnknownValue,
		}}}
	}

	data, err := s.store.UserData(ctx, email)
	if err != nil {
		return nil, err
	}

	from := stats.FormatDate(stats.MonthsAgo(s.today(), months))
	out := []store.WeightEntry{}
	for _, e := range data.Profile.WeightHistory {
		if e.Date >= from {
			out = append(out, e)
		}
	}
	return out, nil
}

// UpsertWeight sets the value for date, replacing an entry on the same date,
// and returns the history sorted by date.
func UpsertWeight(history []store.WeightEntry, date string, value float64) []store.WeightEntry {
	out := make([]store.WeightEntry, 0, len(history)+1)
	out = append(out, history...)
	return NormalizeHistory(append(out, store.WeightEntry{Date: date, Value: value}))
}

// NormalizeHistory sorts by date and keeps one entry per date; the entry that
// appears last wins.
func NormalizeHistory(history []store.WeightEntry) []store.WeightEntry {
	byDate := make(map[string]float64, len(history))
	for _, e := range history {
		byDate[e.Date] = e.Value
	}
	out := make([]store.WeightEntry, 0, len(byDate))
	for date, v := range byDate {
		out = append(out, store.WeightEntry{Date: date, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func validateUpdate(input *models.ProfileUpdateRequest) error {
	var v models.Validator

	if input.Name != nil {
		v.Check(strings.TrimSpace(*input.Name) != "", "name", models.CodeRequired, "name must not be empty")
	}
	if input.Height != nil {
		v.Check(*input.Height >= MinHeightCm && *input.Height <= MaxHeightCm,
			"height", models.CodeOutOfRange, fmt.Sprintf("height must be between %d and %d cm", MinHeightCm, MaxHeightCm))
	}
	if input.Weight != nil {
		v.Check(validWeight(*input.Weight),
			"weight", models.CodeOutOfRange, fmt.Sprintf("weight must be between %d and %d kg", MinWeightKg, MaxWeightKg))
	}
	if input.PRs != nil {
		v.Check(input.PRs.Bench >= 0, "prs.bench", models.CodeOutOfRange, "must not be negative")
		v.Check(input.PRs.Squat >= 0, "prs.squat", models.CodeOutOfRange, "must not be negative")
		v.Check(input.PRs.Deadlift >= 0, "prs.deadlift", models.CodeOutOfRange, "must not be negative")
	}
	if input.WeightHistory != nil {
		for i, e := range *input.WeightHistory {
			field := fmt.Sprintf("weightHistory[%d]", i)
			if _, err := stats.ParseDate(e.Date, nil); err != nil {
				v.Add(field+".date", models.CodeInvalidDate, "date must be YYYY-MM-DD")
			}
			v.Check(validWeight(e.Value), field+".value", models.CodeOutOfRange,
				fmt.Sprintf("weight must be between %d and %d kg", MinWeightKg, MaxWeightKg))
		}
	}

	return v.Err()
}

func validWeight(w float64) bool {
	return w >= MinWeightKg && w <= MaxWeightKg
}
