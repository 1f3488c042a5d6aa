// Package workout manages workout logs and templates and the statistics derived from them.
package workout

import (
	"context"
	"errors"
	"fmt"
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
	ErrExerciseNotFound = errors.New("exercise not found")
)

// DefaultTemplateReps is used when a template's first set has no usable rep count.
const DefaultTemplateReps = 10

// VolumeWeeks is the number of weeks in the volume history.
const VolumeWeeks = 4

// Service provides workout operations.
type Service struct {
	store      *store.Store
	catalog    *catalog.Catalog
	thresholds stats.Thresholds
	epley      stats.Epley
	now        func() time.Time
	location   *time.Location
	logger     zerolog.Logger
}

// ServiceConfig holds configuration for the workout service.
type ServiceConfig struct {
	Store      *store.Store
	Catalog    *catalog.Catalog
	Thresholds stats.Thresholds
	Epley      stats.Epley
	Now        func() time.Time
	Location   *time.Location
	Logger     zerolog.Logger
}

// NewService creates a new workout service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Thresholds == (stats.Thresholds{}) {
		cfg.Thresholds = stats.DefaultThresholds()
	}
	if cfg.Epley.Divisor == 0 {
		cfg.Epley = stats.DefaultEpley()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		store:      cfg.Store,
		catalog:    cfg.Catalog,
		thresholds: cfg.Thresholds,
		epley:      cfg.Epley,
		now:        cfg.Now,
		location:   cfg.Location,
		logger:     cfg.Logger.With().Str("component", "workout").Logger(),
	}
}

func (s *Service) today() time.Time {
	return stats.Today(s.now(), s.location)
}

func (s *Service) userData(ctx context.Context, email string) (*store.AppData, error) {
	return s.store.UserData(ctx, email)
}

// Exercises lists the exercise catalog.
func (s *Service) Exercises() []catalog.Exercise {
	return s.catalog.Exercises()
}

// Templates returns the user's workout templates.
func (s *Service) Templates(ctx context.Context, email string) ([]store.WorkoutTemplate, error) {
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	return data.WorkoutTemplates, nil
}

// SaveTemplate snapshots a live workout as a template. Each exercise keeps its
// number of sets and the reps of its first set.
func (s *Service) SaveTemplate(ctx context.Context, email string, input *models.SaveWorkoutTemplateRequest) (*store.WorkoutTemplate, error) {
	var v models.Validator
	v.Check(strings.TrimSpace(input.Name) != "", "name", models.CodeRequired, "name is required")
	v.Check(len(input.Exercises) > 0, "exercises", models.CodeRequired, "at least one exercise is required")
	exercises := s.validateExercises(&v, input.Exercises)
	if err := v.Err(); err != nil {
		return nil, err
	}

	tmpl := store.WorkoutTemplate{
		ID:        "tmpl_" + uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Exercises: make([]store.TemplateExercise, 0, len(exercises)),
	}
	for _, ex := range exercises {
		tmpl.Exercises = append(tmpl.Exercises, store.TemplateExercise{
			ExerciseID:   ex.ExerciseID,
			ExerciseName: ex.ExerciseName,
			SetCount:     len(ex.Sets),
			Reps:         templateReps(ex.Sets),
		})
	}

	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		data.WorkoutTemplates = append(data.WorkoutTemplates, tmpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func templateReps(sets []store.WorkoutSet) int {
	if len(sets) == 0 {
		return DefaultTemplateReps
	}
	if r := int(stats.ParseNumber(sets[0].Reps)); r > 0 {
		return r
	}
	return DefaultTemplateReps
}

// Log returns the workout of date.
func (s *Service) Log(ctx context.Context, email, date string) (*models.WorkoutDay, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}

	day := &models.WorkoutDay{Date: date, Exercises: []store.WorkoutLog{}}
	if log := data.WorkoutLogs[date]; log != nil {
		day.Exercises = log.Exercises
		day.Level = log.Level
		day.Logged = true
	}
	return day, nil
}

// SaveLog replaces the workout of date. Its level is classified from the
// volume at save time; an empty workout removes the date.
func (s *Service) SaveLog(ctx context.Context, email, date string, input *models.SaveWorkoutRequest) (*models.SaveWorkoutResponse, error) {
	var v models.Validator
	if _, err := stats.ParseDate(date, s.location); err != nil {
		v.Add("date", models.CodeInvalidDate, err.Error())
	}
	exercises := s.validateExercises(&v, input.Exercises)
	if err := v.Err(); err != nil {
		return nil, err
	}
	s.assignIDs(exercises)

	resp := &models.SaveWorkoutResponse{Success: true, Date: date}
	if len(exercises) == 0 {
		resp.Deleted = true
	} else {
		resp.Volume = stats.Volume(exercises)
		resp.Level = s.thresholds.Level(resp.Volume)
	}

	err := s.store.Update(ctx, func(doc *store.Document) error {
		data, err := doc.UserData(email)
		if err != nil {
			return err
		}
		if resp.Deleted {
			delete(data.WorkoutLogs, date)
			return nil
		}
		data.WorkoutLogs[date] = &store.DailyWorkoutLog{Exercises: exercises, Level: resp.Level}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("date", date).Float64("volume", resp.Volume).Int("level", resp.Level).Msg("workout saved")
	return resp, nil
}

// LogDates returns every date with a workout, sorted.
func (s *Service) LogDates(ctx context.Context, email string) ([]string, error) {
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(data.WorkoutLogs))
	for d := range data.WorkoutLogs {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// ActivityHistory returns the level of every logged day.
func (s *Service) ActivityHistory(ctx context.Context, email string) ([]stats.ActivityEntry, error) {
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	return stats.ActivityHistory(data.WorkoutLogs), nil
}

// WeeklyActivity flags the last 7 days.
func (s *Service) WeeklyActivity(ctx context.Context, email string) ([]stats.DayActivity, error) {
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	return stats.WeeklyActivity(data.WorkoutLogs, s.today()), nil
}

// Heatmap lays out the last year of activity.
func (s *Service) Heatmap(ctx context.Context, email string) (*stats.Heatmap, error) {
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	h := stats.BuildHeatmap(data.WorkoutLogs, s.today())
	return &h, nil
}

// VolumeHistory sums volume over the last VolumeWeeks weeks. An empty
// category, or "All", includes every exercise.
func (s *Service) VolumeHistory(ctx context.Context, email, category string) ([]stats.VolumePoint, error) {
	var include func(string) bool
	if category != "" && category != "All" {
		cat, err := catalog.ParseCategory(category)
		if err != nil {
			return nil, &models.ValidationError{Errors: []models.FieldError{{
				Field: "category", Message: err.Error(), Code: models.CodeUnknownValue,
			}}}
		}
		include = func(id string) bool { return s.catalog.CategoryOf(id) == cat }
	}

	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	return stats.WeeklyVolume(data.WorkoutLogs, s.today(), VolumeWeeks, include), nil
}

// StrengthProgression estimates the one-rep max of an exercise on every day it was logged.
func (s *Service) StrengthProgression(ctx context.Context, email, exerciseID string) ([]stats.Point, error) {
	if _, ok := s.catalog.Exercise(exerciseID); !ok {
		return nil, ErrExerciseNotFound
	}
	data, err := s.userData(ctx, email)
	if err != nil {
		return nil, err
	}
	return stats.StrengthProgression(data.WorkoutLogs, exerciseID, s.epley), nil
}

// validateExercises checks a submitted workout against the catalog and
// returns a cleaned copy with catalog names filled in.
func (s *Service) validateExercises(v *models.Validator, input []store.WorkoutLog) []store.WorkoutLog {
	out := make([]store.WorkoutLog, 0, len(input))
	for i, ex := range input {
		field := fmt.Sprintf("exercises[%d]", i)
		known, ok := s.catalog.Exercise(ex.ExerciseID)
		if !ok {
			v.Add(field+".exerciseId", models.CodeUnknownValue, fmt.Sprintf("unknown exercise %q", ex.ExerciseID))
		} else if strings.TrimSpace(ex.ExerciseName) == "" {
			ex.ExerciseName = known.Name
		}

		sets := make([]store.WorkoutSet, 0, len(ex.Sets))
		for j, set := range ex.Sets {
			setField := fmt.Sprintf("%s.sets[%d]", field, j)
			v.Check(stats.ValidNumber(set.Reps), setField+".reps", models.CodeInvalid, "reps must be empty or a non-negative number")
			v.Check(stats.ValidNumber(set.Weight), setField+".weight", models.CodeInvalid, "weight must be empty or a non-negative number")
			set.Reps = strings.TrimSpace(set.Reps)
			set.Weight = strings.TrimSpace(set.Weight)
			sets = append(sets, set)
		}
		ex.Sets = sets
		out = append(out, ex)
	}
	return out
}

// assignIDs gives exercises and sets without an ID a unique one.
func (s *Service) assignIDs(exercises []store.WorkoutLog) {
	next := float64(s.now().UnixMilli())
	for i := range exercises {
		if exercises[i].ID == 0 {
			exercises[i].ID = next
			next++
		}
		for j := range exercises[i].Sets {
			if exercises[i].Sets[j].ID == 0 {
				exercises[i].Sets[j].ID = next
				next++
			}
		}
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
