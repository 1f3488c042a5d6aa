package advice

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/store"
)

const meterName = "github.com/gymmate/gymmate/internal/advice"

// Defaults for ServiceConfig.
const (
	DefaultTipTTL    = 5 * time.Minute
	DefaultTimeout   = 20 * time.Second
	DefaultCacheSize = 1 << 20
)

// TipContext personalises the daily tip.
type TipContext struct {
	WorkoutProgress int    `json:"workoutProgress"`
	Breakfast       string `json:"breakfast"`
	Lunch           string `json:"lunch"`
}

// BriefingContext is what the daily briefing is written about.
type BriefingContext struct {
	Name             string
	WorkoutCompleted bool
	ProteinGoalMet   bool
	WorkoutProgress  int
}

// ServiceConfig holds configuration for the advice service.
type ServiceConfig struct {
	// Generator produces the text. Static is used when nil.
	Generator Generator
	// TipTTL is how long a generated tip is reused for the same context.
	TipTTL time.Duration
	// Timeout bounds each provider call.
	Timeout time.Duration
	// CacheSize is the tip cache size in bytes.
	CacheSize int
	// Now drives tip expiry.
	Now    func() time.Time
	Logger zerolog.Logger
}

// Service formats prompts and degrades to canned text. None of its
// methods fail and none return empty text.
type Service struct {
	generator Generator
	tipTTL    time.Duration
	timeout   time.Duration
	tips      *freecache.Cache
	markdown  goldmark.Markdown
	logger    zerolog.Logger
	warnOnce  sync.Once

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

type clock func() time.Time

func (c clock) Now() uint32 { return uint32(c().Unix()) }

// NewService creates a new advice service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Generator == nil {
		cfg.Generator = Static{}
	}
	if cfg.TipTTL <= 0 {
		cfg.TipTTL = DefaultTipTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	meter := otel.Meter(meterName)
	requests, err := meter.Int64Counter(
		"advice.requests.total",
		metric.WithDescription("Advice requests by function and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"advice.provider.duration",
		metric.WithDescription("Duration of generative-text provider calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		generator: cfg.Generator,
		tipTTL:    cfg.TipTTL,
		timeout:   cfg.Timeout,
		tips:      freecache.NewCacheCustomTimer(cfg.CacheSize, clock(cfg.Now)),
		markdown:  goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		logger:    cfg.Logger.With().Str("component", "advice").Str("provider", cfg.Generator.Name()).Logger(),
		requests:  requests,
		duration:  duration,
	}, nil
}

// Provider returns the active generator name.
func (s *Service) Provider() string {
	return s.generator.Name()
}

// Tip returns a short tip, personalised when c is set. Generated tips are
// reused for the same context until TipTTL passes; canned tips are not.
func (s *Service) Tip(ctx context.Context, c *TipContext) *models.AdviceResponse {
	key := tipKey(c)
	if cached, err := s.tips.Get(key); err == nil {
		s.count(ctx, "tip", "cached")
		return &models.AdviceResponse{Text: string(cached)}
	}

	resp := s.generate(ctx, "tip", Request{Prompt: tipPrompt(c)}, tipOffline, tipFailed)
	if !resp.Fallback {
		if err := s.tips.Set(key, []byte(resp.Text), int(s.tipTTL/time.Second)); err != nil {
			s.logger.Warn().Err(err).Msg("could not cache tip")
		}
	}
	return resp
}

// DailyBriefing returns a one or two sentence dashboard greeting.
func (s *Service) DailyBriefing(ctx context.Context, c BriefingContext) *models.AdviceResponse {
	return s.generate(ctx, "briefing",
		Request{Prompt: briefingPrompt(c), Temperature: temperature(0.8)},
		briefingOffline(c.Name), briefingFailed(c.Name))
}

// GoalPlan returns a markdown diet and exercise plan for reaching targetWeight by targetDate.
func (s *Service) GoalPlan(ctx context.Context, profile store.UserProfile, targetWeight float64, targetDate string) *models.AdviceResponse {
	resp := s.generate(ctx, "goal_plan",
		Request{Prompt: goalPlanPrompt(profile, targetWeight, targetDate), Temperature: temperature(0.7)},
		goalPlanOffline, goalPlanFailed)
	resp.HTML = s.render(resp.Text)
	return resp
}

// WeeklyWorkoutPlan returns a markdown three-day split.
func (s *Service) WeeklyWorkoutPlan(ctx context.Context, profile store.UserProfile) *models.AdviceResponse {
	resp := s.generate(ctx, "weekly_plan",
		Request{Prompt: weeklyPlanPrompt(profile)},
		weeklyPlanOffline, weeklyPlanFailed)
	resp.HTML = s.render(resp.Text)
	return resp
}

// MealSuggestion returns a one-line meal idea.
func (s *Service) MealSuggestion(ctx context.Context) *models.AdviceResponse {
	return s.generate(ctx, "meal_suggestion",
		Request{Prompt: mealPrompt, Temperature: temperature(0.9)},
		mealOffline, mealFailed)
}

// WorkoutSuggestion returns a one-line workout idea.
func (s *Service) WorkoutSuggestion(ctx context.Context) *models.AdviceResponse {
	return s.generate(ctx, "workout_suggestion",
		Request{Prompt: workoutPrompt, Temperature: temperature(0.9)},
		workoutOffline, workoutFailed)
}

func (s *Service) generate(ctx context.Context, function string, req Request, offline, failed string) *models.AdviceResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(ctx, req)
	s.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("function", function),
		attribute.String("provider", s.generator.Name()),
	))

	switch {
	case errors.Is(err, ErrNoCredentials):
		s.warnOnce.Do(func() {
			s.logger.Warn().Msg("advice provider key not set, using placeholder text")
		})
		s.count(ctx, function, "offline")
		return &models.AdviceResponse{Text: offline, Fallback: true}
	case err != nil:
		s.logger.Error().Err(err).Str("function", function).Msg("advice provider call failed")
		s.count(ctx, function, "failed")
		return &models.AdviceResponse{Text: failed, Fallback: true}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Error().Str("function", function).Msg("advice provider returned empty text")
		s.count(ctx, function, "failed")
		return &models.AdviceResponse{Text: failed, Fallback: true}
	}
	s.count(ctx, function, "live")
	return &models.AdviceResponse{Text: text}
}

func (s *Service) count(ctx context.Context, function, outcome string) {
	s.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("function", function),
		attribute.String("outcome", outcome),
	))
}

func (s *Service) render(markdown string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &buf); err != nil {
		s.logger.Warn().Err(err).Msg("could not render plan")
		return ""
	}
	return buf.String()
}

// tipKey hashes the JSON form of c; a missing context hashes as "{}".
func tipKey(c *TipContext) []byte {
	body := []byte("{}")
	if c != nil {
		if b, err := json.Marshal(c); err == nil {
			body = b
		}
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, xxhash.Sum64(body))
	return key
}
