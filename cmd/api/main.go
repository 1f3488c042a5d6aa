// Package main provides the entrypoint for the gymmate API server.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/gymmate/gymmate/internal/advice"
	"github.com/gymmate/gymmate/internal/api"
	"github.com/gymmate/gymmate/internal/api/middleware"
	"github.com/gymmate/gymmate/internal/auth"
	"github.com/gymmate/gymmate/internal/catalog"
	"github.com/gymmate/gymmate/internal/config"
	"github.com/gymmate/gymmate/internal/dashboard"
	"github.com/gymmate/gymmate/internal/database"
	"github.com/gymmate/gymmate/internal/diet"
	"github.com/gymmate/gymmate/internal/logging"
	"github.com/gymmate/gymmate/internal/profile"
	"github.com/gymmate/gymmate/internal/provider/resilience"
	"github.com/gymmate/gymmate/internal/stats"
	"github.com/gymmate/gymmate/internal/store"
	"github.com/gymmate/gymmate/internal/telemetry"
	"github.com/gymmate/gymmate/internal/workout"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "gymmate-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, logCloser := logging.New(logging.Params{
		ServiceName: serviceName,
		Version:     Version,
		Level:       cfg.LogLevel,
		Console:     !cfg.IsProduction(),
		FileName:    cfg.LogFile,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("server exited with error")
	}
	if closeErr := logCloser.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// run wires the services and serves until ctx is cancelled. Every cleanup
// error is returned alongside the serve error.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (err error) {
	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Msg("starting gymmate API")

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, tp.Shutdown(shutdownCtx))
	}()
	if cfg.OTelEnabled {
		log.Info().Str("otlp_endpoint", cfg.OTLPEndpoint).Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	storage, release, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer release()
	st := store.New(store.Config{Storage: storage, Logger: log})
	defer func() { err = multierr.Append(err, st.Close()) }()
	log.Info().Str("backend", st.Backend()).Msg("document store ready")

	registry := resilience.NewRegistry()
	generator, err := newGenerator(ctx, cfg, registry)
	if err != nil {
		return err
	}
	if closer, ok := generator.(io.Closer); ok {
		defer func() { err = multierr.Append(err, closer.Close()) }()
	}
	log.Info().Str("provider", generator.Name()).Msg("advice generator selected")

	adviceService, err := advice.NewService(advice.ServiceConfig{
		Generator: generator,
		Timeout:   cfg.AdviceTimeout,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("initializing advice service: %w", err)
	}

	signingKey := cfg.JWTSigningKey
	if signingKey == "" {
		signingKey = randomKey()
		log.Warn().Msg("JWT_SIGNING_KEY not set, using a random key; sessions end on restart")
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: signingKey,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
	})

	cat := catalog.Default()
	authService := auth.NewService(auth.ServiceConfig{
		Store:            st,
		JWTService:       jwtService,
		Mode:             cfg.SessionMode,
		SimulatedLatency: cfg.SimulatedLatency,
		Location:         cfg.Location,
		Logger:           log,
	})
	profileService := profile.NewService(profile.ServiceConfig{Store: st, Location: cfg.Location, Logger: log})
	workoutService := workout.NewService(workout.ServiceConfig{
		Store:      st,
		Catalog:    cat,
		Thresholds: stats.Thresholds{High: cfg.VolumeHigh, Medium: cfg.VolumeMedium},
		Epley:      stats.Epley{Divisor: cfg.EpleyDivisor},
		Location:   cfg.Location,
		Logger:     log,
	})
	dietService := diet.NewService(diet.ServiceConfig{Store: st, Catalog: cat, Location: cfg.Location, Logger: log})
	dashboardService := dashboard.NewService(dashboard.ServiceConfig{Store: st, Location: cfg.Location, Logger: log})

	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		RequireTLS:       cfg.RequireTLS,
		Storage:          st,
		Providers:        registry,
		Catalog:          cat,
		AuthService:      authService,
		ProfileService:   profileService,
		WorkoutService:   workoutService,
		DietService:      dietService,
		DashboardService: dashboardService,
		AdviceService:    adviceService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Plans can take the whole advice timeout to generate.
		WriteTimeout: cfg.AdviceTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// openStorage connects the configured document backend. release frees what
// the backend does not own itself and runs after the store is closed.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage store.Storage, release func(), err error) {
	release = func() {}
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return store.NewMemoryStorage(), release, nil

	case config.BackendFile:
		fs, err := store.NewFileStorage(cfg.StoreFile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file storage: %w", err)
		}
		return fs, release, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rdb.AddHook(redisotel.NewTracingHook())
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, multierr.Append(fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err), rdb.Close())
		}
		return store.NewRedisStorage(rdb, store.Key), release, nil

	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		ps, err := store.NewPostgresStorage(ctx, pool, store.Key)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("preparing postgres storage: %w", err)
		}
		log.Info().
			Str("host", cfg.Database.Host).
			Str("database", cfg.Database.Database).
			Msg("database connected")
		return ps, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StoreBackend)
}

// newGenerator picks the advice provider. Without a key the static
// generator answers every request with placeholder text.
func newGenerator(ctx context.Context, cfg *config.Config, registry *resilience.Registry) (advice.Generator, error) {
	if cfg.AdviceAPIKey() == "" {
		return advice.Static{}, nil
	}

	switch cfg.AdviceProvider {
	case config.AdviceProviderOpenAI:
		clientCfg := resilience.DefaultClientConfig("openai")
		clientCfg.Timeout = cfg.AdviceTimeout
		clientCfg.Registry = registry
		g, err := advice.NewOpenAI(advice.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			HTTPClient: resilience.NewClient(clientCfg),
		})
		if err != nil {
			return nil, fmt.Errorf("initializing openai: %w", err)
		}
		return g, nil

	default:
		g, err := advice.NewGemini(ctx, advice.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Guard:  resilience.NewGuard(resilience.GuardConfig{Name: "gemini", Registry: registry}),
		})
		if err != nil {
			return nil, fmt.Errorf("initializing gemini: %w", err)
		}
		return g, nil
	}
}

func randomKey() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
