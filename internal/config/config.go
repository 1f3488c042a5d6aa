// Package config loads gymmate runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gymmate/gymmate/internal/database"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Session modes.
const (
	SessionModeToken    = "token"
	SessionModeDocument = "document"
)

// Advice providers.
const (
	AdviceProviderGemini = "gemini"
	AdviceProviderOpenAI = "openai"
)

// Config holds the service configuration.
type Config struct {
	Port     string
	Env      string
	Location *time.Location

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	OTelEnabled  bool
	OTLPEndpoint string

	StoreBackend  string
	StoreFile     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Database      database.Config

	JWTSigningKey    string
	JWTIssuer        string
	JWTAudience      string
	SessionMode      string
	SimulatedLatency time.Duration

	AdviceProvider string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	AdviceTimeout  time.Duration

	VolumeHigh   float64
	VolumeMedium float64
	EpleyDivisor float64

	CORSAllowedOrigins []string
	RequireTLS         bool
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var errs []string
	intVar := func(key string, def int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil {
			errs = append(errs, key+" must be an integer")
			return def
		}
		return v
	}
	floatVar := func(key string, def float64) float64 {
		v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(def, 'f', -1, 64)), 64)
		if err != nil {
			errs = append(errs, key+" must be a number")
			return def
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := time.ParseDuration(getEnv(key, def.String()))
		if err != nil {
			errs = append(errs, key+" must be a duration")
			return def
		}
		return v
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		errs = append(errs, "APP_TIMEZONE is not a known location")
		loc = time.UTC
	}

	cfg := &Config{
		Port:     getEnv("APP_PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		Location: loc,

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  intVar("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: intVar("LOG_MAX_BACKUPS", 10),
		LogMaxAgeDays: intVar("LOG_MAX_AGE_DAYS", 30),

		OTelEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		StoreBackend:  getEnv("STORE_BACKEND", BackendFile),
		StoreFile:     getEnv("STORE_FILE", "gymmate_data.json"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intVar("REDIS_DB", 0),

		JWTSigningKey:    os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:        getEnv("JWT_ISSUER", "gymmate-api"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "gymmate-app"),
		SessionMode:      getEnv("SESSION_MODE", SessionModeToken),
		SimulatedLatency: durationVar("SIMULATED_LATENCY", 0),

		AdviceProvider: getEnv("ADVICE_PROVIDER", AdviceProviderGemini),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AdviceTimeout:  durationVar("ADVICE_TIMEOUT", 20*time.Second),

		VolumeHigh:   floatVar("VOLUME_HIGH", 2000),
		VolumeMedium: floatVar("VOLUME_MEDIUM", 1000),
		EpleyDivisor: floatVar("EPLEY_DIVISOR", 30),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
	}

	if cfg.StoreBackend == BackendPostgres {
		if cfg.Database, err = database.ConfigFromEnv(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) validate() []string {
	var errs []string
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		errs = append(errs, "STORE_BACKEND must be one of memory, file, redis, postgres")
	}
	switch c.SessionMode {
	case SessionModeToken, SessionModeDocument:
	default:
		errs = append(errs, "SESSION_MODE must be token or document")
	}
	switch c.AdviceProvider {
	case AdviceProviderGemini, AdviceProviderOpenAI:
	default:
		errs = append(errs, "ADVICE_PROVIDER must be gemini or openai")
	}
	if c.VolumeMedium <= 0 || c.VolumeHigh <= c.VolumeMedium {
		errs = append(errs, "VOLUME_HIGH must be greater than VOLUME_MEDIUM and both positive")
	}
	if c.EpleyDivisor <= 0 {
		errs = append(errs, "EPLEY_DIVISOR must be positive")
	}
	if c.IsProduction() && c.JWTSigningKey == "" && c.SessionMode == SessionModeToken {
		errs = append(errs, "JWT_SIGNING_KEY is required in production")
	}
	if c.SimulatedLatency < 0 {
		errs = append(errs, "SIMULATED_LATENCY must not be negative")
	}
	return errs
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AdviceAPIKey returns the key of the selected advice provider.
func (c *Config) AdviceAPIKey() string {
	if c.AdviceProvider == AdviceProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
