// Package resilience wraps calls to external providers with circuit breakers,
// timeouts and retries, and tracks provider health.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the circuit breaker for logging/metrics.
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state.
	// Default: 1
	MaxRequests uint32

	// Interval is the cyclic period for clearing internal counts when closed.
	Interval time.Duration

	// Timeout is the period of open state before switching to half-open.
	// Default: 60 seconds
	Timeout time.Duration

	// ReadyToTrip determines when to trip the circuit breaker.
	// If nil, uses DefaultReadyToTrip.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is called when the circuit breaker state changes.
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// DefaultCircuitBreakerConfig returns the default breaker configuration.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip trips once at least 5 requests were made and half of them failed.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// NewCircuitBreaker creates a circuit breaker from cfg.
func NewCircuitBreaker[T any](cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[T] {
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = DefaultReadyToTrip
	}
	settings := gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.ReadyToTrip,
		OnStateChange: cfg.OnStateChange,
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}

// GuardConfig configures a Guard.
type GuardConfig struct {
	Name string

	// MaxRetries after the first attempt. Default: 2
	MaxRetries uint64

	// InitialInterval is the first retry backoff. Default: 200ms
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff. Default: 2s
	MaxInterval time.Duration

	// CircuitBreaker overrides DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig

	// Registry receives the guard and its outcomes when set.
	Registry *Registry
}

// Guard protects calls to a non-HTTP provider, such as an SDK client, with a
// circuit breaker and retries.
type Guard struct {
	cb     *gobreaker.CircuitBreaker[any]
	config GuardConfig
}

// NewGuard creates a guard and registers it when cfg.Registry is set.
func NewGuard(cfg GuardConfig) *Guard {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}
	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
		cbConfig.Name = cfg.Name
	}
	g := &Guard{
		cb:     NewCircuitBreaker[any](cbConfig),
		config: cfg,
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, g)
	}
	return g
}

// Name returns the guarded provider name.
func (g *Guard) Name() string {
	return g.config.Name
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (g *Guard) CircuitBreakerState() gobreaker.State {
	return g.cb.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (g *Guard) CircuitBreakerCounts() gobreaker.Counts {
	return g.cb.Counts()
}

// Execute runs fn through g. Failed attempts are retried with exponential
// backoff unless fn wraps its error with Permanent, the context ends or the
// circuit is open (ErrCircuitOpen).
func Execute[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.config.InitialInterval
	bo.MaxInterval = g.config.MaxInterval
	bo.MaxElapsedTime = 0

	var result T
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		v, err := g.cb.Execute(func() (any, error) {
			return fn(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			return err
		}
		result, _ = v.(T)
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, g.config.MaxRetries), ctx))
	if g.config.Registry != nil {
		if err != nil {
			g.config.Registry.RecordFailure(g.config.Name, err)
		} else {
			g.config.Registry.RecordSuccess(g.config.Name)
		}
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
