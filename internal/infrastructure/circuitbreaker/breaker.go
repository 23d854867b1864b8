package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/pkg/config"
)

// Settings configures a provider circuit breaker
type Settings struct {
	// Name identifies the protected provider in logs and metrics
	Name string

	// MaxRequests is the number of probe calls allowed while half-open
	MaxRequests uint32

	// Interval is the cyclic period of the closed state after which counts reset
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker
	FailureThreshold uint32

	// OnStateChange is called when the breaker changes state
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings(name string) Settings {
	return Settings{
		Name:             name,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker guards calls to one external provider. A nil gobreaker means the
// breaker is disabled and calls pass straight through.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
	log  *zap.Logger
}

// New creates a breaker backed by sony/gobreaker
func New(settings Settings, log *zap.Logger) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	threshold := settings.FailureThreshold

	onStateChange := settings.OnStateChange
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Provider circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if onStateChange != nil {
				onStateChange(name, from, to)
			}
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Breaker{name: settings.Name, cb: cb, log: log}
}

// FromConfig builds the breaker of one provider from application config.
// Zero values fall back to DefaultSettings.
func FromConfig(name string, cfg config.CircuitBreakerConfig, log *zap.Logger) *Breaker {
	if !cfg.Enabled {
		return Disabled(name)
	}

	settings := DefaultSettings(name)
	if cfg.MaxRequests > 0 {
		settings.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		settings.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		settings.Timeout = cfg.Timeout
	}
	if cfg.FailureThreshold > 0 {
		settings.FailureThreshold = cfg.FailureThreshold
	}
	return New(settings, log)
}

// Disabled returns a pass-through breaker
func Disabled(name string) *Breaker {
	return &Breaker{name: name}
}

func (b *Breaker) Name() string {
	return b.name
}

// State reports the breaker state; a disabled breaker is always closed
func (b *Breaker) State() gobreaker.State {
	if b.cb == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}

// Execute runs fn under breaker protection
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := ExecuteWithResult(ctx, b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// ExecuteWithResult runs fn under breaker protection and returns its result
func ExecuteWithResult[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn(ctx)
	}

	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		if IsCircuitOpen(err) {
			b.log.Warn("Circuit breaker open, provider call blocked", zap.String("breaker", b.name))
		}
		var zero T
		if result != nil {
			if typed, ok := result.(T); ok {
				return typed, err
			}
		}
		return zero, err
	}

	return result.(T), nil
}

// IsCircuitOpen reports whether err was produced by an open or saturated breaker
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
