package translation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/gradualbook/internal/apierr"
)

// BreakerSettings tunes the circuit breaker in front of an oracle.
type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultBreakerSettings returns the settings used by NewOracle.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// BreakerOracle stops calling a failing backend for a while so a run
// degrades to skipped words instead of hammering the API.
type BreakerOracle struct {
	next Oracle
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerOracle wraps next in a circuit breaker. State changes are
// reported to log when it is not nil.
func NewBreakerOracle(name string, next Oracle, s BreakerSettings, log io.Writer) *BreakerOracle {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = DefaultBreakerSettings().ConsecutiveFailures
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// Refusals and cancellations do not count against the backend.
			return err == nil || errors.Is(err, ErrNotInDictionary) ||
				errors.Is(err, apierr.ErrBadRequest) || errors.Is(err, context.Canceled)
		},
	}
	if log != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			fmt.Fprintf(log, "Oracle %s: circuit %s -> %s\n", name, from, to)
		}
	}

	return &BreakerOracle{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Translate calls the wrapped oracle unless the breaker is open.
func (b *BreakerOracle) Translate(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, word, sourceLang, targetLang)
	})
	if err != nil {
		return "", breakerError(err)
	}
	return out.(string), nil
}

// DetectLanguage forwards to the wrapped oracle when it can detect languages.
func (b *BreakerOracle) DetectLanguage(ctx context.Context, sample string) (string, error) {
	detector, ok := b.next.(Detector)
	if !ok {
		return "", ErrDetectUnsupported
	}
	out, err := b.cb.Execute(func() (interface{}, error) {
		return detector.DetectLanguage(ctx, sample)
	})
	if err != nil {
		return "", breakerError(err)
	}
	return out.(string), nil
}

// State returns the breaker state.
func (b *BreakerOracle) State() gobreaker.State {
	return b.cb.State()
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%v: %w", err, apierr.ErrUnavailable)
	}
	return err
}
