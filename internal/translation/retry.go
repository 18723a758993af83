package translation

import (
	"context"

	"codeberg.org/snonux/gradualbook/internal/apierr"
)

// RetryingOracle retries transient oracle failures with exponential backoff.
type RetryingOracle struct {
	next Oracle
	cfg  apierr.RetryConfig
}

// NewRetryingOracle wraps next with the given retry policy.
func NewRetryingOracle(next Oracle, cfg apierr.RetryConfig) *RetryingOracle {
	return &RetryingOracle{next: next, cfg: cfg}
}

// Translate calls the wrapped oracle until it succeeds, fails permanently,
// or the retries are used up.
func (r *RetryingOracle) Translate(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	return apierr.RetryWithBackoff(ctx, r.cfg, func() (string, error) {
		return r.next.Translate(ctx, word, sourceLang, targetLang)
	}, apierr.IsRetryable)
}

// DetectLanguage forwards to the wrapped oracle when it can detect languages.
func (r *RetryingOracle) DetectLanguage(ctx context.Context, sample string) (string, error) {
	detector, ok := r.next.(Detector)
	if !ok {
		return "", ErrDetectUnsupported
	}
	return apierr.RetryWithBackoff(ctx, r.cfg, func() (string, error) {
		return detector.DetectLanguage(ctx, sample)
	}, apierr.IsRetryable)
}
