package translation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"codeberg.org/snonux/gradualbook/internal/apierr"
)

// Supported oracle providers.
const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderDictionary = "dictionary"
)

// Config selects and tunes an oracle backend
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration

	// Dictionary holds the word list for the dictionary provider.
	Dictionary map[string]string

	Retry   apierr.RetryConfig
	Breaker BreakerSettings

	// NoBreaker disables the circuit breaker.
	NoBreaker bool
	// Log receives breaker state changes.
	Log io.Writer
}

// NewOracle builds the configured backend and wraps it with retries and a
// circuit breaker.
func NewOracle(ctx context.Context, cfg Config) (Oracle, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}

	var base Oracle
	switch provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI: %w", ErrNoAPIKey)
		}
		base = NewOpenAIOracle(cfg.APIKey,
			WithOpenAIModel(cfg.Model),
			WithOpenAIBaseURL(cfg.BaseURL),
			WithOpenAITimeout(cfg.Timeout))
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Gemini: %w", ErrNoAPIKey)
		}
		g, err := NewGeminiOracle(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		if cfg.Timeout > 0 {
			g.timeout = cfg.Timeout
		}
		base = g
	case ProviderDictionary:
		if len(cfg.Dictionary) == 0 {
			return nil, fmt.Errorf("dictionary provider needs a non-empty word list")
		}
		// Local lookups neither retry nor trip.
		return NewDictionaryOracle(cfg.Dictionary), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, gemini, dictionary)", cfg.Provider)
	}

	oracle := Oracle(NewRetryingOracle(base, cfg.Retry))
	if !cfg.NoBreaker {
		oracle = NewBreakerOracle(provider, oracle, cfg.Breaker, cfg.Log)
	}
	return oracle, nil
}
