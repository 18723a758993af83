package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/gradualbook/internal/apierr"
	"codeberg.org/snonux/gradualbook/internal/lang"
)

// DefaultOpenAIModel is the chat model used for word lookups.
const DefaultOpenAIModel = openai.GPT4oMini

// defaultRequestTimeout bounds a single chat completion request.
const defaultRequestTimeout = 30 * time.Second

// ErrNoAPIKey is returned when an oracle is used without credentials.
var ErrNoAPIKey = errors.New("API key not found")

// OpenAIOracle translates words with an OpenAI chat model
type OpenAIOracle struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *openai.Client
}

// OpenAIOption configures an OpenAIOracle.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model   string
	baseURL string
	timeout time.Duration
}

// WithOpenAIModel sets the chat model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at another endpoint (proxies, tests).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = url
	}
}

// WithOpenAITimeout sets the per-request timeout.
func WithOpenAITimeout(d time.Duration) OpenAIOption {
	return func(c *openAIConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewOpenAIOracle creates a new OpenAI backed oracle
func NewOpenAIOracle(apiKey string, opts ...OpenAIOption) *OpenAIOracle {
	cfg := openAIConfig{model: DefaultOpenAIModel, timeout: defaultRequestTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	return &OpenAIOracle{
		apiKey:  apiKey,
		model:   cfg.model,
		timeout: cfg.timeout,
		client:  openai.NewClientWithConfig(clientCfg),
	}
}

// Translate translates one word
func (o *OpenAIOracle) Translate(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	return o.complete(ctx, translatePrompt(word, sourceLang, targetLang), 50)
}

// DetectLanguage names the language of a text sample
func (o *OpenAIOracle) DetectLanguage(ctx context.Context, sample string) (string, error) {
	answer, err := o.complete(ctx, detectPrompt(sample), 10)
	if err != nil {
		return "", err
	}
	return parseLanguageCode(answer)
}

func (o *OpenAIOracle) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OpenAI: %w", ErrNoAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI: no choices returned: %w", apierr.ErrEmptyResult)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyOpenAIError maps client errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 && apiErr.Code == "insufficient_quota" {
			return fmt.Errorf("OpenAI API error: %s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		}
		if sentinel := apierr.FromStatus(apiErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("OpenAI API error: %s: %w", apiErr.Message, sentinel)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if sentinel := apierr.FromStatus(reqErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("OpenAI request error: %w", sentinel)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("OpenAI: %w", apierr.ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("OpenAI API error: %v: %w", err, apierr.ErrUnavailable)
}

func translatePrompt(word, sourceLang, targetLang string) string {
	target := lang.DisplayName(targetLang)
	if lang.IsAuto(sourceLang) {
		return fmt.Sprintf("Translate the word '%s' to %s. Respond with only the %s translation, nothing else.",
			word, target, target)
	}
	return fmt.Sprintf("Translate the %s word '%s' to %s. Respond with only the %s translation, nothing else.",
		lang.DisplayName(sourceLang), word, target, target)
}

func detectPrompt(sample string) string {
	return fmt.Sprintf("Which language is the following text written in? Respond with only its ISO 639-1 code, nothing else.\n\n%s", sample)
}

// parseLanguageCode validates a detection answer such as "en" or "EN.".
func parseLanguageCode(answer string) (string, error) {
	// Codes never end in punctuation, so every trailing stop goes.
	code := lang.Normalize(strings.TrimRight(clean(answer), "."))
	if lang.IsAuto(code) {
		return "", fmt.Errorf("no language detected: %w", apierr.ErrEmptyResult)
	}
	if err := lang.ValidateTarget(code); err != nil {
		return "", err
	}
	return lang.BaseCode(code), nil
}
