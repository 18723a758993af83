package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"codeberg.org/snonux/gradualbook/internal/apierr"
)

// DefaultGeminiModel is the Gemini model used for word lookups.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiOracle translates words with a Gemini model
type GeminiOracle struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *genai.Client
}

// NewGeminiOracle creates a Gemini backed oracle. The client is created
// lazily on the first request when apiKey is set.
func NewGeminiOracle(ctx context.Context, apiKey, model string) (*GeminiOracle, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	o := &GeminiOracle{apiKey: apiKey, model: model, timeout: defaultRequestTimeout}
	if apiKey == "" {
		return o, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	o.client = client
	return o, nil
}

// Translate translates one word
func (o *GeminiOracle) Translate(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	return o.generate(ctx, translatePrompt(word, sourceLang, targetLang))
}

// DetectLanguage names the language of a text sample
func (o *GeminiOracle) DetectLanguage(ctx context.Context, sample string) (string, error) {
	answer, err := o.generate(ctx, detectPrompt(sample))
	if err != nil {
		return "", err
	}
	return parseLanguageCode(answer)
}

func (o *GeminiOracle) generate(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" || o.client == nil {
		return "", fmt.Errorf("Gemini: %w", ErrNoAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini: no text returned: %w", apierr.ErrEmptyResult)
	}
	return text, nil
}

// classifyGeminiError maps client errors to apierr sentinels.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if sentinel := apierr.FromStatus(apiErr.Code); sentinel != nil {
			return fmt.Errorf("Gemini API error: %s: %w", apiErr.Message, sentinel)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("Gemini: %w", apierr.ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("Gemini API error: %v: %w", err, apierr.ErrUnavailable)
}
