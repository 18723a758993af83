package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/gradualbook/internal/translation"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the OpenAI API.
func NewLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cfg),
	}
}

// ChatModels returns the sorted IDs of models usable for word translation
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .gradualbook.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// isChatModel filters out speech, image, embedding and moderation models.
func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "whisper", "dall-e", "embedding", "moderation", "transcribe", "realtime", "image"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "chatgpt") ||
		(len(id) > 1 && id[0] == 'o' && id[1] >= '0' && id[1] <= '9')
}

// ListAvailableModels prints the chat models to w, marking the default
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nChat Models (usable with --model):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}

	for _, model := range chatModels {
		if model == translation.DefaultOpenAIModel {
			fmt.Fprintf(w, "  %s (default)\n", model)
			continue
		}
		fmt.Fprintf(w, "  %s\n", model)
	}

	return nil
}
