package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/gradualbook/internal/apierr"
)

// chatServer answers chat completion requests with a fixed status and content.
type chatServer struct {
	*httptest.Server
	mu      sync.Mutex
	prompts []string
}

func newChatServer(t *testing.T, status int, content string) *chatServer {
	t.Helper()
	s := &chatServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		for _, m := range req.Messages {
			s.prompts = append(s.prompts, m.Content)
		}
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "test failure", "type": "test_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  DefaultOpenAIModel,
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *chatServer) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func TestNewOpenAIOracle(t *testing.T) {
	oracle := NewOpenAIOracle("test-api-key")

	if oracle.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", oracle.apiKey)
	}
	if oracle.model != DefaultOpenAIModel {
		t.Errorf("Expected model %s, got %s", DefaultOpenAIModel, oracle.model)
	}
	if oracle.client == nil {
		t.Error("OpenAI client not initialized")
	}

	oracle = NewOpenAIOracle("k", WithOpenAIModel("gpt-4o"), WithOpenAITimeout(time.Second))
	if oracle.model != "gpt-4o" {
		t.Errorf("Expected model gpt-4o, got %s", oracle.model)
	}
	if oracle.timeout != time.Second {
		t.Errorf("Expected timeout 1s, got %v", oracle.timeout)
	}
}

func TestOpenAITranslate_NoAPIKey(t *testing.T) {
	oracle := NewOpenAIOracle("")

	_, err := oracle.Translate(context.Background(), "light", "en", "is")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got: %v", err)
	}
}

func TestOpenAITranslate(t *testing.T) {
	server := newChatServer(t, http.StatusOK, "ljós")
	oracle := NewOpenAIOracle("test-key", WithOpenAIBaseURL(server.URL))

	got, err := oracle.Translate(context.Background(), "light", "en", "is")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "ljós" {
		t.Errorf("Expected 'ljós', got '%s'", got)
	}

	prompt := server.lastPrompt()
	if !strings.Contains(prompt, "'light'") || !strings.Contains(prompt, "Icelandic") {
		t.Errorf("Prompt does not name the word and target language: %q", prompt)
	}
	if !strings.Contains(prompt, "English") {
		t.Errorf("Prompt does not name the source language: %q", prompt)
	}
}

func TestOpenAITranslate_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apierr.ErrAuthFailed},
		{http.StatusTooManyRequests, apierr.ErrRateLimit},
		{http.StatusBadRequest, apierr.ErrBadRequest},
		{http.StatusServiceUnavailable, apierr.ErrUnavailable},
	}

	for _, tt := range tests {
		server := newChatServer(t, tt.status, "")
		oracle := NewOpenAIOracle("test-key", WithOpenAIBaseURL(server.URL))

		_, err := oracle.Translate(context.Background(), "light", "en", "is")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestOpenAIDetectLanguage(t *testing.T) {
	server := newChatServer(t, http.StatusOK, "EN.")
	oracle := NewOpenAIOracle("test-key", WithOpenAIBaseURL(server.URL))

	got, err := oracle.DetectLanguage(context.Background(), "The light of the world")
	if err != nil {
		t.Fatalf("DetectLanguage failed: %v", err)
	}
	if got != "en" {
		t.Errorf("Expected 'en', got '%s'", got)
	}
}

func TestParseLanguageCode(t *testing.T) {
	tests := []struct {
		answer  string
		want    string
		wantErr bool
	}{
		{"en", "en", false},
		{" DE ", "de", false},
		{"\"fr\".", "fr", false},
		{"EN.", "en", false},
		{"pt-BR", "pt", false},
		{"", "", true},
		{"123", "", true},
	}

	for _, tt := range tests {
		got, err := parseLanguageCode(tt.answer)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLanguageCode(%q) error = %v, wantErr %v", tt.answer, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLanguageCode(%q) = %q, want %q", tt.answer, got, tt.want)
		}
	}
}

func TestTranslatePrompt_AutoSource(t *testing.T) {
	prompt := translatePrompt("Licht", "auto", "en")
	if strings.Contains(prompt, "auto") {
		t.Errorf("Prompt should not mention 'auto': %q", prompt)
	}
	if !strings.Contains(prompt, "'Licht'") {
		t.Errorf("Prompt should contain the word: %q", prompt)
	}
}
