package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"SourceLanguage", flags.SourceLanguage, "auto"},
		{"TargetLanguage", flags.TargetLanguage, ""},
		{"MaxWords", flags.MaxWords, 200},
		{"WindowSize", flags.WindowSize, 3},
		{"MaxAttempts", flags.MaxAttempts, 2},
		{"Oracle", flags.Oracle, "openai"},
		{"Timeout", flags.Timeout, 30 * time.Second},
		{"Retries", flags.Retries, 2},
		{"Jobs", flags.Jobs, 1},
		{"DeckName", flags.DeckName, "Gradual Reading Vocabulary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Archive", flags.Archive},
		{"ListModels", flags.ListModels},
		{"Quiet", flags.Quiet},
		{"Glossary", flags.Glossary},
		{"GlossaryCSV", flags.GlossaryCSV},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should be false by default", tt.name)
			}
		})
	}
}

func TestTranslationConfig(t *testing.T) {
	flags := NewFlags()
	flags.SourceLanguage = "en"
	flags.TargetLanguage = "is"
	flags.MaxWords = 50
	flags.WindowSize = 5
	flags.MaxAttempts = 1

	cfg := flags.TranslationConfig()

	if cfg.SourceLanguage != "en" || cfg.TargetLanguage != "is" {
		t.Errorf("Expected languages en -> is, got %s -> %s", cfg.SourceLanguage, cfg.TargetLanguage)
	}
	if cfg.MaxWords != 50 {
		t.Errorf("Expected MaxWords 50, got %d", cfg.MaxWords)
	}
	if cfg.WindowSize != 5 {
		t.Errorf("Expected WindowSize 5, got %d", cfg.WindowSize)
	}
	if cfg.MaxAttempts != 1 {
		t.Errorf("Expected MaxAttempts 1, got %d", cfg.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestTranslationConfig_DefaultsNeedTarget(t *testing.T) {
	if err := NewFlags().TranslationConfig().Validate(); err == nil {
		t.Error("Expected validation error without target language")
	}
}
