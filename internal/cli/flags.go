package cli

import (
	"time"

	"codeberg.org/snonux/gradualbook/internal/apierr"
	"codeberg.org/snonux/gradualbook/internal/gradual"
	"codeberg.org/snonux/gradualbook/internal/lang"
	"codeberg.org/snonux/gradualbook/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputPath string
	BatchFile  string
	Jobs       int
	Archive    bool
	ListModels bool
	Quiet      bool

	// Translation flags
	SourceLanguage string
	TargetLanguage string
	MaxWords       int
	WindowSize     int
	MaxAttempts    int

	// Oracle flags
	Oracle         string
	Model          string
	BaseURL        string
	DictionaryFile string
	Timeout        time.Duration
	Retries        int

	// Book metadata overrides
	Title  string
	Author string

	// Glossary flags
	Glossary    bool
	GlossaryCSV bool
	DeckName    string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Jobs:           1,
		SourceLanguage: lang.Auto,
		MaxWords:       gradual.DefaultMaxWords,
		WindowSize:     gradual.DefaultWindowSize,
		MaxAttempts:    gradual.DefaultMaxAttempts,
		Oracle:         translation.ProviderOpenAI,
		Timeout:        30 * time.Second,
		Retries:        apierr.DefaultRetryConfig().MaxRetries,
		DeckName:       "Gradual Reading Vocabulary",
	}
}

// TranslationConfig returns the run settings for the orchestrator
func (f *Flags) TranslationConfig() gradual.Config {
	return gradual.Config{
		SourceLanguage: f.SourceLanguage,
		TargetLanguage: f.TargetLanguage,
		MaxWords:       f.MaxWords,
		WindowSize:     f.WindowSize,
		MaxAttempts:    f.MaxAttempts,
	}
}
