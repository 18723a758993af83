package gradual

import (
	"fmt"

	"codeberg.org/snonux/gradualbook/internal/lang"
)

// Defaults for a translation run.
const (
	DefaultMaxWords    = 200
	DefaultWindowSize  = 3
	DefaultMaxAttempts = 2

	// detectSampleSegments is how many leading segments are sent for
	// source language detection.
	detectSampleSegments = 5
)

// Config holds the settings of one run
type Config struct {
	// SourceLanguage is a language tag or "auto".
	SourceLanguage string
	// TargetLanguage is a language tag.
	TargetLanguage string
	// MaxWords is the number of distinct words to translate.
	MaxWords int
	// WindowSize is the number of segments scanned per window.
	WindowSize int
	// MaxAttempts is how often a failing word is looked up before it is
	// given up on for the rest of the run.
	MaxAttempts int
}

// DefaultConfig returns a config with auto-detected source language and the
// default budget. The target language must still be set.
func DefaultConfig() Config {
	return Config{
		SourceLanguage: lang.Auto,
		MaxWords:       DefaultMaxWords,
		WindowSize:     DefaultWindowSize,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

// Validate checks the config
func (c Config) Validate() error {
	if err := lang.Validate(c.SourceLanguage); err != nil {
		return fmt.Errorf("source language: %w", err)
	}
	if err := lang.ValidateTarget(c.TargetLanguage); err != nil {
		return fmt.Errorf("target language: %w", err)
	}
	if !lang.IsAuto(c.SourceLanguage) && lang.BaseCode(c.SourceLanguage) == lang.BaseCode(c.TargetLanguage) {
		return fmt.Errorf("source and target language are both %q", lang.BaseCode(c.TargetLanguage))
	}
	if c.MaxWords <= 0 {
		return fmt.Errorf("max words must be positive, got %d", c.MaxWords)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}
