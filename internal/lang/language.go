// Package lang validates and normalizes the language tags used for the
// source and target side of a translation run.
package lang

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the source language value that requests detection.
const Auto = "auto"

// ErrInvalid indicates an invalid language code was specified.
var ErrInvalid = errors.New("invalid language code")

// Normalize lowercases a tag and uses hyphen separators.
// Accepts: "pt-BR", "pt_BR", "PT-BR" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// IsAuto reports whether code asks for source language detection.
// The empty string counts as auto.
func IsAuto(code string) bool {
	n := Normalize(code)
	return n == "" || n == Auto || n == "auto-detect"
}

// Validate checks a source language: a BCP 47 tag or auto.
func Validate(code string) error {
	if IsAuto(code) {
		return nil
	}
	return validateTag(code)
}

// ValidateTarget checks a target language. Auto is not allowed here.
func ValidateTarget(code string) error {
	if IsAuto(code) {
		return fmt.Errorf("target language must be set explicitly: %w", ErrInvalid)
	}
	return validateTag(code)
}

func validateTag(code string) error {
	tag, err := language.Parse(Normalize(code))
	if err != nil {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'is', 'pt-BR'): %w",
			code, ErrInvalid)
	}
	if base, conf := tag.Base(); conf == language.No || base.String() == "und" {
		return fmt.Errorf("unknown language %q: %w", code, ErrInvalid)
	}
	return nil
}

// Tag returns the parsed tag for code, or language.Und when code is auto or
// cannot be parsed.
func Tag(code string) language.Tag {
	if IsAuto(code) {
		return language.Und
	}
	tag, err := language.Parse(Normalize(code))
	if err != nil {
		return language.Und
	}
	return tag
}

// BaseCode extracts the ISO 639 base language from a tag.
// Examples: "pt-BR" -> "pt", "en" -> "en", "auto" -> ""
func BaseCode(code string) string {
	tag := Tag(code)
	if tag == language.Und {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// IsEnglish returns true if the code represents English.
func IsEnglish(code string) bool {
	return BaseCode(code) == "en"
}

// DisplayName returns the English name of a language for use in prompts.
// Falls back to the code itself for unknown tags.
func DisplayName(code string) string {
	tag := Tag(code)
	if tag == language.Und {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
