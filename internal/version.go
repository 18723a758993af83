package internal

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Version is the gradualbook release version.
const Version = "0.3.0"

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DerivedOutputPath returns the default output path for a translated book:
// the input file name with the target language appended, next to the input.
// Example: books/dune.epub, "is" -> books/dune-is.epub
func DerivedOutputPath(input, targetLang string) string {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"-"+SanitizeFilename(targetLang)+".epub")
}

// isAlphaNumeric checks if a rune is alphanumeric in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
