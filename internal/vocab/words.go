package vocab

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// IsWordRune reports whether r is part of a word: letters, digits and
// combining marks in any script.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// Fold returns the case-folded form of s. Forms that differ only in case
// fold to the same string: "ΚΑΙΡΟΣ" and "καιρος" both become "καιροσ",
// "STRASSE" and "straße" both become "strasse".
func Fold(s string) string {
	return folder.String(s)
}

// folder is stateless and shared between runs.
var folder = cases.Fold()

// Tokens splits text into runs of word runes as they appear.
// "Don't stop" -> ["Don", "t", "stop"]
func Tokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return !IsWordRune(r) })
}

// Words splits text into case-folded runs of word runes.
// "Don't stop" -> ["don", "t", "stop"]
func Words(text string) []string {
	fields := Tokens(text)
	for i, f := range fields {
		fields[i] = Fold(f)
	}
	return fields
}

// Canonical returns the lookup key of a word: leading and trailing
// punctuation stripped, case-folded.
// `"Light!"` -> "light"
func Canonical(word string) string {
	trimmed := strings.TrimFunc(word, func(r rune) bool {
		return !IsWordRune(r)
	})
	return Fold(trimmed)
}

// FlipFirst inverts the case of the first rune of s.
// "light" -> "Light", "Ljós" -> "ljós"
func FlipFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	switch {
	case unicode.IsUpper(r) || unicode.IsTitle(r):
		r = unicode.ToLower(r)
	case unicode.IsLower(r):
		r = unicode.ToUpper(r)
	default:
		return s
	}
	return string(r) + s[size:]
}
