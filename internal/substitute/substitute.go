// Package substitute replaces learned words in text with their
// translations, keeping the casing of the replaced word and the punctuation
// around it.
package substitute

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"codeberg.org/snonux/gradualbook/internal/vocab"
)

// Lookup resolves a canonical source word to its translation.
type Lookup interface {
	Lookup(canonical string) (string, bool)
}

// Substituter applies a vocabulary to text. Casing of translations follows
// the rules of the target language. A Substituter is not safe for
// concurrent use.
type Substituter struct {
	upper cases.Caser
	lower cases.Caser
}

// New creates a Substituter for translations in the target language.
func New(target language.Tag) *Substituter {
	return &Substituter{
		upper: cases.Upper(target),
		lower: cases.Lower(target),
	}
}

// Apply replaces every whole word of text found in v. A word starts and
// ends with a word rune and may contain apostrophes and hyphens, so
// "don't" is one word and never matches "don". Everything between words is
// copied unchanged.
func (s *Substituter) Apply(text string, v Lookup) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			b.WriteString(text[i : i+size])
			i += size
			continue
		}
		end := wordEnd(text, i)
		b.WriteString(s.replace(text[i:end], v))
		i = end
	}

	return b.String()
}

// ApplyRange applies v to segments[from:to] in place.
func (s *Substituter) ApplyRange(segments []string, from, to int, v Lookup) {
	from = max(from, 0)
	to = min(to, len(segments))
	for i := from; i < to; i++ {
		segments[i] = s.Apply(segments[i], v)
	}
}

// ApplyFrom applies v to every segment from index from onward.
func (s *Substituter) ApplyFrom(segments []string, from int, v Lookup) {
	s.ApplyRange(segments, from, len(segments), v)
}

// replace returns the translation of word with restored casing, or word
// itself when it is not in the vocabulary.
func (s *Substituter) replace(word string, v Lookup) string {
	translated, ok := v.Lookup(vocab.Fold(word))
	if !ok {
		return word
	}

	switch {
	case isAllUpper(word):
		return s.upper.String(translated)
	case startsUpper(word):
		return s.capitalize(translated)
	default:
		return s.lower.String(translated)
	}
}

// capitalize uppercases the first rune and lowercases the rest.
func (s *Substituter) capitalize(text string) string {
	lowered := s.lower.String(text)
	_, size := utf8.DecodeRuneInString(lowered)
	if size == 0 {
		return lowered
	}
	return s.upper.String(lowered[:size]) + lowered[size:]
}

// wordEnd returns the byte offset just past the word starting at start.
func wordEnd(text string, start int) int {
	end := start
	for j := start; j < len(text); {
		r, size := utf8.DecodeRuneInString(text[j:])
		switch {
		case isWordRune(r):
			j += size
			end = j
		case isJoiner(r):
			j += size
		default:
			return end
		}
	}
	return end
}

func isWordRune(r rune) bool {
	return vocab.IsWordRune(r)
}

// isJoiner reports runes allowed inside a word.
func isJoiner(r rune) bool {
	return r == '\'' || r == '’' || r == '-'
}

// isAllUpper reports whether word has cased letters and none is lowercase.
func isAllUpper(word string) bool {
	cased := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r) || unicode.IsTitle(r)
}
