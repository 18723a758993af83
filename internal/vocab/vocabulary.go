package vocab

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBudgetExhausted is returned when the vocabulary already holds MaxWords entries.
	ErrBudgetExhausted = errors.New("vocabulary budget exhausted")

	// ErrDuplicate is returned when a word is already in the vocabulary.
	ErrDuplicate = errors.New("word already translated")

	// ErrCollision is returned when a translation contains a word that is a
	// vocabulary key itself. Substituting it would not be idempotent.
	ErrCollision = errors.New("translation collides with a translated word")

	// ErrEmpty is returned for blank words or translations.
	ErrEmpty = errors.New("empty word or translation")
)

// Entry is one learned word.
type Entry struct {
	Word        string // canonical source form
	Translation string
	Segment     int // first segment the translation applies to
}

// Vocabulary maps canonical source words to translations. It only grows,
// never exceeds its budget and keeps the learning order.
type Vocabulary struct {
	maxWords int
	index    map[string]int
	entries  []Entry
	targets  map[string]struct{} // words occurring in translations
	seen     *SeenSet
}

// New creates an empty vocabulary that accepts at most maxWords entries.
func New(maxWords int) *Vocabulary {
	return &Vocabulary{
		maxWords: maxWords,
		index:    make(map[string]int),
		targets:  make(map[string]struct{}),
		seen:     NewSeenSet(),
	}
}

// Add learns a translation. On success the source word (as typed and in
// canonical form) and the translation are recorded in the seen set.
func (v *Vocabulary) Add(word, translation string, segment int) error {
	key := Canonical(word)
	translation = strings.TrimSpace(translation)
	if key == "" || translation == "" {
		return ErrEmpty
	}
	if _, ok := v.index[key]; ok {
		return fmt.Errorf("%q: %w", key, ErrDuplicate)
	}
	if v.Full() {
		return ErrBudgetExhausted
	}
	if err := v.checkCollision(key, translation); err != nil {
		return err
	}

	v.index[key] = len(v.entries)
	v.entries = append(v.entries, Entry{Word: key, Translation: translation, Segment: segment})
	for _, w := range Words(translation) {
		v.targets[w] = struct{}{}
	}

	v.seen.AddWord(word)
	v.seen.Add(key)
	v.seen.AddWord(translation)
	return nil
}

// checkCollision rejects translations containing a word that is (or is
// about to become) a vocabulary key, unless the translation is the word
// itself, and keys that already occur inside an earlier translation.
func (v *Vocabulary) checkCollision(key, translation string) error {
	if _, ok := v.targets[key]; ok {
		return fmt.Errorf("%q already occurs in a translation: %w", key, ErrCollision)
	}
	if Canonical(translation) == key {
		return nil
	}
	for _, w := range Words(translation) {
		if w == key {
			return fmt.Errorf("%q -> %q repeats the source word: %w", key, translation, ErrCollision)
		}
		if _, ok := v.index[w]; ok {
			return fmt.Errorf("%q -> %q contains %q: %w", key, translation, w, ErrCollision)
		}
	}
	return nil
}

// Lookup returns the translation of a canonical word.
func (v *Vocabulary) Lookup(canonical string) (string, bool) {
	i, ok := v.index[canonical]
	if !ok {
		return "", false
	}
	return v.entries[i].Translation, true
}

// Seen returns the run's seen set.
func (v *Vocabulary) Seen() *SeenSet {
	return v.seen
}

// Len returns the number of learned words.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// MaxWords returns the budget.
func (v *Vocabulary) MaxWords() int {
	return v.maxWords
}

// Full reports whether the budget is used up.
func (v *Vocabulary) Full() bool {
	return len(v.entries) >= v.maxWords
}

// Entries returns the learned words in learning order.
func (v *Vocabulary) Entries() []Entry {
	// Return a copy to prevent external modification
	result := make([]Entry, len(v.entries))
	copy(result, v.entries)
	return result
}
