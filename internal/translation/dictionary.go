package translation

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/gradualbook/internal/vocab"
)

// ErrNotInDictionary is returned for words a DictionaryOracle does not know.
var ErrNotInDictionary = errors.New("word not in dictionary")

// DictionaryOracle answers from a fixed word list. It ignores the language
// pair: the list is assumed to match the run's languages.
type DictionaryOracle struct {
	entries map[string]string
}

// NewDictionaryOracle creates an oracle from source -> translation pairs.
// Keys are canonicalized.
func NewDictionaryOracle(entries map[string]string) *DictionaryOracle {
	d := &DictionaryOracle{entries: make(map[string]string, len(entries))}
	for word, translation := range entries {
		d.entries[vocab.Canonical(word)] = translation
	}
	return d
}

// Translate looks the word up
func (d *DictionaryOracle) Translate(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	translation, ok := d.entries[vocab.Canonical(word)]
	if !ok {
		return "", fmt.Errorf("%q: %w", word, ErrNotInDictionary)
	}
	return translation, nil
}

// Len returns the number of known words.
func (d *DictionaryOracle) Len() int {
	return len(d.entries)
}
