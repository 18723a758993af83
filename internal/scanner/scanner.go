// Package scanner picks the next word to translate from a window of
// consecutive segments: the most frequent word that has not been seen yet.
package scanner

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"codeberg.org/snonux/gradualbook/internal/lang"
	"codeberg.org/snonux/gradualbook/internal/vocab"
)

// SeenChecker reports whether a word form is excluded from selection.
type SeenChecker interface {
	Contains(form string) bool
}

// Count is the frequency of one word within a window.
type Count struct {
	Word  string
	Count int
	First int // token index of the first occurrence
}

// stopWords never get selected.
var stopWords = map[string]map[string]bool{
	"en": {"a": true},
}

// IsStopWord reports whether word is excluded for the given source language.
func IsStopWord(word, sourceLang string) bool {
	return stopWords[lang.BaseCode(sourceLang)][word]
}

// Tokenize splits text into case-folded word tokens.
func Tokenize(text string) []string {
	return vocab.Words(text)
}

// Frequencies counts tokens and ranks them by descending count. Ties keep
// the order of first occurrence.
func Frequencies(tokens []string) []Count {
	index := make(map[string]int)
	var counts []Count

	for i, tok := range tokens {
		if j, ok := index[tok]; ok {
			counts[j].Count++
			continue
		}
		index[tok] = len(counts)
		counts = append(counts, Count{Word: tok, Count: 1, First: i})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Select returns the highest ranked eligible word of the window, or false
// when every word in it is seen or a stop word. Words are counted by their
// case-folded form; the result is the first occurrence in lower case.
func Select(window []string, seen SeenChecker, sourceLang string) (string, bool) {
	tokens := vocab.Tokens(strings.Join(window, " "))
	keys := make([]string, len(tokens))
	for i, tok := range tokens {
		keys[i] = vocab.Fold(tok)
	}

	for _, c := range Frequencies(keys) {
		if seen.Contains(c.Word) || IsStopWord(c.Word, sourceLang) {
			continue
		}
		return cases.Lower(lang.Tag(sourceLang)).String(tokens[c.First]), true
	}
	return "", false
}
