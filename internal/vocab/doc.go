// Package vocab holds the state of one gradual translation run: the
// vocabulary learned so far (source word -> translation, in learning order)
// and the set of word forms that may no longer be picked for translation.
// Both are created empty per run and never persisted.
package vocab
