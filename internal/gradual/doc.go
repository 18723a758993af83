// Package gradual runs the incremental vocabulary translation of a book.
//
// A run walks the book's segments in fixed-size windows. In every window the
// most frequent word that has not been seen yet is sent to the translation
// oracle, and once translated it replaces the source word in that window and
// every later segment. Segments of earlier windows are never rewritten, so the
// density of target-language words grows as the reader progresses.
//
// The run is a small state machine (scanning, translating, substituting,
// done) owned by a single goroutine. Translation failures are reported and
// skipped; only cancellation aborts a run.
package gradual
