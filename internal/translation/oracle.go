package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/snonux/gradualbook/internal/apierr"
)

// Oracle translates a single word from one language to another.
type Oracle interface {
	Translate(ctx context.Context, word, sourceLang, targetLang string) (string, error)
}

// Detector is implemented by oracles that can name the language of a text
// sample. It returns an ISO 639-1 code.
type Detector interface {
	DetectLanguage(ctx context.Context, sample string) (string, error)
}

// ErrDetectUnsupported is returned when the backend cannot detect languages.
var ErrDetectUnsupported = errors.New("language detection not supported")

// TranslationError reports a failed lookup of one word.
type TranslationError struct {
	Word string
	Err  error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation of %q failed: %v", e.Word, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one lookup: a translation or the reason there is none.
type Result struct {
	Word        string
	Translation string
	Err         *TranslationError
}

// OK reports whether the lookup produced a translation.
func (r Result) OK() bool {
	return r.Err == nil
}

// Lookup asks the oracle for one word and folds every failure, including
// blank answers, into the result.
func Lookup(ctx context.Context, oracle Oracle, word, sourceLang, targetLang string) Result {
	raw, err := oracle.Translate(ctx, word, sourceLang, targetLang)
	if err != nil {
		return Result{Word: word, Err: &TranslationError{Word: word, Err: err}}
	}

	cleaned := clean(raw)
	if cleaned == "" {
		return Result{Word: word, Err: &TranslationError{Word: word, Err: apierr.ErrEmptyResult}}
	}
	return Result{Word: word, Translation: cleaned}
}

// quotes are stripped from both ends of an answer.
const quotes = "\"'`“”‘’«»"

// clean strips the quoting and the sentence-final full stop chat models like
// to add. Answers without a letter or digit are empty.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, quotes)
	s = trimFullStop(s)
	s = strings.TrimSpace(strings.Trim(s, quotes))

	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return ""
	}
	return s
}

// trimFullStop removes one trailing full stop. It is kept when the rest of
// the answer has other punctuation ("z.B.", "St. Petersburg.") or looks like
// an abbreviation ("Dr.").
func trimFullStop(s string) string {
	body, ok := strings.CutSuffix(strings.TrimRight(s, quotes), ".")
	if !ok || strings.ContainsAny(body, ".,;:!?") || isAbbreviation(body) {
		return s
	}
	return body
}

// isAbbreviation reports short capitalized single words such as "Dr" or "Nr".
func isAbbreviation(word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	n := utf8.RuneCountInString(word)
	return n > 0 && n <= 3 && unicode.IsUpper(first) && !strings.ContainsRune(word, ' ')
}
