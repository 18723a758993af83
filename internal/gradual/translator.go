package gradual

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/gradualbook/internal/lang"
	"codeberg.org/snonux/gradualbook/internal/scanner"
	"codeberg.org/snonux/gradualbook/internal/substitute"
	"codeberg.org/snonux/gradualbook/internal/translation"
	"codeberg.org/snonux/gradualbook/internal/vocab"
)

// State is a step of the run state machine.
type State int

const (
	StateScanning State = iota
	StateTranslating
	StateSubstituting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateTranslating:
		return "translating"
	case StateSubstituting:
		return "substituting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event describes a state the run has entered.
type Event struct {
	State State
	// Position is the index of the first segment of the current window.
	Position int
	// Word is the candidate while translating and substituting.
	Word string
	// Learned is the vocabulary size.
	Learned int
}

// Stats summarizes a run.
type Stats struct {
	Windows  int // windows scanned
	Lookups  int // oracle lookups
	Failures int // failed lookups
	Skipped  int // windows without an eligible word
}

// Result is the outcome of a run.
type Result struct {
	Segments       []string
	Vocabulary     []vocab.Entry
	SourceLanguage string
	Stats          Stats
}

// Translator runs gradual translations with one oracle.
type Translator struct {
	oracle   translation.Oracle
	cfg      Config
	out      io.Writer
	observer func(Event)
}

// Option configures a Translator.
type Option func(*Translator)

// WithOutput sets where progress lines are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Translator) {
		if w != nil {
			t.out = w
		}
	}
}

// WithObserver registers a function called on every state change.
func WithObserver(fn func(Event)) Option {
	return func(t *Translator) {
		t.observer = fn
	}
}

// New creates a translator. The config is validated here so that Run only
// fails on cancellation.
func New(oracle translation.Oracle, cfg Config, opts ...Option) (*Translator, error) {
	if oracle == nil {
		return nil, errors.New("translation oracle is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Translator{oracle: oracle, cfg: cfg, out: os.Stdout}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// run holds the mutable state of one Run call.
type run struct {
	*Translator
	source   string
	segments []string
	vocab    *vocab.Vocabulary
	sub      *substitute.Substituter
	attempts map[string]int
	stats    Stats
}

// Run translates a copy of segments. The input is not modified.
//
// Words learned in a window are applied to that window and to every later
// segment. Run returns the context error if ctx is cancelled; no partial
// result is returned in that case.
func (t *Translator) Run(ctx context.Context, segments []string) (*Result, error) {
	r := &run{
		Translator: t,
		segments:   append([]string(nil), segments...),
		vocab:      vocab.New(t.cfg.MaxWords),
		sub:        substitute.New(lang.Tag(t.cfg.TargetLanguage)),
		attempts:   make(map[string]int),
	}
	r.source = r.detectSource(ctx)

	var (
		state     = StateScanning
		pos       int
		end       int
		candidate string
	)

	for state != StateDone {
		switch state {
		case StateScanning:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r.notify(Event{State: StateScanning, Position: pos, Learned: r.vocab.Len()})
			if r.vocab.Full() || pos >= len(r.segments) {
				state = StateDone
				continue
			}

			end = min(pos+t.cfg.WindowSize, len(r.segments))
			// Bring the window up to date with everything learned so far.
			r.sub.ApplyRange(r.segments, pos, end, r.vocab)
			r.stats.Windows++

			word, ok := scanner.Select(r.segments[pos:end], r.vocab.Seen(), r.source)
			if !ok {
				r.stats.Skipped++
				pos = end
				continue
			}
			candidate = word
			state = StateTranslating

		case StateTranslating:
			r.notify(Event{State: StateTranslating, Position: pos, Word: candidate, Learned: r.vocab.Len()})
			if r.translate(ctx, candidate, pos) {
				state = StateSubstituting
				continue
			}
			pos = end
			state = StateScanning

		case StateSubstituting:
			r.notify(Event{State: StateSubstituting, Position: pos, Word: candidate, Learned: r.vocab.Len()})
			r.sub.ApplyRange(r.segments, pos, end, r.vocab)
			pos = end
			state = StateScanning
		}
	}

	// Segments after the last scanned window still need the full vocabulary.
	r.sub.ApplyFrom(r.segments, pos, r.vocab)
	r.notify(Event{State: StateDone, Position: pos, Learned: r.vocab.Len()})

	return &Result{
		Segments:       r.segments,
		Vocabulary:     r.vocab.Entries(),
		SourceLanguage: r.source,
		Stats:          r.stats,
	}, nil
}

// translate looks up one word and learns it. It reports whether the
// vocabulary grew; failures are logged and never abort the run.
func (r *run) translate(ctx context.Context, word string, pos int) bool {
	r.stats.Lookups++
	// Attempts count per word, not per spelling.
	key := vocab.Canonical(word)
	res := translation.Lookup(ctx, r.oracle, word, r.source, r.cfg.TargetLanguage)
	if res.OK() {
		err := r.vocab.Add(word, res.Translation, pos)
		if err == nil {
			fmt.Fprintf(r.out, "%s -> %s\n", word, res.Translation)
			return true
		}
		res.Err = &translation.TranslationError{Word: word, Err: err}
		// The answer will not change on a second lookup.
		r.attempts[key] = r.cfg.MaxAttempts - 1
	}

	r.stats.Failures++
	r.attempts[key]++
	fmt.Fprintf(r.out, "Translation failed for '%s': %v\n", word, res.Err.Err)
	if r.attempts[key] >= r.cfg.MaxAttempts {
		r.vocab.Seen().AddWord(word)
	}
	return false
}

// detectSource resolves an auto source language with the oracle when it can
// detect languages. Detection failures leave the source on auto.
func (r *run) detectSource(ctx context.Context) string {
	if !lang.IsAuto(r.cfg.SourceLanguage) {
		return lang.Normalize(r.cfg.SourceLanguage)
	}

	detector, ok := r.oracle.(translation.Detector)
	if !ok || len(r.segments) == 0 {
		return lang.Auto
	}

	sample := strings.Join(r.segments[:min(detectSampleSegments, len(r.segments))], " ")
	code, err := detector.DetectLanguage(ctx, sample)
	if err != nil {
		fmt.Fprintf(r.out, "Language detection failed, continuing with auto: %v\n", err)
		return lang.Auto
	}
	fmt.Fprintf(r.out, "Detected source language: %s\n", code)
	return code
}

func (r *run) notify(e Event) {
	if r.observer != nil {
		r.observer(e)
	}
}
