package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/gradualbook/internal"
	"codeberg.org/snonux/gradualbook/internal/anki"
	"codeberg.org/snonux/gradualbook/internal/apierr"
	"codeberg.org/snonux/gradualbook/internal/archive"
	"codeberg.org/snonux/gradualbook/internal/batch"
	"codeberg.org/snonux/gradualbook/internal/cli"
	"codeberg.org/snonux/gradualbook/internal/epub"
	"codeberg.org/snonux/gradualbook/internal/gradual"
	"codeberg.org/snonux/gradualbook/internal/lang"
	"codeberg.org/snonux/gradualbook/internal/translation"
)

// Processor handles the main book processing logic
type Processor struct {
	flags  *cli.Flags
	reader *epub.Reader
	writer *epub.Writer

	// render writes the translated book, normally writer.Render.
	render func(w io.Writer, segments []string, meta epub.Metadata) error

	// out receives progress, errOut warnings.
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	// newOracle builds the translation service once per Processor.
	newOracle func(ctx context.Context) (translation.Oracle, error)
	oracle    translation.Oracle
	oracleMu  sync.Mutex
}

// BookSummary describes one translated book
type BookSummary struct {
	Input          string
	Output         string
	Glossary       string
	SourceLanguage string
	Learned        int
	Stats          gradual.Stats
}

// NewProcessor creates a new book processor
func NewProcessor(flags *cli.Flags) *Processor {
	p := &Processor{
		flags:  flags,
		reader: epub.NewReader(),
		writer: epub.NewWriter(),
		now:    time.Now,
	}
	p.render = p.writer.Render

	out := io.Writer(os.Stdout)
	if flags.Quiet {
		out = io.Discard
	}
	p.setOutput(out, os.Stderr)
	p.newOracle = p.buildOracle
	return p
}

// setOutput routes progress to out and warnings to errOut. Both share one
// lock because batch jobs and the circuit breaker write concurrently.
func (p *Processor) setOutput(out, errOut io.Writer) {
	mu := &sync.Mutex{}
	p.out = &lockedWriter{mu: mu, w: out}
	p.errOut = &lockedWriter{mu: mu, w: errOut}
}

// lockedWriter serializes writes to w.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}

func (p *Processor) buildOracle(ctx context.Context) (translation.Oracle, error) {
	cfg := translation.Config{
		Provider: p.flags.Oracle,
		APIKey:   cli.GetAPIKey(p.flags.Oracle),
		Model:    p.flags.Model,
		BaseURL:  p.flags.BaseURL,
		Timeout:  p.flags.Timeout,
		Retry:    apierr.DefaultRetryConfig(),
		Breaker:  translation.DefaultBreakerSettings(),
		Log:      p.errOut,
	}
	cfg.Retry.MaxRetries = p.flags.Retries

	if p.flags.DictionaryFile != "" {
		dict, err := batch.ReadDictionary(p.flags.DictionaryFile)
		if err != nil {
			return nil, err
		}
		cfg.Dictionary = dict
	}

	return translation.NewOracle(ctx, cfg)
}

// getOracle returns the shared oracle, building it on first use. Books of
// one batch share a circuit breaker this way.
func (p *Processor) getOracle(ctx context.Context) (translation.Oracle, error) {
	p.oracleMu.Lock()
	defer p.oracleMu.Unlock()

	if p.oracle != nil {
		return p.oracle, nil
	}
	oracle, err := p.newOracle(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up translation service: %w", err)
	}
	p.oracle = oracle
	return oracle, nil
}

// ProcessBook translates a single book. An empty output derives the path
// from the input and target language.
func (p *Processor) ProcessBook(ctx context.Context, input, output string) error {
	summary, err := p.translateBook(ctx, input, output, p.out)
	if err != nil {
		return err
	}
	p.printSummary(summary)
	return nil
}

// ProcessBatch translates every book listed in the batch file, --jobs at a
// time. A failed book does not stop the others.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no books found in batch file %s", p.flags.BatchFile)
	}

	// Fail early on config problems instead of once per book
	if err := p.flags.TranslationConfig().Validate(); err != nil {
		return err
	}
	if _, err := p.getOracle(ctx); err != nil {
		return err
	}

	jobs := p.flags.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var (
		mu        sync.Mutex
		summaries = make([]*BookSummary, len(entries))
		failed    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, entry := range entries {
		g.Go(func() error {
			fmt.Fprintf(p.out, "\nTranslating %d/%d: %s\n", i+1, len(entries), entry.Input)

			// Parallel books would interleave word lines
			progress := p.out
			if jobs > 1 {
				progress = io.Discard
			}

			summary, err := p.translateBook(gctx, entry.Input, entry.Output, progress)
			if err != nil {
				// Cancellation stops the whole batch
				if gctx.Err() != nil {
					return gctx.Err()
				}
				fmt.Fprintf(p.errOut, "Error translating '%s': %v\n", entry.Input, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Translation Summary ===\n")
	for _, s := range summaries {
		if s != nil {
			fmt.Fprintf(p.out, "  ✓ %s -> %s (%d words)\n", s.Input, s.Output, s.Learned)
		}
	}
	fmt.Fprintf(p.out, "Total books: %d\n", len(entries))
	fmt.Fprintf(p.out, "Translated: %d\n", len(entries)-failed)
	if failed > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", failed)
	}
	fmt.Fprintf(p.out, "=================================\n")

	if failed > 0 {
		return fmt.Errorf("%d of %d books failed", failed, len(entries))
	}
	return nil
}

func (p *Processor) translateBook(ctx context.Context, input, output string, progress io.Writer) (*BookSummary, error) {
	cfg := p.flags.TranslationConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if output == "" {
		output = internal.DerivedOutputPath(input, lang.Normalize(cfg.TargetLanguage))
	}
	if samePath(input, output) {
		return nil, fmt.Errorf("output %s would overwrite the input book", output)
	}

	book, err := p.reader.Extract(input)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(progress, "Read %d paragraphs from %s\n", len(book.Segments), input)

	oracle, err := p.getOracle(ctx)
	if err != nil {
		return nil, err
	}
	translator, err := gradual.New(oracle, cfg, gradual.WithOutput(progress))
	if err != nil {
		return nil, err
	}

	result, err := translator.Run(ctx, book.Segments)
	if err != nil {
		return nil, err
	}

	if err := p.writeBook(output, result.Segments, p.metadata(book, result)); err != nil {
		return nil, err
	}

	summary := &BookSummary{
		Input:          input,
		Output:         output,
		SourceLanguage: result.SourceLanguage,
		Learned:        len(result.Vocabulary),
		Stats:          result.Stats,
	}

	if p.flags.Glossary && len(result.Vocabulary) > 0 {
		path, err := p.exportGlossary(output, book, result)
		if err != nil {
			// The book itself is complete
			fmt.Fprintf(p.errOut, "Warning: Failed to export glossary: %v\n", err)
		} else {
			summary.Glossary = path
		}
	}

	return summary, nil
}

func (p *Processor) metadata(book *epub.Book, result *gradual.Result) epub.Metadata {
	meta := epub.Metadata{
		Title:    book.Title,
		Author:   book.Author,
		Language: book.Language,
	}
	if p.flags.Title != "" {
		meta.Title = p.flags.Title
	}
	if p.flags.Author != "" {
		meta.Author = p.flags.Author
	}
	// Most of the text stays in the source language
	if !lang.IsAuto(result.SourceLanguage) {
		meta.Language = result.SourceLanguage
	}
	return meta
}

// archiveOutput moves an existing output out of the way when archiving is
// enabled.
func (p *Processor) archiveOutput(output string) error {
	if !p.flags.Archive {
		return nil
	}
	if _, err := os.Stat(output); err != nil {
		return nil
	}
	archived, err := archive.ArchiveFile(output, p.now())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Archived previous output to %s\n", archived)
	return nil
}

// writeBook renders into a temporary file next to output and renames it, so
// a failed render never leaves a partial book behind and never archives the
// previous one.
func (p *Processor) writeBook(output string, segments []string, meta epub.Metadata) (err error) {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".gradualbook-*.epub")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = p.render(tmp, segments, meta); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return &epub.RenderError{Err: err}
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err = p.archiveOutput(output); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), output); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// exportGlossary writes the learned words next to the output book and
// returns the glossary path.
func (p *Processor) exportGlossary(output string, book *epub.Book, result *gradual.Result) (string, error) {
	ext := ".apkg"
	if p.flags.GlossaryCSV {
		ext = ".csv"
	}
	path := strings.TrimSuffix(output, filepath.Ext(output)) + "-glossary" + ext

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     path,
		IncludeHeaders: true,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: lang.Normalize(p.flags.TargetLanguage),
	})
	gen.AddCards(anki.CardsFromVocabulary(result.Vocabulary, book.Segments))

	if p.flags.GlossaryCSV {
		if err := gen.GenerateCSV(); err != nil {
			return "", err
		}
	} else if err := gen.GenerateAPKG(path, p.flags.DeckName); err != nil {
		return "", err
	}

	total, withExample := gen.Stats()
	fmt.Fprintf(p.out, "Glossary: %d cards (%d with example sentence)\n", total, withExample)
	return path, nil
}

func (p *Processor) printSummary(s *BookSummary) {
	fmt.Fprintf(p.out, "\n=== Translation Summary ===\n")
	fmt.Fprintf(p.out, "Book: %s\n", s.Input)
	fmt.Fprintf(p.out, "Output: %s\n", s.Output)
	fmt.Fprintf(p.out, "Source language: %s\n", s.SourceLanguage)
	fmt.Fprintf(p.out, "Words learned: %d/%d\n", s.Learned, p.flags.MaxWords)
	fmt.Fprintf(p.out, "Windows scanned: %d\n", s.Stats.Windows)
	fmt.Fprintf(p.out, "Lookups: %d\n", s.Stats.Lookups)
	if s.Stats.Failures > 0 {
		fmt.Fprintf(p.out, "Failed lookups: %d\n", s.Stats.Failures)
	}
	if s.Glossary != "" {
		fmt.Fprintf(p.out, "Glossary: %s\n", s.Glossary)
	}
	fmt.Fprintf(p.out, "===========================\n")
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// IsCanceled reports whether err stems from an interrupted run
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
