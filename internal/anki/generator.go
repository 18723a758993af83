package anki

import (
	"encoding/csv"
	"fmt"
	"os"

	"codeberg.org/snonux/gradualbook/internal/lang"
	"codeberg.org/snonux/gradualbook/internal/vocab"
)

// Card represents one learned word as a flashcard
type Card struct {
	Source      string // canonical source word
	Translation string // the word it was replaced with
	Example     string // the paragraph the word was learned in, untranslated
}

// GeneratorOptions configures the glossary export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	SourceLanguage string // Names the source column
	TargetLanguage string // Names the translation column
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "glossary.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// CardsFromVocabulary turns learned words into cards in learning order. The
// example is taken from the untranslated segments at the position the word
// was learned, so it still shows the source word.
func CardsFromVocabulary(entries []vocab.Entry, segments []string) []Card {
	cards := make([]Card, 0, len(entries))
	for _, e := range entries {
		card := Card{Source: e.Word, Translation: e.Translation}
		if example, ok := findExample(e.Word, e.Segment, segments); ok {
			card.Example = example
		}
		cards = append(cards, card)
	}
	return cards
}

// findExample returns the first segment from start on that contains word.
func findExample(word string, start int, segments []string) (string, bool) {
	for i := max(start, 0); i < len(segments); i++ {
		for _, w := range vocab.Words(segments[i]) {
			if w == word {
				return segments[i], true
			}
		}
	}
	return "", false
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddCards adds several cards
func (g *Generator) AddCards(cards []Card) {
	g.cards = append(g.cards, cards...)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// Headers returns the column names for the configured languages
func (g *Generator) Headers() []string {
	return []string{
		columnName(g.options.SourceLanguage, "Source"),
		columnName(g.options.TargetLanguage, "Translation"),
		"Example",
	}
}

func columnName(code, fallback string) string {
	if lang.IsAuto(code) {
		return fallback
	}
	return lang.DisplayName(code)
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		if err := writer.Write(g.Headers()); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{card.Source, card.Translation, card.Example}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return file.Close()
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	apkgGen.SetFieldNames(g.Headers()[0], g.Headers()[1])

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withExample int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.Example != "" {
			withExample++
		}
	}

	return
}
