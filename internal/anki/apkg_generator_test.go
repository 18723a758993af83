package anki

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	if gen == nil {
		t.Fatal("NewAPKGGenerator returned nil")
	}

	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}

	if len(gen.cards) != 0 {
		t.Errorf("Expected empty cards slice, got %d cards", len(gen.cards))
	}

	if gen.sourceField != "Source" || gen.targetField != "Translation" {
		t.Errorf("Unexpected default field names %q/%q", gen.sourceField, gen.targetField)
	}
}

func TestSetFieldNames(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	gen.SetFieldNames("English", "Icelandic")
	if gen.sourceField != "English" || gen.targetField != "Icelandic" {
		t.Errorf("Expected English/Icelandic, got %q/%q", gen.sourceField, gen.targetField)
	}

	// Anki field names must be unique
	gen.SetFieldNames("English", "English")
	if gen.targetField != "Icelandic" {
		t.Errorf("Expected duplicate name to be ignored, got %q", gen.targetField)
	}
}

func TestGenerateAPKG(t *testing.T) {
	tempDir := t.TempDir()

	gen := NewAPKGGenerator("Test Reading Deck")
	gen.AddCard(Card{Source: "light", Translation: "ljós", Example: "The light is bright."})
	gen.AddCard(Card{Source: "house", Translation: "hús"})

	outputPath := filepath.Join(tempDir, "test.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG as zip: %v", err)
	}
	defer reader.Close()

	found := map[string]bool{}
	for _, file := range reader.File {
		found[file.Name] = true
		if file.Name == "media" {
			rc, err := file.Open()
			if err != nil {
				t.Fatalf("Failed to open media: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if string(data) != "{}" {
				t.Errorf("Expected empty media map, got %q", data)
			}
		}
	}

	for _, name := range []string{"collection.anki2", "media"} {
		if !found[name] {
			t.Errorf("Required file '%s' not found in APKG", name)
		}
	}
}

func TestCreateDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.anki2")

	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{Source: "cat", Translation: "köttur", Example: "The cat <sleeps>."})

	if err := gen.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("Database file was not created")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var noteCount, cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&noteCount); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cardCount); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if noteCount != 1 {
		t.Errorf("Expected 1 note, got %d", noteCount)
	}
	if cardCount != 2 {
		t.Errorf("Expected 2 cards (forward and reverse), got %d", cardCount)
	}

	var flds, sfld string
	var csum int64
	if err := db.QueryRow("SELECT flds, sfld, csum FROM notes").Scan(&flds, &sfld, &csum); err != nil {
		t.Fatalf("Failed to read note: %v", err)
	}
	fields := strings.Split(flds, "\x1f")
	if len(fields) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(fields))
	}
	if fields[0] != "cat" || fields[1] != "köttur" {
		t.Errorf("Unexpected fields %q", fields)
	}
	if fields[2] != "The cat &lt;sleeps&gt;." {
		t.Errorf("Expected escaped example, got %q", fields[2])
	}
	if sfld != "cat" {
		t.Errorf("Expected sort field 'cat', got %q", sfld)
	}
	if csum != fieldChecksum("cat") {
		t.Errorf("Expected checksum %d, got %d", fieldChecksum("cat"), csum)
	}

	var models string
	if err := db.QueryRow("SELECT models FROM col").Scan(&models); err != nil {
		t.Fatalf("Failed to read models: %v", err)
	}
	if !strings.Contains(models, "{{Example}}") {
		t.Error("Note type templates do not reference the Example field")
	}
}

func TestFieldChecksum(t *testing.T) {
	if got := fieldChecksum("light"); got < 0 || got > 0xffffffff {
		t.Errorf("Checksum out of 32 bit range: %d", got)
	}
	if fieldChecksum("light") == fieldChecksum("house") {
		t.Error("Different words should not share a checksum")
	}
}

func TestNoteGUID(t *testing.T) {
	a := noteGUID("Deck", Card{Source: "light"})
	b := noteGUID("Deck", Card{Source: "light", Translation: "other"})
	c := noteGUID("Other Deck", Card{Source: "light"})

	if a != b {
		t.Error("GUID should only depend on deck and source word")
	}
	if a == c {
		t.Error("GUID should differ between decks")
	}
	if !strings.HasPrefix(a, "gb_") {
		t.Errorf("Expected gb_ prefix, got %q", a)
	}
}
