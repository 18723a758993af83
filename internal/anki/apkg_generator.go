package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/net/html"
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName    string
	deckID      int64
	modelID     int64
	sourceField string
	targetField string
	cards       []Card
	now         func() time.Time
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	// Generate IDs based on timestamp to ensure uniqueness
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName:    deckName,
		deckID:      now,
		modelID:     now + 1,
		sourceField: "Source",
		targetField: "Translation",
		cards:       make([]Card, 0),
		now:         time.Now,
	}
}

// SetFieldNames names the source and translation fields of the note type.
func (g *APKGGenerator) SetFieldNames(source, target string) {
	if source != "" {
		g.sourceField = source
	}
	if target != "" && target != source {
		g.targetField = target
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG creates an .apkg file. The package holds the collection
// database and an empty media map.
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "gradualbook_anki_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.createZipPackage(dbPath, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range schema {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return tx.Commit()
}

// schema is the Anki 2.1 collection layout (schema version 11).
var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY,
		crt integer NOT NULL,
		mod integer NOT NULL,
		scm integer NOT NULL,
		ver integer NOT NULL,
		dty integer NOT NULL,
		usn integer NOT NULL,
		ls integer NOT NULL,
		conf text NOT NULL,
		models text NOT NULL,
		decks text NOT NULL,
		dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY,
		guid text NOT NULL,
		mid integer NOT NULL,
		mod integer NOT NULL,
		usn integer NOT NULL,
		tags text NOT NULL,
		flds text NOT NULL,
		sfld text NOT NULL,
		csum integer NOT NULL,
		flags integer NOT NULL,
		data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY,
		nid integer NOT NULL,
		did integer NOT NULL,
		ord integer NOT NULL,
		mod integer NOT NULL,
		usn integer NOT NULL,
		type integer NOT NULL,
		queue integer NOT NULL,
		due integer NOT NULL,
		ivl integer NOT NULL,
		factor integer NOT NULL,
		reps integer NOT NULL,
		lapses integer NOT NULL,
		left integer NOT NULL,
		odue integer NOT NULL,
		odid integer NOT NULL,
		flags integer NOT NULL,
		data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY,
		cid integer NOT NULL,
		usn integer NOT NULL,
		ease integer NOT NULL,
		ivl integer NOT NULL,
		lastIvl integer NOT NULL,
		factor integer NOT NULL,
		time integer NOT NULL,
		type integer NOT NULL
	)`,
	`CREATE TABLE graves (
		usn integer NOT NULL,
		oid integer NOT NULL,
		type integer NOT NULL
	)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

func deckConfig(id int64, name, desc string, now int64) map[string]interface{} {
	return map[string]interface{}{
		"id":               id,
		"name":             name,
		"mod":              now,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(tx *sql.Tx) error {
	now := g.now().Unix()

	decks := map[string]interface{}{
		"1": deckConfig(1, "Default", "", now),
		strconv.FormatInt(g.deckID, 10): deckConfig(g.deckID, g.deckName,
			"Words learned while reading with gradualbook", now),
	}

	models := map[string]interface{}{
		strconv.FormatInt(g.modelID, 10): g.createNoteTypeConfig(now),
	}

	conf := map[string]interface{}{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(g.modelID, 10),
		"dayLearnFirst": false,
	}

	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]interface{}{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]interface{}{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]interface{}{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": false,
			"replayq":  false,
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []interface{}{conf, models, decks, dconf} {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(b))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		encoded[0],
		encoded[1],
		encoded[2],
		encoded[3],
		"{}", // tags
	)
	return err
}

func field(name string, ord, size int) map[string]interface{} {
	return map[string]interface{}{
		"name":   name,
		"ord":    ord,
		"sticky": false,
		"rtl":    false,
		"font":   "Arial",
		"size":   size,
		"media":  []string{},
	}
}

// createNoteTypeConfig creates the note type configuration
func (g *APKGGenerator) createNoteTypeConfig(now int64) map[string]interface{} {
	return map[string]interface{}{
		"id":    g.modelID,
		"name":  "gradualbook Vocabulary (Basic + Reverse)",
		"type":  0,
		"mod":   now,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{1}}},
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds": []map[string]interface{}{
			field(g.sourceField, 0, 20),
			field(g.targetField, 1, 20),
			field("Example", 2, 16),
		},
		"tmpls": []map[string]interface{}{
			{
				"name":  "Forward",
				"ord":   0,
				"qfmt":  g.frontTemplate(g.sourceField),
				"afmt":  g.backTemplate(g.targetField),
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
			{
				"name":  "Reverse",
				"ord":   1,
				"qfmt":  g.frontTemplate(g.targetField),
				"afmt":  g.backTemplate(g.sourceField),
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": cardCSS,
	}
}

func (g *APKGGenerator) frontTemplate(fieldName string) string {
	return fmt.Sprintf(`<div class="front">
<div class="word">{{%s}}</div>
</div>`, fieldName)
}

func (g *APKGGenerator) backTemplate(fieldName string) string {
	return fmt.Sprintf(`{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="answer">{{%s}}</div>
{{#Example}}
<div class="example">{{Example}}</div>
{{/Example}}
</div>`, fieldName)
}

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.word {
  font-size: 28px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.answer {
  font-size: 32px;
  font-weight: bold;
  color: #c0392b;
  margin: 20px 0;
}

.example {
  font-size: 16px;
  color: #7f8c8d;
  margin-top: 20px;
  font-style: italic;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

// insertNotesAndCards inserts all notes and cards into the database
func (g *APKGGenerator) insertNotesAndCards(tx *sql.Tx) error {
	now := g.now()

	noteStmt, err := tx.Prepare(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	for i, card := range g.cards {
		// Leave space for 2 cards per note
		noteID := now.UnixMilli() + int64(i*3)

		// Join fields with field separator (ASCII 31)
		fields := strings.Join([]string{
			html.EscapeString(card.Source),
			html.EscapeString(card.Translation),
			html.EscapeString(card.Example),
		}, "\x1f")

		_, err := noteStmt.Exec(
			noteID,                     // id
			noteGUID(g.deckName, card), // guid
			g.modelID,                  // mid
			now.Unix(),                 // mod
			-1,                         // usn
			"gradualbook",              // tags
			fields,                     // flds
			card.Source,                // sfld (sort field)
			fieldChecksum(card.Source), // csum
			0,                          // flags
			"",                         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note for %q: %w", card.Source, err)
		}

		// Forward and reverse card; due is the position among new cards.
		for ord := 0; ord < 2; ord++ {
			_, err = cardStmt.Exec(
				noteID+1+int64(ord), // id
				noteID,              // nid
				g.deckID,            // did
				ord,                 // ord (template)
				now.Unix(),          // mod
				-1,                  // usn
				0,                   // type (0=new)
				0,                   // queue (0=new)
				i*2+ord+1,           // due
				0,                   // ivl
				0,                   // factor
				0,                   // reps
				0,                   // lapses
				0,                   // left
				0,                   // odue
				0,                   // odid
				0,                   // flags
				"",                  // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card for %q: %w", card.Source, err)
			}
		}
	}

	return nil
}

// noteGUID is stable for a deck and word so re-imports update notes.
func noteGUID(deckName string, card Card) string {
	sum := sha1.Sum([]byte(deckName + "\x1f" + card.Source))
	return fmt.Sprintf("gb_%x", sum[:8])
}

// fieldChecksum is Anki's duplicate check: the first 8 hex digits of the
// SHA-1 of the sort field.
func fieldChecksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// createZipPackage creates the final .apkg zip file
func (g *APKGGenerator) createZipPackage(dbPath, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	db, err := os.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := archive.Create("collection.anki2")
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, db); err != nil {
		return err
	}

	// No media files
	w, err = archive.Create("media")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "{}"); err != nil {
		return err
	}

	if err := archive.Close(); err != nil {
		return err
	}
	return zipFile.Close()
}
