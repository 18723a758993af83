package epub

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/gradualbook/internal/testutil"
)

func fixedWriter() *Writer {
	return &Writer{
		NewID: func() string { return "0000-test" },
		Now:   func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func readEntries(t *testing.T, data []byte) ([]*zip.File, map[string]string) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Rendered book is not a zip: %v", err)
	}

	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f.Name, err)
		}
		contents[f.Name] = string(b)
	}
	return zr.File, contents
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	segments := []string{"Ljós & <hús>", "first\nsecond"}

	if err := fixedWriter().Render(&buf, segments, Metadata{Title: "My Book", Author: "Me", Language: "en"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	files, contents := readEntries(t, buf.Bytes())

	if files[0].Name != "mimetype" || files[0].Method != zip.Store {
		t.Errorf("Expected stored mimetype as first entry, got %s (method %d)", files[0].Name, files[0].Method)
	}
	if contents["mimetype"] != "application/epub+zip" {
		t.Errorf("Unexpected mimetype %q", contents["mimetype"])
	}

	chapter := contents["EPUB/translated.xhtml"]
	for _, want := range []string{
		"<p>Ljós &amp; &lt;hús&gt;</p>",
		"<p>first<br/>second</p>",
	} {
		if !strings.Contains(chapter, want) {
			t.Errorf("Chapter does not contain %q:\n%s", want, chapter)
		}
	}
	if strings.Index(chapter, "Ljós") > strings.Index(chapter, "first") {
		t.Error("Segments are not in input order")
	}

	opf := contents["EPUB/content.opf"]
	for _, want := range []string{
		"<dc:title>My Book</dc:title>",
		"<dc:creator>Me</dc:creator>",
		"<dc:language>en</dc:language>",
		"urn:uuid:0000-test",
		`<meta property="dcterms:modified">2026-01-02T03:04:05Z</meta>`,
	} {
		if !strings.Contains(opf, want) {
			t.Errorf("Package document does not contain %q:\n%s", want, opf)
		}
	}

	for _, name := range []string{containerPath, "EPUB/nav.xhtml", "EPUB/toc.ncx"} {
		if _, ok := contents[name]; !ok {
			t.Errorf("Missing %s", name)
		}
	}
}

func TestRender_Defaults(t *testing.T) {
	var buf bytes.Buffer
	if err := fixedWriter().Render(&buf, []string{"text"}, Metadata{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	_, contents := readEntries(t, buf.Bytes())
	opf := contents["EPUB/content.opf"]
	for _, want := range []string{DefaultTitle, DefaultAuthor, "<dc:language>" + DefaultLanguage} {
		if !strings.Contains(opf, want) {
			t.Errorf("Package document does not contain default %q", want)
		}
	}
}

func TestRender_RoundTrip(t *testing.T) {
	segments := []string{"The ljós is bright.", "Hús and hús.", "A \"quoted\" line"}

	var buf bytes.Buffer
	if err := NewWriter().Render(&buf, segments, Metadata{Title: "Round Trip", Language: "en"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.epub")
	testutil.CreateTestFile(t, path, buf.Bytes())

	book, err := NewReader().Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if book.Title != "Round Trip" {
		t.Errorf("Expected title 'Round Trip', got '%s'", book.Title)
	}
	testutil.AssertSegments(t, book.Segments, segments)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRender_Error(t *testing.T) {
	err := NewWriter().Render(failingWriter{}, []string{"text"}, Metadata{})

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected *RenderError, got %T: %v", err, err)
	}
}

func TestParagraph(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\nb", "a<br/>b"},
		{"a\r\nb", "a<br/>b"},
		{"x < y & z", "x &lt; y &amp; z"},
	}

	for _, tt := range tests {
		if got := Paragraph(tt.in); got != tt.want {
			t.Errorf("Paragraph(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
