package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"testing"
)

// Chapter is one XHTML document of a fixture book.
type Chapter struct {
	// Body is inserted into <body> as is.
	Body string
}

// FixtureBook describes a minimal EPUB for tests.
type FixtureBook struct {
	Title    string
	Author   string
	Language string
	Chapters []Chapter
}

// Paragraphs builds a chapter with one <p> per paragraph.
func Paragraphs(paragraphs ...string) Chapter {
	var b strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(p))
	}
	return Chapter{Body: b.String()}
}

// Bytes renders the book as an EPUB container. The manifest lists the
// chapters last to first so readers must follow the spine.
func (f FixtureBook) Bytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string, method uint16) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	write("mimetype", "application/epub+zip", zip.Store)
	write("META-INF/container.xml", `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`, zip.Deflate)

	var manifest, spine strings.Builder
	for i := len(f.Chapters) - 1; i >= 0; i-- {
		fmt.Fprintf(&manifest, `    <item id="ch%d" href="text/ch%d.xhtml" media-type="application/xhtml+xml"/>`+"\n", i, i)
	}
	for i := range f.Chapters {
		fmt.Fprintf(&spine, `    <itemref idref="ch%d"/>`+"\n", i)
	}

	write("OEBPS/content.opf", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="id">fixture</dc:identifier>
    <dc:title>%s</dc:title>
    <dc:creator>%s</dc:creator>
    <dc:language>%s</dc:language>
  </metadata>
  <manifest>
%s  </manifest>
  <spine>
%s  </spine>
</package>`, html.EscapeString(f.Title), html.EscapeString(f.Author), f.Language, manifest.String(), spine.String()), zip.Deflate)

	for i, ch := range f.Chapters {
		write(fmt.Sprintf("OEBPS/text/ch%d.xhtml", i), fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter %d</title><style>p { margin: 0; }</style></head>
<body>
%s</body>
</html>`, i+1, ch.Body), zip.Deflate)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close fixture EPUB: %v", err)
	}
	return buf.Bytes()
}

// WriteEPUB writes the fixture book to dir/name and returns the path.
func WriteEPUB(t *testing.T, dir, name string, book FixtureBook) string {
	t.Helper()

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, book.Bytes(t))
	return path
}
