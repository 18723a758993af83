package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Defaults for books rendered without metadata.
const (
	DefaultTitle    = "Gradual Translation"
	DefaultAuthor   = "Auto Translator"
	DefaultLanguage = "en"

	chapterTitle = "Translated Book"
	chapterFile  = "translated.xhtml"
)

// Metadata describes the rendered book. Empty fields get defaults.
type Metadata struct {
	Title      string
	Author     string
	Language   string
	Identifier string
}

// Writer renders segments as an EPUB 3 book
type Writer struct {
	// NewID creates book identifiers when Metadata has none.
	NewID func() string
	// Now stamps the dcterms:modified date.
	Now func() time.Time
}

// NewWriter creates a writer with random identifiers and the wall clock.
func NewWriter() *Writer {
	return &Writer{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Render writes a single-chapter book with one paragraph per segment to w.
// Newlines inside a segment become line breaks. All failures are
// *RenderError; on failure w may hold a partial archive.
func (wr *Writer) Render(w io.Writer, segments []string, meta Metadata) error {
	meta = wr.withDefaults(meta)
	now := wr.Now
	if now == nil {
		now = time.Now
	}

	zw := zip.NewWriter(w)
	files := []struct {
		name    string
		content string
		method  uint16
	}{
		{"mimetype", "application/epub+zip", zip.Store},
		{containerPath, containerXML, zip.Deflate},
		{"EPUB/content.opf", packageXML(meta, now().UTC()), zip.Deflate},
		{"EPUB/nav.xhtml", navXHTML(meta), zip.Deflate},
		{"EPUB/toc.ncx", tocNCX(meta), zip.Deflate},
		{"EPUB/" + chapterFile, chapterXHTML(meta, segments), zip.Deflate},
	}

	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: f.method})
		if err != nil {
			return &RenderError{Err: fmt.Errorf("failed to add %s: %w", f.name, err)}
		}
		if _, err := io.WriteString(fw, f.content); err != nil {
			return &RenderError{Err: fmt.Errorf("failed to write %s: %w", f.name, err)}
		}
	}

	if err := zw.Close(); err != nil {
		return &RenderError{Err: err}
	}
	return nil
}

func (wr *Writer) withDefaults(meta Metadata) Metadata {
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = DefaultTitle
	}
	if strings.TrimSpace(meta.Author) == "" {
		meta.Author = DefaultAuthor
	}
	if strings.TrimSpace(meta.Language) == "" {
		meta.Language = DefaultLanguage
	}
	if meta.Identifier == "" {
		newID := wr.NewID
		if newID == nil {
			newID = uuid.NewString
		}
		meta.Identifier = "urn:uuid:" + newID()
	}
	return meta
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="EPUB/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

func packageXML(meta Metadata, modified time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="id" xml:lang="%[3]s">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="id">%[4]s</dc:identifier>
    <dc:title>%[1]s</dc:title>
    <dc:creator>%[2]s</dc:creator>
    <dc:language>%[3]s</dc:language>
    <meta property="dcterms:modified">%[5]s</meta>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="chapter" href="%[6]s" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="nav"/>
    <itemref idref="chapter"/>
  </spine>
</package>
`, html.EscapeString(meta.Title), html.EscapeString(meta.Author), html.EscapeString(meta.Language),
		html.EscapeString(meta.Identifier), modified.Format("2006-01-02T15:04:05Z"), chapterFile)
}

func navXHTML(meta Metadata) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" lang="%[1]s" xml:lang="%[1]s">
<head><title>%[2]s</title></head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>%[2]s</h1>
    <ol>
      <li><a href="%[3]s">%[4]s</a></li>
    </ol>
  </nav>
</body>
</html>
`, html.EscapeString(meta.Language), html.EscapeString(meta.Title), chapterFile, chapterTitle)
}

func tocNCX(meta Metadata) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="%[1]s"/>
  </head>
  <docTitle><text>%[2]s</text></docTitle>
  <navMap>
    <navPoint id="chapter" playOrder="1">
      <navLabel><text>%[3]s</text></navLabel>
      <content src="%[4]s"/>
    </navPoint>
  </navMap>
</ncx>
`, html.EscapeString(meta.Identifier), html.EscapeString(meta.Title), chapterTitle, chapterFile)
}

func chapterXHTML(meta Metadata, segments []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" lang="%[1]s" xml:lang="%[1]s">
<head><title>%[2]s</title></head>
<body>
`, html.EscapeString(meta.Language), chapterTitle)

	for _, seg := range segments {
		b.WriteString("<p>")
		b.WriteString(Paragraph(seg))
		b.WriteString("</p>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// Paragraph escapes a segment for XHTML and turns its newlines into <br/>.
func Paragraph(segment string) string {
	lines := strings.Split(strings.ReplaceAll(segment, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br/>")
}
