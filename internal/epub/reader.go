package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

const containerPath = "META-INF/container.xml"

// Book is the text content of an EPUB.
type Book struct {
	Title    string
	Author   string
	Language string
	// Segments holds the non-empty, trimmed text lines in reading order.
	Segments []string
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDocument struct {
	Metadata struct {
		Titles    []string `xml:"title"`
		Creators  []string `xml:"creator"`
		Languages []string `xml:"language"`
	} `xml:"metadata"`
	Manifest []struct {
		ID         string `xml:"id,attr"`
		Href       string `xml:"href,attr"`
		MediaType  string `xml:"media-type,attr"`
		Properties string `xml:"properties,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// Reader extracts text from EPUB files
type Reader struct{}

// NewReader creates a new EPUB reader
func NewReader() *Reader {
	return &Reader{}
}

// Extract reads the book at path. All failures are *ExtractionError.
func (r *Reader) Extract(path string) (*Book, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer zr.Close()

	book, err := r.read(&zr.Reader)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return book, nil
}

func (r *Reader) read(zr *zip.Reader) (*Book, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var c container
	if err := decodeXML(files, containerPath, &c); err != nil {
		return nil, err
	}
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return nil, ErrNoRootfile
	}
	opfPath := c.Rootfiles[0].FullPath

	var pkg packageDocument
	if err := decodeXML(files, opfPath, &pkg); err != nil {
		return nil, err
	}

	book := &Book{
		Title:    first(pkg.Metadata.Titles),
		Author:   first(pkg.Metadata.Creators),
		Language: first(pkg.Metadata.Languages),
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		if !isDocument(item.MediaType) || hasProperty(item.Properties, "nav") {
			continue
		}
		hrefs[item.ID] = item.Href
	}

	base := path.Dir(opfPath)
	for _, ref := range pkg.Spine {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		name, err := resolve(base, href)
		if err != nil {
			return nil, err
		}
		f, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("spine item %s missing from archive", name)
		}

		segments, err := documentSegments(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		book.Segments = append(book.Segments, segments...)
	}

	if len(book.Segments) == 0 {
		return nil, ErrNoText
	}
	return book, nil
}

func decodeXML(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("%s missing from archive", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// resolve turns a manifest href into an archive path.
func resolve(base, href string) (string, error) {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	unescaped, err := url.PathUnescape(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	if base == "." {
		return path.Clean(unescaped), nil
	}
	return path.Join(base, unescaped), nil
}

func documentSegments(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Segments(rc)
}

// Segments extracts the visible text of an (X)HTML document. Block
// elements and <br> end a line; runs of whitespace inside text collapse to
// one space. Lines are trimmed, NFC-normalized and empty ones dropped.
func Segments(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(collapseSpace(n.Data))
			return
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
			if blocks[n.DataAtom] {
				b.WriteByte('\n')
				defer b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var segments []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(norm.NFC.String(line))
		if line != "" {
			segments = append(segments, line)
		}
	}
	return segments, nil
}

var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return b.String()
}

func isDocument(mediaType string) bool {
	return mediaType == "application/xhtml+xml" || mediaType == "text/html"
}

func hasProperty(properties, name string) bool {
	for _, p := range strings.Fields(properties) {
		if p == name {
			return true
		}
	}
	return false
}

func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
