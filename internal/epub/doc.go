// Package epub reads the text of EPUB books and writes translated text back
// as a single-chapter EPUB 3 book.
//
// Reading follows META-INF/container.xml to the package document and walks
// the spine in order. Every spine document contributes its visible text as
// segments, one per paragraph or line. Writing produces a minimal but valid
// container: mimetype, package document, navigation document, NCX and one
// XHTML chapter holding one paragraph per segment.
package epub
