package epub

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRootfile is returned when container.xml names no package document.
	ErrNoRootfile = errors.New("container.xml lists no rootfile")

	// ErrNoText is returned for books without any readable text.
	ErrNoText = errors.New("book contains no text")
)

// ExtractionError reports a book that could not be read. It is fatal: no
// translation starts without segments.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// RenderError reports a book that could not be written.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render book: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
