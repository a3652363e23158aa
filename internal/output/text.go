package output

import (
	"fmt"
	"io"
)

// TextWriter renders values through TextRenderer, falling back to their
// default formatting.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write renders v immediately.
func (w *TextWriter) Write(v any) error {
	if r, ok := v.(TextRenderer); ok {
		return r.RenderText(w.w)
	}
	_, err := fmt.Fprintln(w.w, v)
	return err
}

// Close is a no-op; text is written unbuffered.
func (w *TextWriter) Close() error {
	return nil
}
