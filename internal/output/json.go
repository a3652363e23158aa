package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers values and writes them as one JSON document on Close.
// A single value is written as-is; several become an array.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write buffers v.
func (w *JSONWriter) Write(v any) error {
	w.items = append(w.items, v)
	return nil
}

// Close writes the buffered document.
func (w *JSONWriter) Close() error {
	if len(w.items) == 0 {
		return nil
	}

	var doc any = w.items
	if len(w.items) == 1 {
		doc = w.items[0]
	}
	w.items = nil

	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}

	return w.w.Flush()
}

// JSONLWriter writes newline-delimited JSON. Values implementing Itemizer
// produce one line per item.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes v as one or more JSON lines.
func (w *JSONLWriter) Write(v any) error {
	items := []any{v}
	if it, ok := v.(Itemizer); ok {
		items = it.Items()
	}

	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}

	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
