package export

import (
	"encoding/json"
	"io"

	"github.com/nao1215/fgscrap/internal/model"
)

// JSONWriter writes records as a JSON array of {"title","torrent"} objects.
type JSONWriter struct {
	output io.Writer

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes the records. A nil slice is written as an empty array.
func (w *JSONWriter) Write(records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}

	enc := json.NewEncoder(w.output)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}
