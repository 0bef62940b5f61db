package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes JSON reports. A single report is written as an object,
// several as an array.
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

// Write buffers a report.
func (w *JSONWriter) Write(report any) error {
	w.items = append(w.items, report)
	return nil
}

// Flush writes the buffered reports and resets the buffer.
func (w *JSONWriter) Flush() error {
	if len(w.items) == 0 {
		return nil
	}

	var value any = w.items
	if len(w.items) == 1 {
		value = w.items[0]
	}

	var (
		out []byte
		err error
	)
	if w.pretty {
		out, err = json.MarshalIndent(value, "", w.indent)
	} else {
		out, err = json.Marshal(value)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(out); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}

	w.items = nil
	return w.w.Flush()
}
