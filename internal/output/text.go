package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes human-readable reports. Reports should implement
// fmt.Stringer; anything else is printed with %+v.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes a report immediately.
func (w *TextWriter) Write(report any) error {
	var text string
	if s, ok := report.(fmt.Stringer); ok {
		text = s.String()
	} else {
		text = fmt.Sprintf("%+v", report)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := w.w.WriteString(text)
	return err
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}
