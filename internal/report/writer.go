package report

import "io"

// Writer renders a report to a configured destination.
// Implementations exist for terminal text, Markdown, and JSON.
type Writer interface {
	// Write renders the report, returning the number of bytes written.
	Write(r *Report) (int, error)
}

// MultiWriter renders a report through several Writers, typically the
// terminal plus a file. It is a separate type rather than io.MultiWriter
// because Writers consume reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report through every writer, stopping on the first
// error. The total byte count covers all writers reached.
func (m *MultiWriter) Write(r *Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
