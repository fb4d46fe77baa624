package fastx

import (
	"bufio"
	"io"
)

// Writer emits records as 4-line FASTQ. Records without quality get an empty
// quality line.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(rec *Record) error {
	w.w.WriteByte('@')
	w.w.WriteString(rec.Name)
	w.w.WriteByte('\n')
	w.w.WriteString(rec.Sequence)
	w.w.WriteString("\n+\n")
	w.w.WriteString(rec.Quality)
	_, err := w.w.WriteString("\n")
	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
