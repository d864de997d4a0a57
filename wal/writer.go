package wal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/certainty/r2d2/binio"
)

// Writer appends operation records to a WAL file. After Write returns
// successfully, the payload has been flushed to the operating system
// (not fsynced) per the engine's documented durability tradeoff.
type Writer struct {
	file io.WriteCloser
	bw   *bufio.Writer
}

func newWriter(file io.WriteCloser) *Writer {
	return &Writer{file: file, bw: bufio.NewWriter(file)}
}

func writeDataTo(w io.Writer, hdr fileHeader) (int, error) {
	return binio.WriteData(w, hdr)
}

// Write frame-serializes op and flushes the buffered writer so the
// payload reaches the operating system. It returns the number of bytes
// written, including framing overhead.
func (w *Writer) Write(op Operation) (int, error) {
	n, err := binio.WriteData(w.bw, op)
	if err != nil {
		return 0, fmt.Errorf("wal: write operation: %w", err)
	}
	if err := w.bw.Flush(); err != nil {
		return 0, fmt.Errorf("wal: flush: %w", err)
	}
	return n, nil
}

// Close flushes any buffered bytes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("wal: flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("wal: close: %w", err)
	}
	return nil
}
