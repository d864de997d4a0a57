package wal

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/certainty/r2d2/binio"
)

// Reader replays committed operations from a WAL file in append order.
type Reader struct {
	file io.ReadCloser
	br   *bufio.Reader
}

func newReader(file io.ReadCloser) *Reader {
	return &Reader{file: file, br: bufio.NewReader(file)}
}

func readDataFrom(r io.Reader, hdr *fileHeader) error {
	return binio.ReadData(r, hdr)
}

// Read reads the next committed operation. It returns io.EOF when the
// WAL is cleanly exhausted.
func (r *Reader) Read() (Operation, error) {
	var op Operation
	if err := binio.ReadData(r.br, &op); err != nil {
		if errors.Is(err, io.EOF) {
			return Operation{}, io.EOF
		}
		return Operation{}, fmt.Errorf("wal: read operation: %w", err)
	}
	return op, nil
}

// Next is an alias for Read, named to read naturally at iteration call
// sites (for op, err := r.Next(); err == nil; op, err = r.Next()).
func (r *Reader) Next() (Operation, error) {
	return r.Read()
}

// Each applies fn to every operation in the WAL in order, stopping at a
// clean end of stream. Any non-EOF error from the log or from fn is
// returned and iteration stops immediately.
func (r *Reader) Each(fn func(Operation) error) error {
	for {
		op, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(op); err != nil {
			return err
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("wal: close: %w", err)
	}
	return nil
}
