// Package binio implements the length-prefixed binary framing shared by
// every persistent structure in the storage engine: WAL records, SSTable
// data entries, SSTable index entries, and meta/trailer records all go
// through the same frame and codec discipline.
package binio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteFrame writes b as a frame: an 8-byte little-endian length prefix
// followed by b itself. It returns the total number of bytes written,
// including the length prefix.
func WriteFrame(w io.Writer, b []byte) (int, error) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return 0, fmt.Errorf("binio: write frame length: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return 0, fmt.Errorf("binio: write frame payload: %w", err)
	}
	return len(b) + 8, nil
}

// ReadFrame reads one frame from r: an 8-byte little-endian length prefix
// followed by that many bytes of payload. A clean end of stream at the
// length prefix (no bytes available at all) is reported as io.EOF so
// callers like the WAL iterator can distinguish "nothing left to read"
// from a truncated record. Any other short read is a framing error.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("binio: truncated frame length: %w", err)
	}
	size := binary.LittleEndian.Uint64(lenBuf[:])
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("binio: truncated frame payload: %w", err)
	}
	return buf, nil
}
