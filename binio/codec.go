package binio

import (
	"encoding"
	"fmt"
	"io"
)

// WriteData serializes v through its MarshalBinary method and writes the
// result as a single frame. Every on-disk record type (WAL header, WAL
// operation, SSTable meta block, SSTable trailer) implements
// encoding.BinaryMarshaler/BinaryUnmarshaler so they can all share this
// one entry point.
func WriteData(w io.Writer, v encoding.BinaryMarshaler) (int, error) {
	payload, err := v.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("binio: serialize record: %w", err)
	}
	return WriteFrame(w, payload)
}

// ReadData reads one frame and deserializes it into v via its
// UnmarshalBinary method. io.EOF propagates unchanged so callers can
// detect a clean end of stream.
func ReadData(r io.Reader, v encoding.BinaryUnmarshaler) error {
	payload, err := ReadFrame(r)
	if err != nil {
		return err
	}
	if err := v.UnmarshalBinary(payload); err != nil {
		return fmt.Errorf("binio: deserialize record: %w", err)
	}
	return nil
}

// PutUint64 and the other fixed-width helpers below give record types a
// uniform way to lay out their MarshalBinary payloads without every
// caller hand-rolling offset arithmetic.

// PutBytes appends a length-prefixed byte sequence (8-byte little-endian
// length, then the bytes) to buf and returns the result.
func PutBytes(buf []byte, b []byte) []byte {
	var lenBuf [8]byte
	putUint64(lenBuf[:], uint64(len(b)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, b...)
	return buf
}

// TakeBytes reads a length-prefixed byte sequence from the front of buf
// and returns the remaining, unconsumed slice alongside it.
func TakeBytes(buf []byte) (b []byte, rest []byte, err error) {
	if len(buf) < 8 {
		return nil, nil, fmt.Errorf("binio: buffer too short for length prefix")
	}
	n := getUint64(buf[:8])
	buf = buf[8:]
	if uint64(len(buf)) < n {
		return nil, nil, fmt.Errorf("binio: buffer too short for declared payload of %d bytes", n)
	}
	return buf[:n], buf[n:], nil
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

func getUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// PutUint32 appends a 4-byte little-endian integer to buf.
func PutUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// TakeUint32 reads a 4-byte little-endian integer from the front of buf.
func TakeUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("binio: buffer too short for uint32")
	}
	v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return v, buf[4:], nil
}

// PutUint64 appends an 8-byte little-endian integer to buf.
func PutUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	putUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// TakeUint64 reads an 8-byte little-endian integer from the front of buf.
func TakeUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("binio: buffer too short for uint64")
	}
	return getUint64(buf[:8]), buf[8:], nil
}

// PutUint8 appends a single byte to buf.
func PutUint8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

// TakeUint8 reads a single byte from the front of buf.
func TakeUint8(buf []byte) (uint8, []byte, error) {
	if len(buf) < 1 {
		return 0, nil, fmt.Errorf("binio: buffer too short for uint8")
	}
	return buf[0], buf[1:], nil
}
