package wal

import (
	"fmt"

	"github.com/certainty/r2d2/binio"
)

const (
	stanza  = "r2d2::wal"
	version = byte(1)

	opKindDelete = uint32(0)
	opKindSet    = uint32(1)
)

// Kind tags which variant an Operation is.
type Kind uint8

const (
	// KindDelete removes a key from the store.
	KindDelete Kind = iota
	// KindSet inserts or overwrites a key with a value.
	KindSet
)

// Operation is the unit of durability in the WAL and the unit of replay
// during recovery: either Set(key, value) or Delete(key).
type Operation struct {
	Kind  Kind
	Key   []byte
	Value []byte
}

// Set builds a Set(key, value) operation.
func Set(key, value []byte) Operation {
	return Operation{Kind: KindSet, Key: key, Value: value}
}

// Delete builds a Delete(key) operation.
func Delete(key []byte) Operation {
	return Operation{Kind: KindDelete, Key: key}
}

// MarshalBinary encodes the operation as a 4-byte little-endian variant
// tag followed by the length-prefixed key and, for Set, the
// length-prefixed value.
func (op Operation) MarshalBinary() ([]byte, error) {
	tag := opKindDelete
	if op.Kind == KindSet {
		tag = opKindSet
	}

	buf := make([]byte, 0, 8+len(op.Key)+len(op.Value)+16)
	buf = binio.PutUint32(buf, tag)
	buf = binio.PutBytes(buf, op.Key)
	if op.Kind == KindSet {
		buf = binio.PutBytes(buf, op.Value)
	}
	return buf, nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (op *Operation) UnmarshalBinary(data []byte) error {
	tag, rest, err := binio.TakeUint32(data)
	if err != nil {
		return fmt.Errorf("wal: operation tag: %w", err)
	}

	key, rest, err := binio.TakeBytes(rest)
	if err != nil {
		return fmt.Errorf("wal: operation key: %w", err)
	}

	switch tag {
	case opKindSet:
		value, _, err := binio.TakeBytes(rest)
		if err != nil {
			return fmt.Errorf("wal: operation value: %w", err)
		}
		op.Kind = KindSet
		op.Key = key
		op.Value = value
		return nil
	case opKindDelete:
		op.Kind = KindDelete
		op.Key = key
		op.Value = nil
		return nil
	default:
		return fmt.Errorf("wal: unknown operation tag %d", tag)
	}
}

// fileHeader is the first frame of every WAL file: a stanza tag
// identifying the format and a version byte.
type fileHeader struct {
	version byte
}

func (h fileHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 8+len(stanza)+1)
	buf = binio.PutBytes(buf, []byte(stanza))
	buf = binio.PutUint8(buf, h.version)
	return buf, nil
}

func (h *fileHeader) UnmarshalBinary(data []byte) error {
	gotStanza, rest, err := binio.TakeBytes(data)
	if err != nil {
		return fmt.Errorf("wal: header stanza: %w", err)
	}
	if string(gotStanza) != stanza {
		return fmt.Errorf("wal: unexpected stanza %q, want %q", gotStanza, stanza)
	}
	v, _, err := binio.TakeUint8(rest)
	if err != nil {
		return fmt.Errorf("wal: header version: %w", err)
	}
	if v != version {
		return fmt.Errorf("wal: unsupported version %d", v)
	}
	h.version = v
	return nil
}
