package sstable

import (
	"fmt"

	"github.com/certainty/r2d2/binio"
)

const (
	stanza        = "r2d2::sstable"
	version       = byte(1)
	trailerSuffix = 4 // width, in bytes, of the trailing trailer-offset anchor
)

// meta is the SSTable's meta block: counts needed to locate and size the
// index block relative to the data block.
type meta struct {
	recordCount     uint64
	dataSize        uint64
	indexEntryCount uint64
}

func (m meta) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 24)
	buf = binio.PutUint64(buf, m.recordCount)
	buf = binio.PutUint64(buf, m.dataSize)
	buf = binio.PutUint64(buf, m.indexEntryCount)
	return buf, nil
}

func (m *meta) UnmarshalBinary(data []byte) error {
	recordCount, rest, err := binio.TakeUint64(data)
	if err != nil {
		return fmt.Errorf("sstable: meta record count: %w", err)
	}
	dataSize, rest, err := binio.TakeUint64(rest)
	if err != nil {
		return fmt.Errorf("sstable: meta data size: %w", err)
	}
	indexEntryCount, _, err := binio.TakeUint64(rest)
	if err != nil {
		return fmt.Errorf("sstable: meta index entry count: %w", err)
	}
	m.recordCount = recordCount
	m.dataSize = dataSize
	m.indexEntryCount = indexEntryCount
	return nil
}

// trailer is the SSTable's final control record: the absolute offsets of
// the meta and index blocks, plus the stanza/version identifying the
// format.
type trailer struct {
	metaOffset  uint64
	indexOffset uint64
}

func (t trailer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 16+8+len(stanza)+1)
	buf = binio.PutUint64(buf, t.metaOffset)
	buf = binio.PutUint64(buf, t.indexOffset)
	buf = binio.PutUint8(buf, version)
	buf = binio.PutBytes(buf, []byte(stanza))
	return buf, nil
}

func (t *trailer) UnmarshalBinary(data []byte) error {
	metaOffset, rest, err := binio.TakeUint64(data)
	if err != nil {
		return fmt.Errorf("sstable: trailer meta offset: %w", err)
	}
	indexOffset, rest, err := binio.TakeUint64(rest)
	if err != nil {
		return fmt.Errorf("sstable: trailer index offset: %w", err)
	}
	gotVersion, rest, err := binio.TakeUint8(rest)
	if err != nil {
		return fmt.Errorf("sstable: trailer version: %w", err)
	}
	gotStanza, _, err := binio.TakeBytes(rest)
	if err != nil {
		return fmt.Errorf("sstable: trailer stanza: %w", err)
	}
	if string(gotStanza) != stanza {
		return fmt.Errorf("sstable: unexpected stanza %q, want %q", gotStanza, stanza)
	}
	if gotVersion != version {
		return fmt.Errorf("sstable: unsupported version %d", gotVersion)
	}
	t.metaOffset = metaOffset
	t.indexOffset = indexOffset
	return nil
}
