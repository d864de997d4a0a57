package sstable

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/certainty/r2d2/binio"
)

// ErrSealed is returned by Append or Seal once a Writer has already been
// sealed.
var ErrSealed = errors.New("sstable: writer is sealed")

// ErrEmptyTable is returned by Seal when no records were ever appended.
var ErrEmptyTable = errors.New("sstable: cannot seal an empty table")

type indexEntry struct {
	key         []byte
	valueOffset uint64
}

// Writer streams ascending key/value pairs to an SSTable file and seals
// it into an immutable, indexable artifact.
type Writer struct {
	path   string
	file   *os.File
	bw     *bufio.Writer
	offset uint64

	index  []indexEntry
	minKey []byte
	maxKey []byte
	sealed bool
}

// Create opens path for writing, buffered, ready to accept appended
// key/value pairs.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sstable: create %s: %w", path, err)
	}
	return &Writer{
		path: path,
		file: f,
		bw:   bufio.NewWriter(f),
	}, nil
}

// Append writes one key/value pair. key must be strictly greater than
// every previously appended key; this is the caller's responsibility to
// uphold, not enforced here, since it is required for the resulting
// SSTable's lookup contract.
func (w *Writer) Append(key, value []byte) error {
	if w.sealed {
		return ErrSealed
	}

	n, err := binio.WriteFrame(w.bw, key)
	if err != nil {
		return fmt.Errorf("sstable: write key: %w", err)
	}
	w.offset += uint64(n)

	valueOffset := w.offset
	n, err = binio.WriteFrame(w.bw, value)
	if err != nil {
		return fmt.Errorf("sstable: write value: %w", err)
	}
	w.offset += uint64(n)

	w.index = append(w.index, indexEntry{key: key, valueOffset: valueOffset})
	if w.minKey == nil {
		w.minKey = key
	}
	w.maxKey = key
	return nil
}

// Seal writes the meta block, index block and trailer, flushes and
// closes the file, and returns a Slab describing the sealed table.
// Subsequent Append or Seal calls return ErrSealed.
func (w *Writer) Seal() (Slab, error) {
	if w.sealed {
		return Slab{}, ErrSealed
	}
	if len(w.index) == 0 {
		return Slab{}, ErrEmptyTable
	}
	w.sealed = true

	dataSize := w.offset
	m := meta{
		recordCount:     uint64(len(w.index)),
		dataSize:        dataSize,
		indexEntryCount: uint64(len(w.index)),
	}

	n, err := binio.WriteData(w.bw, m)
	if err != nil {
		return Slab{}, fmt.Errorf("sstable: write meta block: %w", err)
	}
	w.offset += uint64(n)
	indexOffset := dataSize + uint64(n)

	for _, e := range w.index {
		n, err := binio.WriteFrame(w.bw, e.key)
		if err != nil {
			return Slab{}, fmt.Errorf("sstable: write index key: %w", err)
		}
		w.offset += uint64(n)

		var offBuf []byte
		offBuf = binio.PutUint64(offBuf, e.valueOffset)
		n, err = binio.WriteFrame(w.bw, offBuf)
		if err != nil {
			return Slab{}, fmt.Errorf("sstable: write index offset: %w", err)
		}
		w.offset += uint64(n)
	}

	metaOffset := dataSize
	t := trailer{metaOffset: metaOffset, indexOffset: indexOffset}
	n, err = binio.WriteData(w.bw, t)
	if err != nil {
		return Slab{}, fmt.Errorf("sstable: write trailer: %w", err)
	}
	trailerOffset := w.offset
	w.offset += uint64(n)

	var suffix bytes.Buffer
	var suffixBuf []byte
	suffixBuf = binio.PutUint32(suffixBuf, uint32(trailerOffset))
	suffix.Write(suffixBuf)
	if _, err := w.bw.Write(suffix.Bytes()); err != nil {
		return Slab{}, fmt.Errorf("sstable: write trailer offset: %w", err)
	}

	if err := w.bw.Flush(); err != nil {
		return Slab{}, fmt.Errorf("sstable: flush: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return Slab{}, fmt.Errorf("sstable: sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return Slab{}, fmt.Errorf("sstable: close: %w", err)
	}

	return Slab{
		Level:  0,
		MinKey: w.minKey,
		MaxKey: w.maxKey,
		Path:   w.path,
	}, nil
}
