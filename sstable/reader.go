package sstable

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/certainty/r2d2/binio"
)

// ErrKeyNotFound is returned by Get when the key is absent from the
// table's index.
var ErrKeyNotFound = errors.New("sstable: key not found")

// Reader opens a sealed SSTable file and answers point lookups against
// its in-memory index.
type Reader struct {
	file  *os.File
	index map[string]uint64
}

// Open bootstraps a Reader from the trailing 4-byte trailer offset: it
// seeks there, verifies the trailer's stanza/version, then loads the
// meta and index blocks into memory.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sstable: open %s: %w", path, err)
	}

	r := &Reader{file: f, index: make(map[string]uint64)}
	if err := r.load(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) load() error {
	if _, err := r.file.Seek(-trailerSuffix, io.SeekEnd); err != nil {
		return fmt.Errorf("sstable: seek to trailer offset anchor: %w", err)
	}
	var suffix [trailerSuffix]byte
	if _, err := io.ReadFull(r.file, suffix[:]); err != nil {
		return fmt.Errorf("sstable: read trailer offset anchor: %w", err)
	}
	trailerOffset, _, err := binio.TakeUint32(suffix[:])
	if err != nil {
		return fmt.Errorf("sstable: decode trailer offset: %w", err)
	}

	if _, err := r.file.Seek(int64(trailerOffset), io.SeekStart); err != nil {
		return fmt.Errorf("sstable: seek to trailer: %w", err)
	}
	var tr trailer
	if err := binio.ReadData(r.file, &tr); err != nil {
		return fmt.Errorf("sstable: read trailer: %w", err)
	}

	if _, err := r.file.Seek(int64(tr.metaOffset), io.SeekStart); err != nil {
		return fmt.Errorf("sstable: seek to meta block: %w", err)
	}
	var m meta
	if err := binio.ReadData(r.file, &m); err != nil {
		return fmt.Errorf("sstable: read meta block: %w", err)
	}

	if _, err := r.file.Seek(int64(tr.indexOffset), io.SeekStart); err != nil {
		return fmt.Errorf("sstable: seek to index block: %w", err)
	}
	for i := uint64(0); i < m.indexEntryCount; i++ {
		key, err := binio.ReadFrame(r.file)
		if err != nil {
			return fmt.Errorf("sstable: read index key %d: %w", i, err)
		}
		offBuf, err := binio.ReadFrame(r.file)
		if err != nil {
			return fmt.Errorf("sstable: read index offset %d: %w", i, err)
		}
		valueOffset, _, err := binio.TakeUint64(offBuf)
		if err != nil {
			return fmt.Errorf("sstable: decode index offset %d: %w", i, err)
		}
		r.index[string(key)] = valueOffset
	}

	return nil
}

// Get looks key up in the in-memory index; on a hit it seeks to the
// recorded value offset and reads the value frame.
func (r *Reader) Get(key []byte) ([]byte, error) {
	offset, ok := r.index[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	if _, err := r.file.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("sstable: seek to value: %w", err)
	}
	value, err := binio.ReadFrame(r.file)
	if err != nil {
		return nil, fmt.Errorf("sstable: read value: %w", err)
	}
	return value, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("sstable: close: %w", err)
	}
	return nil
}
