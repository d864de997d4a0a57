// Package engine binds the write-ahead log, memtable, and sealed
// SSTable slabs into the single-node, ordered key-value store: set,
// del, get, and ordered iteration, with crash recovery on Open. Iteration
// is not lazy: Iter copies every live memtable pair into a slice up front.
package engine

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/certainty/r2d2/memtable"
	"github.com/certainty/r2d2/sstable"
	"github.com/certainty/r2d2/wal"
)

// Engine is the storage engine's top-level handle. One Engine owns one
// WAL writer for its lifetime; concurrent mutation of the same Engine
// is the caller's responsibility to avoid (see Locked for a
// mutex-guarded wrapper).
type Engine struct {
	config Configuration
	wal    *wal.Manager
	writer *wal.Writer
	mem    *memtable.Memtable
	slabs  []sstable.Slab // sorted by MinKey; never populated at runtime today
}

// Open brings an engine up against config.StoragePath: it ensures the
// directory exists, initializes the WAL, and replays any durable
// history found there before accepting new operations.
func Open(config Configuration) (*Engine, error) {
	if config.WALFlushPolicy != FlushEveryWrite {
		return nil, ErrUnsupportedFlushPolicy
	}

	if err := os.MkdirAll(config.StoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create storage directory: %w", err)
	}

	manager, err := wal.Init(config.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("engine: init WAL: %w", err)
	}

	e := &Engine{
		config: config,
		wal:    manager,
	}

	if manager.RecoveryNeeded() {
		mem, err := replay(manager, config)
		if err != nil {
			return nil, fmt.Errorf("engine: replay WAL: %w", err)
		}
		writer, err := manager.Resume()
		if err != nil {
			return nil, fmt.Errorf("engine: resume WAL: %w", err)
		}
		e.mem = mem
		e.writer = writer
	} else {
		writer, err := manager.Create()
		if err != nil {
			return nil, fmt.Errorf("engine: create WAL: %w", err)
		}
		e.mem = memtable.New(int(config.MaxMemtableSize))
		e.writer = writer
	}

	return e, nil
}

// replay reconstructs a memtable from the durable WAL history by
// applying every recorded operation, through the normal set/del entry
// points, to a scratch engine whose writer discards everything. A
// replay error is fatal: the caller refuses to start rather than
// present a partial view.
func replay(manager *wal.Manager, config Configuration) (*memtable.Memtable, error) {
	scratch := &Engine{
		config: config,
		wal:    manager,
		writer: wal.Null(),
		mem:    memtable.New(int(config.MaxMemtableSize)),
	}

	reader, err := manager.Open()
	if err != nil {
		return nil, fmt.Errorf("open WAL for replay: %w", err)
	}
	defer reader.Close()

	err = reader.Each(func(op wal.Operation) error {
		switch op.Kind {
		case wal.KindSet:
			_, err := scratch.Set(op.Key, op.Value)
			return err
		case wal.KindDelete:
			_, err := scratch.Del(op.Key)
			return err
		default:
			return fmt.Errorf("unknown operation kind %d", op.Kind)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("replay operation: %w", err)
	}

	return scratch.mem, nil
}

// Set inserts or overwrites key with value. The WAL is written before
// the memtable is updated; if the WAL write fails, the memtable is left
// untouched and the error propagates.
func (e *Engine) Set(key, value []byte) ([]byte, error) {
	if _, err := e.writer.Write(wal.Set(key, value)); err != nil {
		return nil, fmt.Errorf("engine: set %q: %w", key, err)
	}
	prev, hadPrev := e.mem.Insert(key, value)
	if !hadPrev {
		return nil, nil
	}
	return prev, nil
}

// Del removes key, if present, recording a tombstone so a subsequent
// Get (including after a restart) reports it absent.
func (e *Engine) Del(key []byte) ([]byte, error) {
	if _, err := e.writer.Write(wal.Delete(key)); err != nil {
		return nil, fmt.Errorf("engine: del %q: %w", key, err)
	}
	prev, hadPrev := e.mem.Remove(key)
	if !hadPrev {
		return nil, nil
	}
	return prev, nil
}

// Get looks key up: first the memtable (a tombstone there ends the
// search with a miss), then — on an absent memtable entry — the sorted
// slab vector for an SSTable whose key range covers key.
func (e *Engine) Get(key []byte) ([]byte, error) {
	if entry, ok := e.mem.Peek(key); ok {
		if entry.Tombstone {
			return nil, nil
		}
		return entry.Value, nil
	}

	slab, ok := e.findCoveringSlab(key)
	if !ok {
		return nil, nil
	}
	table, err := slab.SSTable()
	if err != nil {
		return nil, fmt.Errorf("engine: open slab %s: %w", slab.Path, err)
	}
	defer table.Close()

	value, err := table.Get(key)
	if err != nil {
		if err == sstable.ErrKeyNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("engine: get %q from slab %s: %w", key, slab.Path, err)
	}
	return value, nil
}

// findCoveringSlab binary-searches the sorted slab vector for the one
// slab whose key range might cover key.
func (e *Engine) findCoveringSlab(key []byte) (sstable.Slab, bool) {
	i := sort.Search(len(e.slabs), func(i int) bool {
		return bytes.Compare(e.slabs[i].MinKey, key) > 0
	})
	if i == 0 {
		return sstable.Slab{}, false
	}
	candidate := e.slabs[i-1]
	if !candidate.Covers(key) {
		return sstable.Slab{}, false
	}
	return candidate, true
}

// Pair is one (key, value) produced by Iter.
type Pair struct {
	Key   []byte
	Value []byte
}

// Iter returns every live key/value pair currently in the memtable, in
// ascending key order. Tombstoned entries are skipped.
func (e *Engine) Iter() []Pair {
	var pairs []Pair
	it := e.mem.Iterator()
	for it.HasNext() {
		key, entry := it.Next()
		if entry.Tombstone {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: entry.Value})
	}
	return pairs
}

// Close releases the engine's WAL handle.
func (e *Engine) Close() error {
	if err := e.writer.Close(); err != nil {
		return fmt.Errorf("engine: close: %w", err)
	}
	return nil
}
