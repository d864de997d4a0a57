// Package memtable implements the LSM engine's C0 tier: a fast,
// size-tracked, ordered in-memory mapping from key to value, backed by a
// skiplist. Deletions are recorded as tombstone entries rather than
// outright removals, so that a later lookup against an on-disk slab for
// a key deleted in memory cannot resurrect a stale value.
package memtable

import "github.com/certainty/r2d2/skiplist"

// Entry is what the memtable actually stores for a key: either a live
// value, or a tombstone marking the key as deleted.
type Entry struct {
	Value     []byte
	Tombstone bool
}

// Memtable is an ordered key/value table with at most one entry per key.
type Memtable struct {
	sl        *skiplist.SkipList[Entry]
	sizeUsed  int
	sizeLimit int
}

// New creates an empty memtable. sizeLimit is advisory: it is tracked via
// Size/HasRoomForWrite so a caller can decide when to freeze and flush,
// but the memtable itself never refuses a write because of it.
func New(sizeLimit int) *Memtable {
	return &Memtable{
		sl:        skiplist.New[Entry](),
		sizeLimit: sizeLimit,
	}
}

// HasRoomForWrite reports whether inserting key/val would keep the
// memtable within its configured size limit.
func (m *Memtable) HasRoomForWrite(key, val []byte) bool {
	return len(key)+len(val) <= m.sizeLimit-m.sizeUsed
}

// Insert stores val under key, returning the previous live value for key
// if one existed. A tombstone left by a prior delete does not count as a
// previous value.
func (m *Memtable) Insert(key, val []byte) ([]byte, bool) {
	prior, existed := m.sl.Insert(key, Entry{Value: val})
	m.sizeUsed += len(key) + len(val)
	if existed && !prior.Tombstone {
		return prior.Value, true
	}
	return nil, false
}

// Remove marks key as deleted, returning the previous live value for key
// if one existed.
func (m *Memtable) Remove(key []byte) ([]byte, bool) {
	prior, existed := m.sl.Insert(key, Entry{Tombstone: true})
	m.sizeUsed += len(key)
	if existed && !prior.Tombstone {
		return prior.Value, true
	}
	return nil, false
}

// Get returns the live value stored for key. A tombstone is reported the
// same as an absent key, matching the plain "ordered mapping" contract;
// callers that need to distinguish "deleted" from "never set" (to decide
// whether to fall through to an on-disk tier) should use Peek instead.
func (m *Memtable) Get(key []byte) ([]byte, bool) {
	e, found := m.sl.Get(key)
	if !found || e.Tombstone {
		return nil, false
	}
	return e.Value, true
}

// Peek returns the raw entry stored for key, including whether it is a
// tombstone, and whether any entry exists at all.
func (m *Memtable) Peek(key []byte) (Entry, bool) {
	return m.sl.Get(key)
}

// Size returns the approximate number of bytes used so far.
func (m *Memtable) Size() int {
	return m.sizeUsed
}

// Len returns the number of entries, including tombstones.
func (m *Memtable) Len() int {
	return m.sl.Len()
}

// Iterator returns an iterator over all entries (including tombstones)
// in ascending key order.
func (m *Memtable) Iterator() *skiplist.Iterator[Entry] {
	return m.sl.Iterator()
}
