package sstable

import "bytes"

// Level identifies the LSM level a slab belongs to. Only level 0 is
// produced by this engine; higher levels are structurally anticipated
// (for future compaction) but never populated.
type Level = uint8

// Slab is a lightweight descriptor for one sealed SSTable: its level,
// the key range it covers, and the path to its backing file. Slabs are
// the engine's handle onto C1 — it keeps them sorted by MinKey so a
// lookup can binary-search for the one slab that might cover a key.
type Slab struct {
	Level  Level
	MinKey []byte
	MaxKey []byte
	Path   string
}

// Covers reports whether key falls within the slab's closed key range.
func (s Slab) Covers(key []byte) bool {
	return bytes.Compare(key, s.MinKey) >= 0 && bytes.Compare(key, s.MaxKey) <= 0
}

// SSTable opens a fresh reader onto the slab's backing file. Each call
// returns a reader that owns its own file handle.
func (s Slab) SSTable() (*Reader, error) {
	return Open(s.Path)
}
