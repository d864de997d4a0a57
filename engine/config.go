package engine

import (
	"fmt"
	"os"
)

// ByteSize is a typed byte count, used to keep memtable size limits
// self-describing at call sites instead of a bare int.
type ByteSize uint64

const (
	KB ByteSize = 1 << (10 * (iota + 1))
	MB
	GB
)

// WALFlushPolicy controls when the WAL writer flushes buffered writes
// to the underlying file.
type WALFlushPolicy uint8

const (
	// FlushEveryWrite flushes the writer's buffer after every Write
	// call. This is the only policy wired into the writer today.
	FlushEveryWrite WALFlushPolicy = iota
	// FlushBatched is accepted by the Builder but rejected at Open
	// time: it is not yet wired into wal.Writer.
	FlushBatched
)

// Configuration holds everything Open needs to bring up an Engine.
type Configuration struct {
	StoragePath     string
	MaxMemtableSize ByteSize
	WALFlushPolicy  WALFlushPolicy
}

// ErrInvalidStoragePath is returned by Builder.Build when StoragePath is
// empty or names an existing path that is not a directory. A path that
// does not exist yet is accepted; Open creates it.
var ErrInvalidStoragePath = fmt.Errorf("engine: invalid storage path")

// ErrOutOfBounds is returned by Builder.Build when MaxMemtableSize is
// zero.
var ErrOutOfBounds = fmt.Errorf("engine: value out of bounds")

// ErrUnsupportedFlushPolicy is returned by Open when the configuration
// requests a flush policy the writer does not yet implement.
var ErrUnsupportedFlushPolicy = fmt.Errorf("engine: unsupported WAL flush policy")

const defaultMaxMemtableSize = 4 * MB

// Builder validates and assembles a Configuration.
type Builder struct {
	storagePath     string
	maxMemtableSize ByteSize
	flushPolicy     WALFlushPolicy
}

// NewBuilder returns a Builder with the engine's defaults: a 4 MiB
// memtable size limit and flush-every-write.
func NewBuilder(storagePath string) *Builder {
	return &Builder{
		storagePath:     storagePath,
		maxMemtableSize: defaultMaxMemtableSize,
		flushPolicy:     FlushEveryWrite,
	}
}

// WithMaxMemtableSize overrides the default memtable size limit.
func (b *Builder) WithMaxMemtableSize(size ByteSize) *Builder {
	b.maxMemtableSize = size
	return b
}

// WithWALFlushPolicy overrides the default WAL flush policy.
func (b *Builder) WithWALFlushPolicy(p WALFlushPolicy) *Builder {
	b.flushPolicy = p
	return b
}

// Build validates the accumulated settings and produces a Configuration.
func (b *Builder) Build() (Configuration, error) {
	if b.storagePath == "" {
		return Configuration{}, ErrInvalidStoragePath
	}
	if info, err := os.Stat(b.storagePath); err == nil && !info.IsDir() {
		return Configuration{}, fmt.Errorf("%w: %s is not a directory", ErrInvalidStoragePath, b.storagePath)
	}
	if b.maxMemtableSize == 0 {
		return Configuration{}, fmt.Errorf("%w: max memtable size must be positive", ErrOutOfBounds)
	}
	return Configuration{
		StoragePath:     b.storagePath,
		MaxMemtableSize: b.maxMemtableSize,
		WALFlushPolicy:  b.flushPolicy,
	}, nil
}
