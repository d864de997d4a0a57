package engine

import "sync"

// Locked wraps an *Engine with a mutex so it can be shared across
// goroutines. The core Engine itself assumes a single logical caller
// at a time; Locked is the thin decorator for callers that need more.
type Locked struct {
	mu sync.Mutex
	e  *Engine
}

// NewLocked wraps e for concurrent use.
func NewLocked(e *Engine) *Locked {
	return &Locked{e: e}
}

func (l *Locked) Set(key, value []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Set(key, value)
}

func (l *Locked) Del(key []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Del(key)
}

func (l *Locked) Get(key []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Get(key)
}

func (l *Locked) Iter() []Pair {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Iter()
}

func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Close()
}
