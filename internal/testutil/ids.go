package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs is a thread-safe id generator for tests. It yields
// "1", "2", "3", ... so generated identifiers are stable across runs.
type SequentialIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialIDs creates a generator whose first Next() returns "1".
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Next increments and returns the next id.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%d", g.seq)
}
