package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a thread-safe clock for tests. Every call to Now
// returns the previous instant advanced by a fixed step, so timestamps
// across a test run are predictable and strictly increasing.
type DeterministicClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewDeterministicClock creates a clock whose first Now() returns start,
// with each subsequent call advancing by step.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{at: start.Add(-step), step: step}
}

// Now advances the clock by one step and returns the new instant.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(c.step)
	return c.at
}

// Current returns the last instant handed out without advancing.
func (c *DeterministicClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}
