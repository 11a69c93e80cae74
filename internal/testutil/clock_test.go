package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestDeterministicClock_FirstNowReturnsStart(t *testing.T) {
	clock := NewDeterministicClock(testStart, time.Minute)
	assert.Equal(t, testStart, clock.Now())
}

func TestDeterministicClock_AdvancesByStep(t *testing.T) {
	clock := NewDeterministicClock(testStart, time.Minute)

	assert.Equal(t, testStart, clock.Now())
	assert.Equal(t, testStart.Add(time.Minute), clock.Now())
	assert.Equal(t, testStart.Add(2*time.Minute), clock.Now())
	assert.Equal(t, testStart.Add(2*time.Minute), clock.Current())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(testStart, time.Second)
	const goroutines = 50
	const callsEach = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	seen := make([]map[time.Time]bool, goroutines)
	for i := 0; i < goroutines; i++ {
		seen[i] = make(map[time.Time]bool)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				seen[idx][clock.Now()] = true
			}
		}(i)
	}
	wg.Wait()

	all := make(map[time.Time]bool)
	for _, m := range seen {
		for ts := range m {
			all[ts] = true
		}
	}
	assert.Len(t, all, goroutines*callsEach, "every Now() must be distinct")
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs()
	assert.Equal(t, "1", ids.Next())
	assert.Equal(t, "2", ids.Next())
	assert.Equal(t, "3", ids.Next())
}
