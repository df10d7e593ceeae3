package ports

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_StartsAtLowAndIncrements(t *testing.T) {
	a := NewAllocator(9223, 9999)

	assert.Equal(t, 9223, a.Next())
	assert.Equal(t, 9224, a.Next())
	assert.Equal(t, 9225, a.Next())
}

func TestNext_WrapsToLow(t *testing.T) {
	a := NewAllocator(10, 12)

	assert.Equal(t, 10, a.Next())
	assert.Equal(t, 11, a.Next())
	assert.Equal(t, 12, a.Next())
	assert.Equal(t, 10, a.Next(), "range exhaustion wraps back to the low bound")
	assert.Equal(t, uint64(1), a.Wraps())
}

func TestNext_ConcurrentDistinctUntilWrap(t *testing.T) {
	a := NewAllocator(9223, 9999)

	const callers = 100
	got := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- a.Next()
		}()
	}
	wg.Wait()
	close(got)

	seen := make(map[int]bool, callers)
	for port := range got {
		assert.False(t, seen[port], "port %d issued twice before wraparound", port)
		seen[port] = true
	}
	assert.Len(t, seen, callers)
}

func TestNewAllocator_InvalidRangeUsesDefaults(t *testing.T) {
	a := NewAllocator(0, 0)
	low, high := a.Range()
	assert.Equal(t, DefaultLow, low)
	assert.Equal(t, DefaultHigh, high)

	a = NewAllocator(50, 10)
	low, high = a.Range()
	assert.Equal(t, DefaultLow, low)
	assert.Equal(t, DefaultHigh, high)
}
