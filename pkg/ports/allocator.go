// Package ports hands out remote-debugging ports for browser instances. Each
// browser needs a unique port to avoid conflicts with its neighbors.
package ports

import (
	"sync"

	"otprelay/pkg/logger"
)

const (
	// DefaultLow leaves 9222 free for a default Chrome instance.
	DefaultLow  = 9223
	DefaultHigh = 9999
)

// Allocator issues ports from a bounded range by simple monotonic wraparound.
// There is no release step: a port handed out after wraparound may collide
// with one still in use, which is accepted because browsers free their ports
// far faster than the range is consumed. The wrap counter exists so that
// assumption can be checked, not enforced.
type Allocator struct {
	mu    sync.Mutex
	next  int
	low   int
	high  int
	wraps uint64
}

// NewAllocator creates an allocator over [low, high]. An empty or inverted
// range selects the defaults.
func NewAllocator(low, high int) *Allocator {
	if low <= 0 || high < low {
		low, high = DefaultLow, DefaultHigh
	}
	return &Allocator{next: low, low: low, high: high}
}

// Next returns the next port. Values are distinct until the range wraps.
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	port := a.next
	a.next++
	if a.next > a.high {
		a.next = a.low
		a.wraps++
		logger.Warnf("debug port range [%d, %d] wrapped (%d time(s)); reissued ports may collide with active browsers", a.low, a.high, a.wraps)
	}
	return port
}

// Wraps returns how many times the range has been exhausted.
func (a *Allocator) Wraps() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wraps
}

// Range returns the allocation bounds.
func (a *Allocator) Range() (low, high int) {
	return a.low, a.high
}
