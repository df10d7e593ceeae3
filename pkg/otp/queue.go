// Package otp holds the passcode distribution primitives: a ticket-gated FIFO
// queue that routes each delivered code to exactly one waiting worker in
// registration order, and a legacy single-slot mailbox for callers without a
// worker identity.
package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"otprelay/pkg/logger"
)

const (
	// DefaultPollInterval bounds how stale a worker's "is it my turn yet"
	// decision can be without busy-spinning.
	DefaultPollInterval = 100 * time.Millisecond
)

// ErrAcquireTimeout is returned when no code reached the worker within its
// deadline. It is the only queue error that propagates to the caller.
var ErrAcquireTimeout = errors.New("otp: no code received within timeout")

// Queue distributes codes to workers in strict registration order. Producers
// append codes without knowing who will consume them; each registered worker
// receives at most one code, and only while it is the head of the wait list.
//
// The wait list and the code FIFO are guarded independently. Only the head
// worker ever pops, and the head check and the pop/remove happen inside one
// critical section, so a code can never be handed to two workers.
type Queue struct {
	waitMu  sync.Mutex
	waiting []int64 // worker IDs in registration order, no duplicates

	codeMu sync.Mutex
	codes  []string // delivered codes, FIFO

	pollInterval time.Duration
	pause        PauseStrategy
}

// NewQueue creates a queue that sleeps outright between turn checks.
func NewQueue() *Queue {
	return &Queue{
		pollInterval: DefaultPollInterval,
		pause:        BlockingPause{},
	}
}

// WithPauseStrategy replaces how Acquire waits between turn checks.
// Returns the queue for method chaining.
func (q *Queue) WithPauseStrategy(p PauseStrategy) *Queue {
	if p != nil {
		q.pause = p
	}
	return q
}

// WithPollInterval replaces the turn re-check interval.
// Returns the queue for method chaining.
func (q *Queue) WithPollInterval(d time.Duration) *Queue {
	if d > 0 {
		q.pollInterval = d
	}
	return q
}

// Deliver appends a code for FIFO distribution. It never blocks on worker
// progress and never fails; whether anyone is waiting is not its concern.
func (q *Queue) Deliver(code string) {
	q.codeMu.Lock()
	q.codes = append(q.codes, code)
	depth := len(q.codes)
	q.codeMu.Unlock()

	logger.Debugf("code queued for distribution (queue depth: %d)", depth)
}

// Acquire blocks until a code is available for workerID or timeout elapses.
// The worker is appended to the wait list on first call; re-entry with an ID
// still on the list keeps its existing position. On timeout (or, for the
// yielding pause strategy, context cancellation) the worker vacates its
// position without consuming anything and ErrAcquireTimeout is returned.
func (q *Queue) Acquire(ctx context.Context, workerID int64, timeout time.Duration) (string, error) {
	position := q.register(workerID)
	logger.Debugf("[worker-%d] waiting for code (timeout: %v, position: %d)", workerID, timeout, position)

	deadline := time.Now().Add(timeout)
	for {
		if code, ok := q.tryTake(workerID); ok {
			logger.Infof("[worker-%d] code received from queue", workerID)
			return code, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		interval := q.pollInterval
		if interval > remaining {
			interval = remaining
		}
		if !q.pause.Pause(ctx, interval) {
			break
		}
	}

	q.remove(workerID)
	logger.Warnf("[worker-%d] no code received within timeout period", workerID)
	return "", ErrAcquireTimeout
}

// register appends workerID to the wait list unless it is already present,
// and returns its 1-based position.
func (q *Queue) register(workerID int64) int {
	q.waitMu.Lock()
	defer q.waitMu.Unlock()

	for i, id := range q.waiting {
		if id == workerID {
			return i + 1
		}
	}
	q.waiting = append(q.waiting, workerID)
	return len(q.waiting)
}

// tryTake pops one code if workerID is the current head and a code is queued.
// Head check, pop and wait-list removal happen under waitMu so no other
// worker can observe an intermediate state.
func (q *Queue) tryTake(workerID int64) (string, bool) {
	q.waitMu.Lock()
	defer q.waitMu.Unlock()

	if len(q.waiting) == 0 || q.waiting[0] != workerID {
		return "", false
	}

	q.codeMu.Lock()
	defer q.codeMu.Unlock()

	if len(q.codes) == 0 {
		return "", false
	}
	code := q.codes[0]
	q.codes = q.codes[1:]
	q.waiting = q.waiting[1:]
	return code, true
}

// remove deletes workerID from the wait list if still present. Removal is
// self-service only; no other party ever vacates a worker's position.
func (q *Queue) remove(workerID int64) {
	q.waitMu.Lock()
	defer q.waitMu.Unlock()

	for i, id := range q.waiting {
		if id == workerID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}

// Waiting returns the number of workers currently on the wait list.
func (q *Queue) Waiting() int {
	q.waitMu.Lock()
	defer q.waitMu.Unlock()
	return len(q.waiting)
}

// Pending returns the number of delivered codes not yet consumed.
func (q *Queue) Pending() int {
	q.codeMu.Lock()
	defer q.codeMu.Unlock()
	return len(q.codes)
}

// Head returns the worker currently first in line, if any.
func (q *Queue) Head() (int64, bool) {
	q.waitMu.Lock()
	defer q.waitMu.Unlock()
	if len(q.waiting) == 0 {
		return 0, false
	}
	return q.waiting[0], true
}

// Position returns the 1-based wait-list position of workerID, or 0 when the
// worker is not waiting.
func (q *Queue) Position(workerID int64) int {
	q.waitMu.Lock()
	defer q.waitMu.Unlock()
	for i, id := range q.waiting {
		if id == workerID {
			return i + 1
		}
	}
	return 0
}
