package otp

import (
	"context"
	"time"
)

// PauseStrategy controls how Acquire waits between turn checks. Two call
// shapes share the queue: workers that own a dedicated goroutine for the whole
// portal walk sleep outright, while callers hosted on a shared execution
// context need the pause to stay interruptible.
type PauseStrategy interface {
	// Pause waits for roughly d. It reports false if the caller's context
	// was cancelled before the interval elapsed.
	Pause(ctx context.Context, d time.Duration) bool
}

// BlockingPause sleeps outright. Use for callers on a dedicated goroutine.
type BlockingPause struct{}

func (BlockingPause) Pause(_ context.Context, d time.Duration) bool {
	time.Sleep(d)
	return true
}

// YieldingPause suspends on a timer but gives up as soon as the context is
// done, so a shared host is never stalled past its own lifetime.
type YieldingPause struct{}

func (YieldingPause) Pause(ctx context.Context, d time.Duration) bool {
	if ctx == nil {
		time.Sleep(d)
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
