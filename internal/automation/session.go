package automation

import (
	"context"
	"errors"
)

// Portal-walk failures a Session may surface. The runner maps them onto the
// worker's terminal status.
var (
	// ErrElementNotFound indicates an expected portal element was missing.
	ErrElementNotFound = errors.New("automation: portal element not found")
	// ErrStepTimeout indicates a portal step did not finish in time.
	ErrStepTimeout = errors.New("automation: portal step timed out")
)

// Session drives one browser through the agent portal. Implementations live
// outside this module; the coordinator only cares about the points where the
// walk touches worker lifecycle and code delivery.
type Session interface {
	// Open starts the browser on the given remote-debugging port and logs
	// into the portal.
	Open(ctx context.Context, debugPort int) error

	// NeedsVerification reports whether the portal is challenging for a
	// one-time passcode at this point of the walk.
	NeedsVerification(ctx context.Context) (bool, error)

	// SubmitVerification enters the code into the portal's challenge form.
	SubmitVerification(ctx context.Context, code string) error

	// Complete finishes the remaining form steps and scrapes confirmation.
	Complete(ctx context.Context) error

	// Close tears the browser down. Always called, even after errors.
	Close() error
}

// SessionFactory creates one Session per automation run.
type SessionFactory func() Session
