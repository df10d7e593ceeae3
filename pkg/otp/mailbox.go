package otp

import (
	"sync"
	"time"
)

const (
	// DefaultValidityWindow matches the portal's own code expiry.
	DefaultValidityWindow = 5 * time.Minute
)

// Mailbox is the legacy single-slot fallback for callers that never acquired
// a worker identity. Last write wins on the producer side, a single global
// consumer reads-and-clears, and a stored code goes stale after the validity
// window. It carries none of the fair queue's guarantees.
type Mailbox struct {
	mu       sync.Mutex
	code     string
	storedAt time.Time
	window   time.Duration
}

// NewMailbox creates a mailbox with the given validity window.
// A non-positive window selects the default.
func NewMailbox(window time.Duration) *Mailbox {
	if window <= 0 {
		window = DefaultValidityWindow
	}
	return &Mailbox{window: window}
}

// Put stores code unconditionally, overwriting any previous value. It never
// fails; delivery to an empty room is still delivery.
func (m *Mailbox) Put(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code = code
	m.storedAt = time.Now()
}

// Take consumes the stored code if one is present and still valid. An expired
// value is cleared and not returned.
func (m *Mailbox) Take() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.code == "" {
		return "", false
	}
	code := m.code
	m.code = ""
	if time.Since(m.storedAt) >= m.window {
		return "", false
	}
	return code, true
}

// Status describes the mailbox without mutating it.
type Status struct {
	Waiting   bool
	Age       time.Duration
	ExpiresIn time.Duration
}

// Snapshot returns the current mailbox status. A value past its validity
// window is reported with ExpiresIn zero; it stays in place until the next
// Take or Put.
func (m *Mailbox) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.code == "" {
		return Status{}
	}
	age := time.Since(m.storedAt)
	remaining := m.window - age
	if remaining < 0 {
		remaining = 0
	}
	return Status{Waiting: true, Age: age, ExpiresIn: remaining}
}
