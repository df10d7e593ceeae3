package constants

// Run status constants
type RunStatus string

const (
	RunStatusInitializing    RunStatus = "initializing"            // Record created, browser not up yet
	RunStatusBrowserReady    RunStatus = "browser_ready"           // Browser session open, walking the portal
	RunStatusWaitingForOTP   RunStatus = "waiting_for_otp"         // Registered on the wait list for a code
	RunStatusCompleted       RunStatus = "completed"               // Portal walk finished
	RunStatusTimeoutError    RunStatus = "timeout_error"           // No code arrived, or a portal step timed out
	RunStatusElementNotFound RunStatus = "element_not_found_error" // Expected portal element missing
	RunStatusError           RunStatus = "error"                   // Any other failure
)

func (s RunStatus) String() string {
	return string(s)
}

// Terminal reports whether the status admits no further transitions.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusTimeoutError, RunStatusElementNotFound, RunStatusError:
		return true
	}
	return false
}
