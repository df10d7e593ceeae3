package model

// Run action constants, matching the portal operations the automation workers
// perform.
const (
	ActionDriverAdd      = "driver_add"
	ActionDriverUpdate   = "driver_update"
	ActionVehicleAdd     = "vehicle_add"
	ActionVehicleReplace = "vehicle_replace"
)

// ValidAction reports whether action names a supported portal operation.
func ValidAction(action string) bool {
	switch action {
	case ActionDriverAdd, ActionDriverUpdate, ActionVehicleAdd, ActionVehicleReplace:
		return true
	}
	return false
}

// StartRunRequest starts one automation run against the portal
type StartRunRequest struct {
	PolicyNumber string `json:"policy_number" binding:"required"`
	Action       string `json:"action" binding:"required"`
}

// StartRunResponse acknowledges a started run
type StartRunResponse struct {
	WorkerID int64  `json:"worker_id"`
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
}

// SubmitOTPRequest manual code submission (JSON shape)
type SubmitOTPRequest struct {
	OTP string `json:"otp"`
}
