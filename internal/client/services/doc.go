// Package services contains the application services of the TrackMate
// client: credential login, the OTP challenge flows, the per-employee task
// schedule and the manager's roster.
//
// Services never print. They return *common.Error values whose Kind tells
// the UI how to present them; the Msg* constants are the fallbacks to use
// when the server sent no message of its own.
package services

// Fallback messages shown when a failure carries no server text.
const (
	MsgOTPSent            = "OTP sent to your email."
	MsgOTPRequestFailed   = "Error sending OTP"
	MsgOTPVerified        = "OTP Verified Successfully!"
	MsgInvalidOTP         = "Invalid OTP. Please try again."
	MsgVerifyFailed       = "Error verifying OTP"
	MsgResetOTPInvalid    = "Invalid OTP"
	MsgResetFailed        = "Error resetting password"
	MsgLoginFailed        = "Login failed"
	MsgLoadEmployees      = "Failed to load employees. Please try again."
	MsgUpdateDepartment   = "Failed to update department."
	MsgAssignTaskFailed   = "Failed to assign task."
	MsgFetchTasksFailed   = "An error occurred while fetching tasks"
	MsgRefreshTasksFailed = "Failed to fetch tasks. Please check the server or try again."
	MsgRemoveTaskFailed   = "Failed to remove task. Please try again."
	MsgRemoveUserFailed   = "Failed to remove user"
)
