package models

import "time"

// Account activity actions
const (
	ActionOTPRequested = "otp_requested"
	ActionOTPVerified  = "otp_verified"
	ActionOTPFailed    = "otp_failed"
	ActionLogin        = "login"
	ActionLoginFailed  = "login_failed"
	ActionUnlocked     = "account_unlocked"
)

// ActivityLog records account security events for the admin audit view
type ActivityLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
