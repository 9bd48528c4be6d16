package verification

import "time"

// Channel identifies which contact point an OTP belongs to.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// Record holds the verification and lockout state for one user.
// Operations in this package never mutate a Record in place; they
// take a snapshot and return the updated copy, so the state machine
// can be exercised without a database.
type Record struct {
	UserID int `json:"user_id"`

	EmailCode         *string    `json:"-"`
	EmailCodeIssuedAt *time.Time `json:"email_code_issued_at,omitempty"`
	EmailVerified     bool       `json:"email_verified"`

	MobileCode         *string    `json:"-"`
	MobileCodeIssuedAt *time.Time `json:"mobile_code_issued_at,omitempty"`
	MobileVerified     bool       `json:"mobile_verified"`

	FailedLoginAttempts int `json:"failed_login_attempts"`
	FailedOTPAttempts   int `json:"failed_otp_attempts"`

	Locked      bool       `json:"locked"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`

	LastLoginAttempt *time.Time `json:"last_login_attempt,omitempty"`
	LastOTPAttempt   *time.Time `json:"last_otp_attempt,omitempty"`
}

// Status is the outcome of an issue or verify operation. Expected
// business outcomes (wrong code, locked account) are statuses, not
// errors, so handlers can map them to HTTP responses directly.
type Status int

const (
	// StatusSuccess means the operation completed.
	StatusSuccess Status = iota
	// StatusRateLimited means a code for this channel was issued less
	// than the reissue cooldown ago.
	StatusRateLimited
	// StatusExpired means no code is outstanding for the channel, or
	// the outstanding code is past its TTL.
	StatusExpired
	// StatusInvalidCode means the submitted code did not match.
	StatusInvalidCode
	// StatusLocked means this very operation pushed the failure counter
	// over the limit and the account just entered lockout.
	StatusLocked
	// StatusAccountLocked means the account was already under an active
	// lockout when the operation was attempted.
	StatusAccountLocked
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRateLimited:
		return "rate_limited"
	case StatusExpired:
		return "expired"
	case StatusInvalidCode:
		return "invalid_code"
	case StatusLocked:
		return "locked"
	case StatusAccountLocked:
		return "account_locked"
	}
	return "unknown"
}

// IssueResult is returned by IssueOTP. Code is set only on success;
// RetryAfter is set for rate-limited results and Remaining for locked ones.
type IssueResult struct {
	Status     Status
	Code       string
	RetryAfter time.Duration
	Remaining  time.Duration
}

// VerifyResult is returned by VerifyOTP. Remaining carries the time left
// on the lockout for StatusLocked and StatusAccountLocked.
type VerifyResult struct {
	Status    Status
	Remaining time.Duration
}

// FullyVerified reports whether both channels have been confirmed. This is
// the gate token issuance checks after every successful verify; it is never
// stored, always derived.
func FullyVerified(rec Record) bool {
	return rec.EmailVerified && rec.MobileVerified
}

// channelState returns the code, issued-at and verified flag for one channel.
func channelState(rec *Record, ch Channel) (code *string, issuedAt *time.Time, verified bool) {
	if ch == ChannelMobile {
		return rec.MobileCode, rec.MobileCodeIssuedAt, rec.MobileVerified
	}
	return rec.EmailCode, rec.EmailCodeIssuedAt, rec.EmailVerified
}

// setChannelState writes the code, issued-at and verified flag for one channel.
func setChannelState(rec *Record, ch Channel, code *string, issuedAt *time.Time, verified bool) {
	if ch == ChannelMobile {
		rec.MobileCode = code
		rec.MobileCodeIssuedAt = issuedAt
		rec.MobileVerified = verified
		return
	}
	rec.EmailCode = code
	rec.EmailCodeIssuedAt = issuedAt
	rec.EmailVerified = verified
}
