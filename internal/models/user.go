package models

import "time"

// User roles
const (
	RoleBuyer = "buyer"
	RoleOwner = "owner"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	City         string    `json:"city"`
	IsActive     bool      `json:"is_active"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	TOTPSecret   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Role     string `json:"role"`
	City     string `json:"city"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication.
// Token is present only once the account is fully verified.
type AuthResponse struct {
	Token         string `json:"token,omitempty"`
	User          *User  `json:"user"`
	FullyVerified bool   `json:"fully_verified"`
}

// SendOTPRequest asks for a fresh code on one channel
type SendOTPRequest struct {
	Channel string `json:"channel"` // "email" or "mobile"
}

// VerifyOTPRequest submits a code for one channel
type VerifyOTPRequest struct {
	Channel string `json:"channel"`
	OTP     string `json:"otp"`
}

// TOTPSetupResponse is returned when an agent enrolls in TOTP
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// TOTPVerifyRequest submits a 6-digit authenticator code
type TOTPVerifyRequest struct {
	Code string `json:"code"`
}
