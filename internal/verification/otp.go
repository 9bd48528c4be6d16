package verification

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	// OTPTTL is how long an issued code stays valid.
	OTPTTL = 10 * time.Minute
	// ReissueCooldown is the minimum gap between two issuances on the
	// same channel.
	ReissueCooldown = time.Minute
	// MaxOTPAttempts is the number of consecutive wrong codes that
	// triggers a lockout.
	MaxOTPAttempts = 3
)

// GenerateCode returns a 4-digit code uniformly sampled from 1000-9999.
// The range is part of the external contract (SMS templates and the mobile
// app both assume exactly four digits with no leading zero).
func GenerateCode() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(9000))
	return fmt.Sprintf("%04d", n.Int64()+1000)
}

// IssueOTP issues a fresh code for the given channel. Issuing always clears
// that channel's verified flag: re-requesting a code on an already-verified
// channel un-verifies it until the new code is confirmed. The other
// channel's state is untouched.
func IssueOTP(rec Record, ch Channel, now time.Time) (Record, IssueResult) {
	rec = lazyUnlock(rec, now)

	if locked, remaining := LockStatus(rec, now); locked {
		return rec, IssueResult{Status: StatusAccountLocked, Remaining: remaining}
	}

	_, issuedAt, _ := channelState(&rec, ch)
	if issuedAt != nil {
		elapsed := now.Sub(*issuedAt)
		if elapsed < ReissueCooldown {
			return rec, IssueResult{Status: StatusRateLimited, RetryAfter: ReissueCooldown - elapsed}
		}
	}

	code := GenerateCode()
	ts := now
	setChannelState(&rec, ch, &code, &ts, false)

	return rec, IssueResult{Status: StatusSuccess, Code: code}
}

// VerifyOTP checks a submitted code against the outstanding one for the
// channel. A missing code and a code past its TTL produce the same outward
// Expired signal. On the attempt that reaches MaxOTPAttempts the account
// enters lockout and the result is Locked rather than InvalidCode.
func VerifyOTP(rec Record, ch Channel, submitted string, now time.Time) (Record, VerifyResult) {
	rec = lazyUnlock(rec, now)

	if locked, remaining := LockStatus(rec, now); locked {
		return rec, VerifyResult{Status: StatusAccountLocked, Remaining: remaining}
	}

	ts := now
	rec.LastOTPAttempt = &ts

	code, issuedAt, _ := channelState(&rec, ch)
	if code == nil || issuedAt == nil {
		return rec, VerifyResult{Status: StatusExpired}
	}
	if now.Sub(*issuedAt) > OTPTTL {
		return rec, VerifyResult{Status: StatusExpired}
	}

	if !codesMatch(*code, submitted) {
		rec.FailedOTPAttempts++
		if rec.FailedOTPAttempts >= MaxOTPAttempts {
			rec = lock(rec, now, OTPLockoutDuration)
			return rec, VerifyResult{Status: StatusLocked, Remaining: OTPLockoutDuration}
		}
		return rec, VerifyResult{Status: StatusInvalidCode}
	}

	setChannelState(&rec, ch, nil, nil, true)
	rec.FailedOTPAttempts = 0

	return rec, VerifyResult{Status: StatusSuccess}
}

// codesMatch compares two codes in constant time.
func codesMatch(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
