package verification

import "time"

// Two independent lockout policies. The durations differ on purpose: OTP
// abuse locks longer than password guessing, and the two counters never
// share a threshold.
const (
	// OTPLockoutDuration applies when FailedOTPAttempts reaches MaxOTPAttempts.
	OTPLockoutDuration = 30 * time.Minute
	// LoginLockoutDuration applies when FailedLoginAttempts reaches MaxLoginAttempts.
	LoginLockoutDuration = 15 * time.Minute
	// MaxLoginAttempts is the consecutive failed password logins that
	// triggers a lockout.
	MaxLoginAttempts = 5
)

// LockStatus reports whether the record is under an active lockout and how
// long remains. Expiry is lazy: once now reaches LockedUntil the record
// reads as unlocked even though nothing has been written yet.
func LockStatus(rec Record, now time.Time) (bool, time.Duration) {
	if !rec.Locked || rec.LockedUntil == nil {
		return false, 0
	}
	if !now.Before(*rec.LockedUntil) {
		return false, 0
	}
	return true, rec.LockedUntil.Sub(now)
}

// RecordLoginFailure counts a failed password login. Reaching
// MaxLoginAttempts enters lockout for LoginLockoutDuration.
func RecordLoginFailure(rec Record, now time.Time) Record {
	rec = lazyUnlock(rec, now)

	ts := now
	rec.LastLoginAttempt = &ts
	rec.FailedLoginAttempts++
	if rec.FailedLoginAttempts >= MaxLoginAttempts {
		rec = lock(rec, now, LoginLockoutDuration)
	}
	return rec
}

// ResetLoginFailures clears the login failure counter after a successful
// password login. The OTP counter is left alone.
func ResetLoginFailures(rec Record) Record {
	rec.FailedLoginAttempts = 0
	return rec
}

// Unlock is the administrative reset: it lifts the lockout and zeroes both
// failure counters. Lazy expiry never does this; an expired lock leaves the
// counters standing until a successful verify or login clears them.
func Unlock(rec Record) Record {
	rec.Locked = false
	rec.LockedUntil = nil
	rec.FailedOTPAttempts = 0
	rec.FailedLoginAttempts = 0
	return rec
}

func lock(rec Record, now time.Time, d time.Duration) Record {
	until := now.Add(d)
	rec.Locked = true
	rec.LockedUntil = &until
	return rec
}

// lazyUnlock normalizes an expired lockout on write paths. It clears the
// locked flag and timestamp but deliberately keeps the failure counters, so
// another failure right after expiry re-locks immediately.
func lazyUnlock(rec Record, now time.Time) Record {
	if rec.Locked && rec.LockedUntil != nil && !now.Before(*rec.LockedUntil) {
		rec.Locked = false
		rec.LockedUntil = nil
	}
	return rec
}
