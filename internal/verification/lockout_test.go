package verification

import (
	"testing"
	"time"
)

func TestLoginFailuresLockAtThreshold(t *testing.T) {
	rec := Record{UserID: 1}
	for i := 0; i < MaxLoginAttempts-1; i++ {
		rec = RecordLoginFailure(rec, t0.Add(time.Duration(i)*time.Second))
		if rec.Locked {
			t.Fatalf("locked after %d login failures", i+1)
		}
	}

	rec = RecordLoginFailure(rec, t0.Add(time.Minute))
	if !rec.Locked || rec.LockedUntil == nil {
		t.Fatal("not locked after fifth login failure")
	}
	// Login-triggered locks last 15 minutes, not the OTP lock's 30.
	want := t0.Add(time.Minute).Add(LoginLockoutDuration)
	if !rec.LockedUntil.Equal(want) {
		t.Fatalf("LockedUntil = %v, want %v", rec.LockedUntil, want)
	}
	if rec.LastLoginAttempt == nil || !rec.LastLoginAttempt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("LastLoginAttempt = %v", rec.LastLoginAttempt)
	}
}

func TestLoginAndOTPCountersAreIndependent(t *testing.T) {
	rec := Record{UserID: 1, FailedOTPAttempts: 2}
	rec = RecordLoginFailure(rec, t0)
	if rec.FailedOTPAttempts != 2 {
		t.Fatalf("login failure changed OTP counter: %d", rec.FailedOTPAttempts)
	}
	if rec.FailedLoginAttempts != 1 {
		t.Fatalf("FailedLoginAttempts = %d, want 1", rec.FailedLoginAttempts)
	}

	rec = ResetLoginFailures(rec)
	if rec.FailedLoginAttempts != 0 {
		t.Fatalf("FailedLoginAttempts = %d after reset", rec.FailedLoginAttempts)
	}
	if rec.FailedOTPAttempts != 2 {
		t.Fatal("reset of login failures touched the OTP counter")
	}
}

func TestLockStatusLazyExpiry(t *testing.T) {
	until := t0.Add(15 * time.Minute)
	rec := Record{UserID: 1, Locked: true, LockedUntil: &until}

	locked, remaining := LockStatus(rec, t0)
	if !locked || remaining != 15*time.Minute {
		t.Fatalf("LockStatus = %v/%v, want locked/15m", locked, remaining)
	}

	locked, _ = LockStatus(rec, until)
	if locked {
		t.Fatal("still locked exactly at LockedUntil")
	}
	locked, _ = LockStatus(rec, until.Add(time.Hour))
	if locked {
		t.Fatal("still locked well past LockedUntil")
	}
}

func TestLockStatusIgnoresDanglingFlag(t *testing.T) {
	// Locked without LockedUntil is treated as unlocked rather than a
	// permanent ban.
	rec := Record{UserID: 1, Locked: true}
	if locked, _ := LockStatus(rec, t0); locked {
		t.Fatal("locked flag without expiry treated as active lock")
	}
}

func TestUnlockResetsEverything(t *testing.T) {
	until := t0.Add(time.Hour)
	rec := Record{
		UserID:              1,
		Locked:              true,
		LockedUntil:         &until,
		FailedOTPAttempts:   3,
		FailedLoginAttempts: 5,
	}

	rec = Unlock(rec)
	if rec.Locked || rec.LockedUntil != nil {
		t.Fatal("unlock left lock state behind")
	}
	if rec.FailedOTPAttempts != 0 || rec.FailedLoginAttempts != 0 {
		t.Fatalf("counters after unlock: otp=%d login=%d", rec.FailedOTPAttempts, rec.FailedLoginAttempts)
	}

	// Unlike Unlock, lazy expiry keeps the counters.
	rec2 := Record{UserID: 2, Locked: true, LockedUntil: &t0, FailedLoginAttempts: 5}
	rec2 = RecordLoginFailure(rec2, t0.Add(time.Minute))
	if !rec2.Locked {
		t.Fatal("standing login counter did not re-lock after expiry")
	}
}
