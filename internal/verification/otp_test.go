package verification

import (
	"strconv"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func issuedRecord(t *testing.T, ch Channel, now time.Time) (Record, string) {
	t.Helper()
	rec, res := IssueOTP(Record{UserID: 1}, ch, now)
	if res.Status != StatusSuccess {
		t.Fatalf("IssueOTP status = %v, want success", res.Status)
	}
	return rec, res.Code
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code := GenerateCode()
		if len(code) != 4 {
			t.Fatalf("code %q is not 4 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("code %d outside 1000-9999", n)
		}
	}
}

func TestIssueOTPTouchesOnlyOneChannel(t *testing.T) {
	rec, _ := issuedRecord(t, ChannelEmail, t0)

	if rec.EmailCode == nil || rec.EmailCodeIssuedAt == nil {
		t.Fatal("email code not set after issuance")
	}
	if rec.MobileCode != nil || rec.MobileCodeIssuedAt != nil || rec.MobileVerified {
		t.Fatal("mobile channel state changed by email issuance")
	}
}

func TestReissueClearsVerifiedFlag(t *testing.T) {
	rec, code := issuedRecord(t, ChannelMobile, t0)
	rec, res := VerifyOTP(rec, ChannelMobile, code, t0.Add(time.Minute))
	if res.Status != StatusSuccess || !rec.MobileVerified {
		t.Fatalf("verify failed: status=%v verified=%v", res.Status, rec.MobileVerified)
	}

	// Re-requesting a code on a verified channel must un-verify it.
	rec, res2 := IssueOTP(rec, ChannelMobile, t0.Add(2*time.Minute))
	if res2.Status != StatusSuccess {
		t.Fatalf("reissue status = %v, want success", res2.Status)
	}
	if rec.MobileVerified {
		t.Fatal("mobile still verified after reissue")
	}
}

func TestIssueOTPCooldown(t *testing.T) {
	rec, _ := issuedRecord(t, ChannelEmail, t0)

	_, res := IssueOTP(rec, ChannelEmail, t0.Add(30*time.Second))
	if res.Status != StatusRateLimited {
		t.Fatalf("reissue after 30s: status = %v, want rate_limited", res.Status)
	}
	if res.RetryAfter != 30*time.Second {
		t.Fatalf("RetryAfter = %v, want 30s", res.RetryAfter)
	}

	_, res = IssueOTP(rec, ChannelEmail, t0.Add(time.Minute))
	if res.Status != StatusSuccess {
		t.Fatalf("reissue after full cooldown: status = %v, want success", res.Status)
	}

	// Cooldown applies per channel: the mobile channel is not throttled
	// by an email issuance.
	_, res = IssueOTP(rec, ChannelMobile, t0.Add(time.Second))
	if res.Status != StatusSuccess {
		t.Fatalf("mobile issue during email cooldown: status = %v, want success", res.Status)
	}
}

func TestVerifyOTPSuccess(t *testing.T) {
	rec, code := issuedRecord(t, ChannelEmail, t0)

	// Just inside the 10 minute TTL.
	rec, res := VerifyOTP(rec, ChannelEmail, code, t0.Add(10*time.Minute-time.Second))
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v, want success", res.Status)
	}
	if !rec.EmailVerified {
		t.Fatal("email not marked verified")
	}
	if rec.EmailCode != nil || rec.EmailCodeIssuedAt != nil {
		t.Fatal("code not cleared after successful verify")
	}
	if rec.FailedOTPAttempts != 0 {
		t.Fatalf("FailedOTPAttempts = %d, want 0", rec.FailedOTPAttempts)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	rec, code := issuedRecord(t, ChannelEmail, t0)

	// Correct code, but past the TTL.
	_, res := VerifyOTP(rec, ChannelEmail, code, t0.Add(OTPTTL+time.Second))
	if res.Status != StatusExpired {
		t.Fatalf("stale code: status = %v, want expired", res.Status)
	}

	// No outstanding code at all reads the same as expired.
	_, res = VerifyOTP(Record{UserID: 2}, ChannelMobile, "1234", t0)
	if res.Status != StatusExpired {
		t.Fatalf("absent code: status = %v, want expired", res.Status)
	}
}

func TestVerifyOTPWrongCodeCounts(t *testing.T) {
	rec, code := issuedRecord(t, ChannelMobile, t0)
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}

	rec, res := VerifyOTP(rec, ChannelMobile, wrong, t0.Add(time.Second))
	if res.Status != StatusInvalidCode || rec.FailedOTPAttempts != 1 {
		t.Fatalf("first wrong: status=%v attempts=%d", res.Status, rec.FailedOTPAttempts)
	}

	rec, res = VerifyOTP(rec, ChannelMobile, wrong, t0.Add(2*time.Second))
	if res.Status != StatusInvalidCode || rec.FailedOTPAttempts != 2 {
		t.Fatalf("second wrong: status=%v attempts=%d", res.Status, rec.FailedOTPAttempts)
	}

	// The third wrong submission triggers the lockout and reports it.
	rec, res = VerifyOTP(rec, ChannelMobile, wrong, t0.Add(3*time.Second))
	if res.Status != StatusLocked {
		t.Fatalf("third wrong: status = %v, want locked", res.Status)
	}
	if !rec.Locked || rec.LockedUntil == nil {
		t.Fatal("record not locked after third wrong code")
	}
	wantUntil := t0.Add(3 * time.Second).Add(OTPLockoutDuration)
	if !rec.LockedUntil.Equal(wantUntil) {
		t.Fatalf("LockedUntil = %v, want %v", rec.LockedUntil, wantUntil)
	}
}

func TestOperationsRefuseWhileLocked(t *testing.T) {
	until := t0.Add(OTPLockoutDuration)
	rec := Record{UserID: 1, Locked: true, LockedUntil: &until, FailedOTPAttempts: 3}

	_, ires := IssueOTP(rec, ChannelEmail, t0.Add(time.Minute))
	if ires.Status != StatusAccountLocked {
		t.Fatalf("issue while locked: status = %v, want account_locked", ires.Status)
	}
	if ires.Remaining != OTPLockoutDuration-time.Minute {
		t.Fatalf("Remaining = %v, want %v", ires.Remaining, OTPLockoutDuration-time.Minute)
	}

	_, vres := VerifyOTP(rec, ChannelEmail, "1234", t0.Add(time.Minute))
	if vres.Status != StatusAccountLocked {
		t.Fatalf("verify while locked: status = %v, want account_locked", vres.Status)
	}
}

func TestLockExpiresLazily(t *testing.T) {
	rec, code := issuedRecord(t, ChannelEmail, t0)
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	for i := 0; i < MaxOTPAttempts; i++ {
		rec, _ = VerifyOTP(rec, ChannelEmail, wrong, t0.Add(time.Duration(i)*time.Second))
	}
	if !rec.Locked {
		t.Fatal("record should be locked")
	}

	after := rec.LockedUntil.Add(time.Second)

	// Past LockedUntil the operations proceed as if never locked, and a
	// successful verify resets the OTP failure counter.
	rec, ires := IssueOTP(rec, ChannelEmail, after)
	if ires.Status != StatusSuccess {
		t.Fatalf("issue after expiry: status = %v, want success", ires.Status)
	}
	rec, vres := VerifyOTP(rec, ChannelEmail, ires.Code, after.Add(time.Second))
	if vres.Status != StatusSuccess {
		t.Fatalf("verify after expiry: status = %v, want success", vres.Status)
	}
	if rec.FailedOTPAttempts != 0 {
		t.Fatalf("FailedOTPAttempts = %d after successful verify, want 0", rec.FailedOTPAttempts)
	}
	if rec.Locked || rec.LockedUntil != nil {
		t.Fatal("lock state not cleared on write after expiry")
	}
}

func TestRelockAfterExpiryWithStandingCounter(t *testing.T) {
	// Lazy expiry does not zero the counters, so one more failure right
	// after the lock lapses locks again immediately.
	until := t0
	rec := Record{UserID: 1, Locked: true, LockedUntil: &until, FailedOTPAttempts: 3}

	rec, ires := IssueOTP(rec, ChannelEmail, t0.Add(time.Minute))
	if ires.Status != StatusSuccess {
		t.Fatalf("issue: status = %v", ires.Status)
	}
	wrong := "0000"
	if wrong == ires.Code {
		wrong = "0001"
	}
	rec, vres := VerifyOTP(rec, ChannelEmail, wrong, t0.Add(2*time.Minute))
	if vres.Status != StatusLocked {
		t.Fatalf("wrong code after expiry: status = %v, want locked", vres.Status)
	}
	if !rec.Locked {
		t.Fatal("record not re-locked")
	}
}

func TestFullyVerifiedOrderIndependent(t *testing.T) {
	orders := [][2]Channel{
		{ChannelEmail, ChannelMobile},
		{ChannelMobile, ChannelEmail},
	}
	for _, order := range orders {
		rec := Record{UserID: 1}
		now := t0
		for i, ch := range order {
			var res IssueResult
			rec, res = IssueOTP(rec, ch, now)
			if res.Status != StatusSuccess {
				t.Fatalf("issue %v: %v", ch, res.Status)
			}
			var vres VerifyResult
			rec, vres = VerifyOTP(rec, ch, res.Code, now.Add(time.Second))
			if vres.Status != StatusSuccess {
				t.Fatalf("verify %v: %v", ch, vres.Status)
			}
			if i == 0 && FullyVerified(rec) {
				t.Fatal("fully verified after only one channel")
			}
			now = now.Add(2 * time.Minute)
		}
		if !FullyVerified(rec) {
			t.Fatalf("not fully verified after order %v", order)
		}
	}
}
