package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estate-backend/internal/models"
	"estate-backend/internal/verification"
)

// fakeRecordStore keeps records in memory and serializes WithRecord the
// same way the row lock does.
type fakeRecordStore struct {
	mu      sync.Mutex
	records map[int]verification.Record
	failOn  error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[int]verification.Record)}
}

func (f *fakeRecordStore) CreateRecord(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[userID] = verification.Record{UserID: userID}
	return nil
}

func (f *fakeRecordStore) GetRecord(_ context.Context, userID int) (verification.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok {
		return verification.Record{}, errors.New("no record")
	}
	return rec, nil
}

func (f *fakeRecordStore) WithRecord(_ context.Context, userID int, fn func(verification.Record) (verification.Record, error)) (verification.Record, error) {
	if f.failOn != nil {
		return verification.Record{}, f.failOn
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok {
		return verification.Record{}, errors.New("no record")
	}
	updated, err := fn(rec)
	if err != nil {
		return verification.Record{}, err
	}
	f.records[userID] = updated
	return updated, nil
}

// captureSender records deliveries so tests can assert on them
type captureSender struct {
	mu    sync.Mutex
	sent  []string
	errCh chan struct{}
	fail  bool
}

func newCaptureSender() *captureSender {
	return &captureSender{errCh: make(chan struct{}, 8)}
}

func (c *captureSender) SendCode(_ verification.Channel, destination, code string) error {
	c.mu.Lock()
	c.sent = append(c.sent, destination+":"+code)
	c.mu.Unlock()
	c.errCh <- struct{}{}
	if c.fail {
		return errors.New("provider down")
	}
	return nil
}

func (c *captureSender) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-c.errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("code was never handed to the sender")
	}
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func testUser() *models.User {
	return &models.User{
		ID:     7,
		Email:  "asha@example.com",
		Mobile: "9876543210",
	}
}

func TestRequestOTPStoresCodeAndDelivers(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)

	result, err := svc.RequestOTP(context.Background(), testUser(), verification.ChannelEmail, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if result.Status != verification.StatusSuccess {
		t.Fatalf("status = %v, want success", result.Status)
	}

	rec, _ := store.GetRecord(context.Background(), 7)
	if rec.EmailCode == nil || *rec.EmailCode != result.Code {
		t.Fatalf("stored code does not match issued code")
	}

	sender.waitForSend(t)
	sender.mu.Lock()
	got := sender.sent[0]
	sender.mu.Unlock()
	want := "asha@example.com:" + result.Code
	if got != want {
		t.Fatalf("delivered %q, want %q", got, want)
	}
}

func TestRequestOTPMobileGoesToMobileNumber(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)

	result, err := svc.RequestOTP(context.Background(), testUser(), verification.ChannelMobile, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}

	sender.waitForSend(t)
	sender.mu.Lock()
	got := sender.sent[0]
	sender.mu.Unlock()
	want := "9876543210:" + result.Code
	if got != want {
		t.Fatalf("delivered %q, want %q", got, want)
	}
}

func TestRequestOTPCooldownDoesNotDeliver(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)

	if _, err := svc.RequestOTP(context.Background(), testUser(), verification.ChannelEmail, "1.2.3.4", "test"); err != nil {
		t.Fatalf("first RequestOTP: %v", err)
	}
	sender.waitForSend(t)

	result, err := svc.RequestOTP(context.Background(), testUser(), verification.ChannelEmail, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("second RequestOTP: %v", err)
	}
	if result.Status != verification.StatusRateLimited {
		t.Fatalf("status = %v, want rate limited", result.Status)
	}
	if sender.count() != 1 {
		t.Fatalf("sender called %d times, want 1", sender.count())
	}
}

func TestRequestOTPStoreFailureReturnsError(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	store.failOn = errors.New("db down")
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)

	if _, err := svc.RequestOTP(context.Background(), testUser(), verification.ChannelEmail, "1.2.3.4", "test"); err == nil {
		t.Fatal("expected error when store fails")
	}
	if sender.count() != 0 {
		t.Fatal("code must not be sent when the state change did not commit")
	}
}

func TestRequestOTPDeliveryFailureDoesNotUndoState(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	sender.fail = true
	svc := NewVerificationService(store, sender, nil)

	result, err := svc.RequestOTP(context.Background(), testUser(), verification.ChannelEmail, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if result.Status != verification.StatusSuccess {
		t.Fatalf("status = %v, want success", result.Status)
	}
	sender.waitForSend(t)

	rec, _ := store.GetRecord(context.Background(), 7)
	if rec.EmailCode == nil {
		t.Fatal("issued code must survive a failed delivery")
	}
}

func TestSubmitOTPRoundTrip(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)
	user := testUser()

	issued, err := svc.RequestOTP(context.Background(), user, verification.ChannelEmail, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}

	result, rec, err := svc.SubmitOTP(context.Background(), user, verification.ChannelEmail, issued.Code, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("SubmitOTP: %v", err)
	}
	if result.Status != verification.StatusSuccess {
		t.Fatalf("status = %v, want success", result.Status)
	}
	if !rec.EmailVerified {
		t.Fatal("email channel not marked verified")
	}
	if rec.EmailCode != nil {
		t.Fatal("consumed code must be cleared")
	}
}

func TestSubmitOTPWrongCodePersistsAttempt(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)
	user := testUser()

	if _, err := svc.RequestOTP(context.Background(), user, verification.ChannelEmail, "1.2.3.4", "test"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}

	result, _, err := svc.SubmitOTP(context.Background(), user, verification.ChannelEmail, "0000", "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("SubmitOTP: %v", err)
	}
	if result.Status != verification.StatusInvalidCode {
		t.Fatalf("status = %v, want invalid code", result.Status)
	}

	rec, _ := store.GetRecord(context.Background(), 7)
	if rec.FailedOTPAttempts != 1 {
		t.Fatalf("FailedOTPAttempts = %d, want 1 persisted", rec.FailedOTPAttempts)
	}
}

func TestThirdWrongCodeLocksThroughService(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)
	user := testUser()

	if _, err := svc.RequestOTP(context.Background(), user, verification.ChannelEmail, "1.2.3.4", "test"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	sender.waitForSend(t)

	var result verification.VerifyResult
	for i := 0; i < 3; i++ {
		var err error
		result, _, err = svc.SubmitOTP(context.Background(), user, verification.ChannelEmail, "0000", "1.2.3.4", "test")
		if err != nil {
			t.Fatalf("SubmitOTP %d: %v", i+1, err)
		}
	}
	if result.Status != verification.StatusLocked {
		t.Fatalf("third wrong code: status = %v, want locked", result.Status)
	}

	// Locked accounts refuse new codes and nothing is delivered for them
	issued, err := svc.RequestOTP(context.Background(), user, verification.ChannelEmail, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("RequestOTP while locked: %v", err)
	}
	if issued.Status != verification.StatusAccountLocked {
		t.Fatalf("status = %v, want account locked", issued.Status)
	}
	if sender.count() != 1 {
		t.Fatalf("sender called %d times, want 1", sender.count())
	}
}

func TestUnlockClearsLockAndCounters(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)
	user := testUser()

	if _, err := svc.RequestOTP(context.Background(), user, verification.ChannelEmail, "1.2.3.4", "test"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, _, err := svc.SubmitOTP(context.Background(), user, verification.ChannelEmail, "0000", "1.2.3.4", "test"); err != nil {
			t.Fatalf("SubmitOTP: %v", err)
		}
	}

	rec, err := svc.Unlock(context.Background(), 7, "10.0.0.1", "admin")
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if rec.Locked || rec.LockedUntil != nil {
		t.Fatal("unlock must clear the lock")
	}
	if rec.FailedOTPAttempts != 0 || rec.FailedLoginAttempts != 0 {
		t.Fatal("unlock must reset both counters")
	}

	issued, err := svc.RequestOTP(context.Background(), user, verification.ChannelEmail, "1.2.3.4", "test")
	if err != nil {
		t.Fatalf("RequestOTP after unlock: %v", err)
	}
	if issued.Status != verification.StatusSuccess {
		t.Fatalf("status = %v, want success after unlock", issued.Status)
	}
}

func TestRecordLoginFailureLocksAtThreshold(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	svc := NewVerificationService(store, newCaptureSender(), nil)

	var rec verification.Record
	for i := 0; i < verification.MaxLoginAttempts; i++ {
		var err error
		rec, err = svc.RecordLoginFailure(context.Background(), 7, "1.2.3.4", "test")
		if err != nil {
			t.Fatalf("RecordLoginFailure %d: %v", i+1, err)
		}
	}
	if !rec.Locked {
		t.Fatalf("account not locked after %d failures", verification.MaxLoginAttempts)
	}

	if err := svc.ResetLoginFailures(context.Background(), 7); err != nil {
		t.Fatalf("ResetLoginFailures: %v", err)
	}
	rec, _ = store.GetRecord(context.Background(), 7)
	if rec.FailedLoginAttempts != 0 {
		t.Fatalf("FailedLoginAttempts = %d, want 0", rec.FailedLoginAttempts)
	}
}

func TestIsFullyVerified(t *testing.T) {
	store := newFakeRecordStore()
	store.CreateRecord(context.Background(), 7)
	sender := newCaptureSender()
	svc := NewVerificationService(store, sender, nil)
	user := testUser()

	ok, err := svc.IsFullyVerified(context.Background(), 7)
	if err != nil {
		t.Fatalf("IsFullyVerified: %v", err)
	}
	if ok {
		t.Fatal("fresh account must not be fully verified")
	}

	for _, ch := range []verification.Channel{verification.ChannelEmail, verification.ChannelMobile} {
		issued, err := svc.RequestOTP(context.Background(), user, ch, "1.2.3.4", "test")
		if err != nil {
			t.Fatalf("RequestOTP(%s): %v", ch, err)
		}
		if _, _, err := svc.SubmitOTP(context.Background(), user, ch, issued.Code, "1.2.3.4", "test"); err != nil {
			t.Fatalf("SubmitOTP(%s): %v", ch, err)
		}
	}

	ok, err = svc.IsFullyVerified(context.Background(), 7)
	if err != nil {
		t.Fatalf("IsFullyVerified: %v", err)
	}
	if !ok {
		t.Fatal("both channels verified but account not fully verified")
	}
}
