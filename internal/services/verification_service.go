package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"estate-backend/internal/metrics"
	"estate-backend/internal/models"
	"estate-backend/internal/notify"
	"estate-backend/internal/ratelimit"
	"estate-backend/internal/timeutil"
	"estate-backend/internal/verification"
)

// ErrTooManyRequests means the client identity (IP) exceeded the OTP
// request budget. This is a network-level signal, distinct from the
// per-account lockout the state machine tracks.
var ErrTooManyRequests = errors.New("too many OTP requests, please try again later")

// Client-identity OTP budget: 10 requests per hour per IP.
const (
	OTPRequestsPerIdentity = 10
	OTPIdentityWindow      = time.Hour
)

// RecordStore is the persistence contract for verification records. Load
// and save happen inside one transaction per operation so concurrent
// requests for the same user serialize on the row lock.
type RecordStore interface {
	CreateRecord(ctx context.Context, userID int) error
	GetRecord(ctx context.Context, userID int) (verification.Record, error)
	WithRecord(ctx context.Context, userID int, fn func(verification.Record) (verification.Record, error)) (verification.Record, error)
}

// ActivityLogger records account security events. Implementations must
// tolerate being called from short-lived goroutines.
type ActivityLogger interface {
	Create(ctx context.Context, log *models.ActivityLog) error
}

// VerificationService drives the OTP/lockout state machine against the
// store and hands issued codes to the notification channel. The state
// change always commits first; delivery is best-effort afterwards.
type VerificationService struct {
	Store   RecordStore
	Sender  notify.CodeSender
	Limiter *ratelimit.Limiter
	LogRepo ActivityLogger
}

func NewVerificationService(store RecordStore, sender notify.CodeSender, limiter *ratelimit.Limiter) *VerificationService {
	return &VerificationService{
		Store:   store,
		Sender:  sender,
		Limiter: limiter,
	}
}

// SetActivityLogger sets the activity log sink for security events
func (s *VerificationService) SetActivityLogger(repo ActivityLogger) {
	s.LogRepo = repo
}

// RequestOTP issues a fresh code on one channel and queues delivery to the
// user's email address or mobile number. The raw code never leaves the
// backend except through the notification channel.
func (s *VerificationService) RequestOTP(ctx context.Context, user *models.User, ch verification.Channel, clientIP, userAgent string) (verification.IssueResult, error) {
	if s.Limiter != nil {
		allowed, err := s.Limiter.Allow(ctx, clientIP)
		if err != nil {
			log.Printf("[Verification] rate limiter unavailable: %v", err)
		}
		if !allowed {
			return verification.IssueResult{}, ErrTooManyRequests
		}
	}

	var result verification.IssueResult
	_, err := s.Store.WithRecord(ctx, user.ID, func(rec verification.Record) (verification.Record, error) {
		rec, result = verification.IssueOTP(rec, ch, timeutil.Now())
		return rec, nil
	})
	if err != nil {
		return verification.IssueResult{}, fmt.Errorf("failed to issue OTP: %w", err)
	}

	if result.Status != verification.StatusSuccess {
		return result, nil
	}

	metrics.OTPIssuedTotal.WithLabelValues(string(ch)).Inc()
	s.logActivity(user.ID, models.ActionOTPRequested,
		fmt.Sprintf("OTP issued for %s channel", ch), clientIP, userAgent)

	// The state change is committed; delivery must not block or undo it.
	destination := user.Email
	if ch == verification.ChannelMobile {
		destination = user.Mobile
	}
	go func(code string) {
		if err := s.Sender.SendCode(ch, destination, code); err != nil {
			log.Printf("[Verification] failed to deliver OTP to user %d: %v", user.ID, err)
		}
	}(result.Code)

	return result, nil
}

// SubmitOTP checks a submitted code. Every outcome, including a failed
// attempt, is persisted before the result is returned.
func (s *VerificationService) SubmitOTP(ctx context.Context, user *models.User, ch verification.Channel, code, clientIP, userAgent string) (verification.VerifyResult, verification.Record, error) {
	var result verification.VerifyResult
	rec, err := s.Store.WithRecord(ctx, user.ID, func(rec verification.Record) (verification.Record, error) {
		rec, result = verification.VerifyOTP(rec, ch, code, timeutil.Now())
		return rec, nil
	})
	if err != nil {
		return verification.VerifyResult{}, verification.Record{}, fmt.Errorf("failed to verify OTP: %w", err)
	}

	metrics.OTPVerifyTotal.WithLabelValues(string(ch), result.Status.String()).Inc()

	switch result.Status {
	case verification.StatusSuccess:
		s.logActivity(user.ID, models.ActionOTPVerified,
			fmt.Sprintf("%s channel verified", ch), clientIP, userAgent)
	case verification.StatusLocked:
		metrics.AccountLockoutsTotal.WithLabelValues("otp").Inc()
		s.logActivity(user.ID, models.ActionOTPFailed,
			"account locked after repeated wrong codes", clientIP, userAgent)
	default:
		s.logActivity(user.ID, models.ActionOTPFailed,
			fmt.Sprintf("OTP check failed: %s", result.Status), clientIP, userAgent)
	}

	return result, rec, nil
}

// RecordLoginFailure counts a failed password login against the account
func (s *VerificationService) RecordLoginFailure(ctx context.Context, userID int, clientIP, userAgent string) (verification.Record, error) {
	var wasLocked bool
	rec, err := s.Store.WithRecord(ctx, userID, func(rec verification.Record) (verification.Record, error) {
		locked, _ := verification.LockStatus(rec, timeutil.Now())
		wasLocked = locked
		return verification.RecordLoginFailure(rec, timeutil.Now()), nil
	})
	if err != nil {
		return verification.Record{}, fmt.Errorf("failed to record login failure: %w", err)
	}

	if locked, _ := verification.LockStatus(rec, timeutil.Now()); locked && !wasLocked {
		metrics.AccountLockoutsTotal.WithLabelValues("login").Inc()
	}
	s.logActivity(userID, models.ActionLoginFailed, "wrong password", clientIP, userAgent)

	return rec, nil
}

// ResetLoginFailures clears the login counter after a successful login
func (s *VerificationService) ResetLoginFailures(ctx context.Context, userID int) error {
	_, err := s.Store.WithRecord(ctx, userID, func(rec verification.Record) (verification.Record, error) {
		return verification.ResetLoginFailures(rec), nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

// Unlock is the administrative reset: lifts the lockout and zeroes both
// failure counters.
func (s *VerificationService) Unlock(ctx context.Context, userID int, adminIP, userAgent string) (verification.Record, error) {
	rec, err := s.Store.WithRecord(ctx, userID, func(rec verification.Record) (verification.Record, error) {
		return verification.Unlock(rec), nil
	})
	if err != nil {
		return verification.Record{}, fmt.Errorf("failed to unlock account: %w", err)
	}

	s.logActivity(userID, models.ActionUnlocked, "unlocked by admin", adminIP, userAgent)
	return rec, nil
}

// Status returns the current record for display (no lock taken)
func (s *VerificationService) Status(ctx context.Context, userID int) (verification.Record, error) {
	return s.Store.GetRecord(ctx, userID)
}

// IsFullyVerified reports whether both channels are confirmed. Token
// issuance calls this after every successful verify.
func (s *VerificationService) IsFullyVerified(ctx context.Context, userID int) (bool, error) {
	rec, err := s.Store.GetRecord(ctx, userID)
	if err != nil {
		return false, err
	}
	return verification.FullyVerified(rec), nil
}

// logActivity writes a security event without blocking the request
func (s *VerificationService) logActivity(userID int, action, details, ipAddress, userAgent string) {
	if s.LogRepo == nil {
		return
	}

	entry := &models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.LogRepo.Create(ctx, entry); err != nil {
			log.Printf("[Verification] failed to log activity: %v", err)
		}
	}()
}
