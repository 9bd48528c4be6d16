package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"estate-backend/internal/auth"
	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
	"estate-backend/internal/timeutil"
	"estate-backend/internal/verification"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMobileTaken        = errors.New("mobile number already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// ErrAccountLocked carries the remaining lockout so handlers can tell the
// client when to retry.
type ErrAccountLocked struct {
	Remaining time.Duration
}

func (e *ErrAccountLocked) Error() string {
	return fmt.Sprintf("account locked, try again in %s", e.Remaining.Round(time.Second))
}

// LoginOutcome distinguishes the three ways a correct password can end:
// a full session token, a pending-2FA temp token for agents, or no token
// because the account is not yet fully verified.
type LoginOutcome struct {
	User          *models.User
	Token         string
	TempToken     string
	NeedsTOTP     bool
	FullyVerified bool
}

type UserService struct {
	UserRepo         *repositories.UserRepository
	VerificationRepo *repositories.VerificationRepository
	Verification     *VerificationService
	JWTManager       *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, verificationRepo *repositories.VerificationRepository, verificationSvc *VerificationService, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		UserRepo:         userRepo,
		VerificationRepo: verificationRepo,
		Verification:     verificationSvc,
		JWTManager:       jwtManager,
	}
}

// Signup registers a new account and creates its empty verification
// record. The account starts unverified on both channels; no token is
// issued here.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Mobile = strings.TrimSpace(req.Mobile)

	if req.Name == "" || req.Email == "" || req.Mobile == "" {
		return nil, errors.New("name, email and mobile are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	switch req.Role {
	case models.RoleBuyer, models.RoleOwner, models.RoleAgent:
	case "":
		req.Role = models.RoleBuyer
	default:
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	if _, err := s.UserRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}
	if _, err := s.UserRepo.GetByMobile(ctx, req.Mobile); err == nil {
		return nil, ErrMobileTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: hash,
		Role:         req.Role,
		City:         req.City,
		IsActive:     true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.VerificationRepo.CreateRecord(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to create verification record: %w", err)
	}

	log.Printf("[User] registered %s (id=%d, role=%s)", user.Email, user.ID, user.Role)
	return user, nil
}

// Login checks credentials against the lockout state machine. A wrong
// password counts toward the login lockout; a correct one resets the
// counter. The session token is withheld until both channels are
// verified, and agents with TOTP enabled get a short-lived temp token
// for the second factor instead.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, clientIP, userAgent string) (*LoginOutcome, error) {
	user, err := s.UserRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, errors.New("account suspended, please contact support")
	}

	rec, err := s.VerificationRepo.GetRecord(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification record: %w", err)
	}
	if locked, remaining := verification.LockStatus(rec, timeutil.Now()); locked {
		return nil, &ErrAccountLocked{Remaining: remaining}
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		rec, err := s.Verification.RecordLoginFailure(ctx, user.ID, clientIP, userAgent)
		if err != nil {
			log.Printf("[User] failed to record login failure for user %d: %v", user.ID, err)
		} else if locked, remaining := verification.LockStatus(rec, timeutil.Now()); locked {
			return nil, &ErrAccountLocked{Remaining: remaining}
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.Verification.ResetLoginFailures(ctx, user.ID); err != nil {
		log.Printf("[User] failed to reset login counter for user %d: %v", user.ID, err)
	}
	s.Verification.logActivity(user.ID, models.ActionLogin, "password accepted", clientIP, userAgent)

	outcome := &LoginOutcome{User: user, FullyVerified: verification.FullyVerified(rec)}
	if !outcome.FullyVerified {
		// Verified channels still gate the session: the client must
		// finish OTP verification before a token is issued.
		return outcome, nil
	}

	if user.Role == models.RoleAgent && user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, fmt.Errorf("failed to generate temp token: %w", err)
		}
		outcome.TempToken = tempToken
		outcome.NeedsTOTP = true
		return outcome, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	outcome.Token = token
	return outcome, nil
}

// IssueTokenIfVerified returns a session token once both channels are
// confirmed. Callers use it right after a successful OTP verify so the
// user does not have to log in again.
func (s *UserService) IssueTokenIfVerified(user *models.User, rec verification.Record) (string, bool, error) {
	if !verification.FullyVerified(rec) {
		return "", false, nil
	}
	if user.Role == models.RoleAgent && user.TOTPEnabled {
		// Second factor still pending; the client goes through the
		// TOTP step instead.
		return "", true, nil
	}
	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return "", true, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, true, nil
}

// Get fetches a user by ID
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes the mutable profile fields (name, city)
func (s *UserService) UpdateProfile(ctx context.Context, id int, name, city string) (*models.User, error) {
	user, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if name != "" {
		user.Name = name
	}
	if city != "" {
		user.City = city
	}
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
