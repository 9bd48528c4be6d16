package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"estate-backend/internal/auth"
	"estate-backend/internal/models"
	"estate-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "EstateBackend"

var (
	ErrTOTPNotEnrolled = errors.New("authenticator not set up for this account")
	ErrTOTPInvalidCode = errors.New("invalid authenticator code")
	ErrTOTPAgentsOnly  = errors.New("authenticator 2FA is available for agent accounts only")
)

// TOTPService enrolls agent accounts in authenticator-app 2FA and checks
// codes during the second login step. This is separate from the OTP
// channel verification: TOTP is a per-login factor, channel OTPs prove
// contact-point ownership once.
type TOTPService struct {
	UserRepo   *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewTOTPService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *TOTPService {
	return &TOTPService{UserRepo: userRepo, JWTManager: jwtManager}
}

// Setup generates a TOTP secret for an agent and returns the provisioning
// QR code. The secret activates only after Enable confirms a valid code.
func (s *TOTPService) Setup(ctx context.Context, userID int) (*models.TOTPSetupResponse, error) {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.Role != models.RoleAgent {
		return nil, ErrTOTPAgentsOnly
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.UserRepo.SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return nil, fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// Enable confirms the first code from the authenticator app and turns
// TOTP on for the account.
func (s *TOTPService) Enable(ctx context.Context, userID int, code string) error {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.TOTPSecret == "" {
		return ErrTOTPNotEnrolled
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrTOTPInvalidCode
	}
	return s.UserRepo.EnableTOTP(ctx, userID, true)
}

// CompleteLogin exchanges a valid temp token plus authenticator code for
// the full session token.
func (s *TOTPService) CompleteLogin(ctx context.Context, tempToken, code string) (string, *models.User, error) {
	claims, err := s.JWTManager.ValidateTempToken(tempToken)
	if err != nil {
		return "", nil, fmt.Errorf("invalid or expired temp token: %w", err)
	}

	user, err := s.UserRepo.Get(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}
	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return "", nil, ErrTOTPNotEnrolled
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return "", nil, ErrTOTPInvalidCode
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}
