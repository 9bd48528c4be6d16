package repositories

import (
	"context"
	"fmt"

	"estate-backend/internal/verification"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VerificationRepository persists one verification record per user. All
// state transitions go through WithRecord so concurrent requests for the
// same user serialize on the row lock; the state machine itself holds no
// locks.
type VerificationRepository struct {
	DB *pgxpool.Pool
}

func NewVerificationRepository(db *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{DB: db}
}

const verificationColumns = `
	user_id, email_code, email_code_issued_at, email_verified,
	mobile_code, mobile_code_issued_at, mobile_verified,
	failed_login_attempts, failed_otp_attempts,
	locked, locked_until, last_login_attempt, last_otp_attempt`

func scanRecord(row interface{ Scan(...any) error }) (verification.Record, error) {
	var rec verification.Record
	err := row.Scan(
		&rec.UserID,
		&rec.EmailCode,
		&rec.EmailCodeIssuedAt,
		&rec.EmailVerified,
		&rec.MobileCode,
		&rec.MobileCodeIssuedAt,
		&rec.MobileVerified,
		&rec.FailedLoginAttempts,
		&rec.FailedOTPAttempts,
		&rec.Locked,
		&rec.LockedUntil,
		&rec.LastLoginAttempt,
		&rec.LastOTPAttempt,
	)
	return rec, err
}

// CreateRecord inserts the empty record at user registration
func (r *VerificationRepository) CreateRecord(ctx context.Context, userID int) error {
	query := `INSERT INTO verification_records(user_id) VALUES($1)`
	_, err := r.DB.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to create verification record: %w", err)
	}
	return nil
}

// GetRecord reads the record without locking it (status displays, the
// full-verification gate on login).
func (r *VerificationRepository) GetRecord(ctx context.Context, userID int) (verification.Record, error) {
	query := `SELECT ` + verificationColumns + ` FROM verification_records WHERE user_id = $1`
	rec, err := scanRecord(r.DB.QueryRow(ctx, query, userID))
	if err != nil {
		return verification.Record{}, fmt.Errorf("failed to load verification record: %w", err)
	}
	return rec, nil
}

// WithRecord runs fn inside a transaction holding the row lock for the
// user's record and writes back whatever fn returns. If fn returns an
// error the transaction rolls back and nothing is persisted.
func (r *VerificationRepository) WithRecord(ctx context.Context, userID int, fn func(verification.Record) (verification.Record, error)) (verification.Record, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return verification.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + verificationColumns + ` FROM verification_records WHERE user_id = $1 FOR UPDATE`
	rec, err := scanRecord(tx.QueryRow(ctx, query, userID))
	if err != nil {
		return verification.Record{}, fmt.Errorf("failed to load verification record: %w", err)
	}

	updated, err := fn(rec)
	if err != nil {
		return verification.Record{}, err
	}

	update := `
		UPDATE verification_records SET
			email_code = $2, email_code_issued_at = $3, email_verified = $4,
			mobile_code = $5, mobile_code_issued_at = $6, mobile_verified = $7,
			failed_login_attempts = $8, failed_otp_attempts = $9,
			locked = $10, locked_until = $11,
			last_login_attempt = $12, last_otp_attempt = $13
		WHERE user_id = $1
	`
	_, err = tx.Exec(ctx, update,
		userID,
		updated.EmailCode,
		updated.EmailCodeIssuedAt,
		updated.EmailVerified,
		updated.MobileCode,
		updated.MobileCodeIssuedAt,
		updated.MobileVerified,
		updated.FailedLoginAttempts,
		updated.FailedOTPAttempts,
		updated.Locked,
		updated.LockedUntil,
		updated.LastLoginAttempt,
		updated.LastOTPAttempt,
	)
	if err != nil {
		return verification.Record{}, fmt.Errorf("failed to save verification record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return verification.Record{}, fmt.Errorf("failed to commit verification record: %w", err)
	}

	return updated, nil
}

// CountFullyVerified counts users with both channels confirmed
func (r *VerificationRepository) CountFullyVerified(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM verification_records WHERE email_verified AND mobile_verified`
	var count int
	err := r.DB.QueryRow(ctx, query).Scan(&count)
	return count, err
}

// CountLocked counts records still inside an active lockout window
func (r *VerificationRepository) CountLocked(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM verification_records WHERE locked AND locked_until > NOW()`
	var count int
	err := r.DB.QueryRow(ctx, query).Scan(&count)
	return count, err
}
