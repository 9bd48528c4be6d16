package repositories

import (
	"context"
	"fmt"

	"estate-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users(name, email, mobile, password_hash, role, city, is_active)
		VALUES($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		u.Name,
		u.Email,
		u.Mobile,
		u.PasswordHash,
		u.Role,
		u.City,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.IsActive = true
	return nil
}

// Get retrieves a user by id
func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, name, email, mobile, password_hash, role, city, is_active,
		       totp_enabled, COALESCE(totp_secret, ''), created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, mobile, password_hash, role, city, is_active,
		       totp_enabled, COALESCE(totp_secret, ''), created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.DB.QueryRow(ctx, query, email))
}

// GetByMobile retrieves a user by mobile number
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	query := `
		SELECT id, name, email, mobile, password_hash, role, city, is_active,
		       totp_enabled, COALESCE(totp_secret, ''), created_at, updated_at
		FROM users
		WHERE mobile = $1
	`
	return r.scanUser(r.DB.QueryRow(ctx, query, mobile))
}

func (r *UserRepository) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Mobile,
		&u.PasswordHash,
		&u.Role,
		&u.City,
		&u.IsActive,
		&u.TOTPEnabled,
		&u.TOTPSecret,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update updates profile fields
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET name = $2, city = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(ctx, query, u.ID, u.Name, u.City, u.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// SetTOTPSecret stores a pending TOTP secret (not yet enabled)
func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	query := `UPDATE users SET totp_secret = $2 WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, userID, secret)
	return err
}

// EnableTOTP flips TOTP on once the first code has been confirmed
func (r *UserRepository) EnableTOTP(ctx context.Context, userID int, enabled bool) error {
	query := `UPDATE users SET totp_enabled = $2 WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, userID, enabled)
	return err
}

// Count returns the total number of users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
