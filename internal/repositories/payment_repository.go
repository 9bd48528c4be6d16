package repositories

import (
	"context"
	"fmt"

	"estate-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Create inserts a featured-listing payment in "created" state
func (r *PaymentRepository) Create(ctx context.Context, p *models.FeaturedPayment) error {
	query := `
		INSERT INTO featured_payments(property_id, user_id, razorpay_order_id,
			amount_paise, duration_days, status)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.PropertyID, p.UserID, p.RazorpayOrderID,
		p.AmountPaise, p.DurationDays, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByOrderID looks a payment up by its razorpay order id
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.FeaturedPayment, error) {
	query := `
		SELECT id, property_id, user_id, razorpay_order_id, amount_paise,
		       duration_days, status, created_at, updated_at
		FROM featured_payments
		WHERE razorpay_order_id = $1
	`
	var p models.FeaturedPayment
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&p.ID, &p.PropertyID, &p.UserID, &p.RazorpayOrderID, &p.AmountPaise,
		&p.DurationDays, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus records the payment outcome
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE featured_payments SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, status)
	return err
}
