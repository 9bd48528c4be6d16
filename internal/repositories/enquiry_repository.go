package repositories

import (
	"context"
	"fmt"

	"estate-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EnquiryRepository struct {
	DB *pgxpool.Pool
}

func NewEnquiryRepository(db *pgxpool.Pool) *EnquiryRepository {
	return &EnquiryRepository{DB: db}
}

// Create inserts a new enquiry or open requirement
func (r *EnquiryRepository) Create(ctx context.Context, e *models.Enquiry) error {
	query := `
		INSERT INTO enquiries(property_id, buyer_id, message, budget, city, status)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		e.PropertyID, e.BuyerID, e.Message, e.Budget, e.City, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create enquiry: %w", err)
	}
	return nil
}

// Get retrieves a single enquiry
func (r *EnquiryRepository) Get(ctx context.Context, id int) (*models.Enquiry, error) {
	query := `
		SELECT e.id, e.property_id, e.buyer_id, COALESCE(u.name, ''), e.message,
		       e.budget, e.city, e.status, e.created_at, e.updated_at
		FROM enquiries e
		LEFT JOIN users u ON e.buyer_id = u.id
		WHERE e.id = $1
	`
	var e models.Enquiry
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.PropertyID, &e.BuyerID, &e.BuyerName, &e.Message,
		&e.Budget, &e.City, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListForOwner returns enquiries against any of the owner's listings
func (r *EnquiryRepository) ListForOwner(ctx context.Context, ownerID int) ([]*models.Enquiry, error) {
	query := `
		SELECT e.id, e.property_id, e.buyer_id, COALESCE(u.name, ''), e.message,
		       e.budget, e.city, e.status, e.created_at, e.updated_at
		FROM enquiries e
		JOIN properties p ON e.property_id = p.id
		LEFT JOIN users u ON e.buyer_id = u.id
		WHERE p.owner_id = $1
		ORDER BY e.created_at DESC
	`
	return r.queryEnquiries(ctx, query, ownerID)
}

// ListByBuyer returns the buyer's own enquiries and requirements
func (r *EnquiryRepository) ListByBuyer(ctx context.Context, buyerID int) ([]*models.Enquiry, error) {
	query := `
		SELECT e.id, e.property_id, e.buyer_id, COALESCE(u.name, ''), e.message,
		       e.budget, e.city, e.status, e.created_at, e.updated_at
		FROM enquiries e
		LEFT JOIN users u ON e.buyer_id = u.id
		WHERE e.buyer_id = $1
		ORDER BY e.created_at DESC
	`
	return r.queryEnquiries(ctx, query, buyerID)
}

func (r *EnquiryRepository) queryEnquiries(ctx context.Context, query string, arg any) ([]*models.Enquiry, error) {
	rows, err := r.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	defer rows.Close()

	var list []*models.Enquiry
	for rows.Next() {
		var e models.Enquiry
		if err := rows.Scan(
			&e.ID, &e.PropertyID, &e.BuyerID, &e.BuyerName, &e.Message,
			&e.Budget, &e.City, &e.Status, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// UpdateStatus moves an enquiry between open/replied/closed
func (r *EnquiryRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE enquiries SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, status)
	return err
}

// CountByStatus counts enquiries in the given status
func (r *EnquiryRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM enquiries WHERE status = $1`, status).Scan(&count)
	return count, err
}
