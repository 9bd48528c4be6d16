package repositories

import (
	"context"
	"fmt"

	"estate-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	DB *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// Create inserts a review; one per reviewer per listing
func (r *ReviewRepository) Create(ctx context.Context, rev *models.Review) error {
	query := `
		INSERT INTO reviews(property_id, reviewer_id, rating, comment)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (property_id, reviewer_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query,
		rev.PropertyID, rev.ReviewerID, rev.Rating, rev.Comment,
	).Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByProperty returns all reviews for one listing, newest first
func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID int) ([]*models.Review, error) {
	query := `
		SELECT rv.id, rv.property_id, rv.reviewer_id, COALESCE(u.name, ''),
		       rv.rating, rv.comment, rv.created_at
		FROM reviews rv
		LEFT JOIN users u ON rv.reviewer_id = u.id
		WHERE rv.property_id = $1
		ORDER BY rv.created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var list []*models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(
			&rev.ID, &rev.PropertyID, &rev.ReviewerID, &rev.ReviewerName,
			&rev.Rating, &rev.Comment, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &rev)
	}
	return list, rows.Err()
}

// AverageRating returns the mean rating for one listing (0 when unreviewed)
func (r *ReviewRepository) AverageRating(ctx context.Context, propertyID int) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE property_id = $1`
	err := r.DB.QueryRow(ctx, query, propertyID).Scan(&avg)
	return avg, err
}

// Stats returns the overall review count and mean rating
func (r *ReviewRepository) Stats(ctx context.Context) (int, float64, error) {
	var count int
	var avg float64
	query := `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews`
	err := r.DB.QueryRow(ctx, query).Scan(&count, &avg)
	return count, avg, err
}
