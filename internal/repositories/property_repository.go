package repositories

import (
	"context"
	"fmt"
	"time"

	"estate-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepository struct {
	DB *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

const propertyColumns = `
	id, owner_id, title, description, property_type, price, city, locality,
	bedrooms, bathrooms, area_sqft, status, featured, featured_until,
	photo_keys, created_at, updated_at`

func (r *PropertyRepository) scanProperty(row interface{ Scan(...any) error }) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.PropertyType,
		&p.Price,
		&p.City,
		&p.Locality,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.AreaSqft,
		&p.Status,
		&p.Featured,
		&p.FeaturedUntil,
		&p.PhotoKeys,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new listing
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties(owner_id, title, description, property_type, price,
			city, locality, bedrooms, bathrooms, area_sqft, status, photo_keys)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.OwnerID, p.Title, p.Description, p.PropertyType, p.Price,
		p.City, p.Locality, p.Bedrooms, p.Bathrooms, p.AreaSqft,
		p.Status, p.PhotoKeys,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// Get retrieves a single listing
func (r *PropertyRepository) Get(ctx context.Context, id int) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return r.scanProperty(r.DB.QueryRow(ctx, query, id))
}

// Update rewrites the editable listing fields
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, property_type = $4, price = $5,
		    city = $6, locality = $7, bedrooms = $8, bathrooms = $9,
		    area_sqft = $10, status = $11, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.PropertyType, p.Price,
		p.City, p.Locality, p.Bedrooms, p.Bathrooms, p.AreaSqft, p.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

// Delete removes a listing
func (r *PropertyRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}

// AddPhotoKey appends an uploaded photo's object key to the listing
func (r *PropertyRepository) AddPhotoKey(ctx context.Context, id int, key string) error {
	query := `UPDATE properties SET photo_keys = array_append(photo_keys, $2), updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, key)
	return err
}

// SetFeatured marks a listing as featured until the given time
func (r *PropertyRepository) SetFeatured(ctx context.Context, id int, until time.Time) error {
	query := `UPDATE properties SET featured = TRUE, featured_until = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, until)
	return err
}

// List returns listings matching the filter, featured first
func (r *PropertyRepository) List(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE status = 'active'
		  AND ($1 = '' OR city = $1)
		  AND ($2 = '' OR locality = $2)
		  AND ($3 = '' OR property_type = $3)
		  AND ($4 = 0 OR price >= $4)
		  AND ($5 = 0 OR price <= $5)
		  AND ($6 = 0 OR bedrooms >= $6)
		  AND (NOT $7 OR (featured AND featured_until > NOW()))
		ORDER BY featured DESC, created_at DESC
		LIMIT $8 OFFSET $9
	`
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.DB.Query(ctx, query,
		f.City, f.Locality, f.PropertyType,
		f.MinPrice, f.MaxPrice, f.Bedrooms,
		f.FeaturedOnly, limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var props []*models.Property
	for rows.Next() {
		p, err := r.scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// ListByOwner returns all listings for one owner, any status
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID int) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner properties: %w", err)
	}
	defer rows.Close()

	var props []*models.Property
	for rows.Next() {
		p, err := r.scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// CountByStatus counts listings with the given status
func (r *PropertyRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE status = $1`, status).Scan(&count)
	return count, err
}

// CountFeatured counts listings with an active featured window
func (r *PropertyRepository) CountFeatured(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE featured AND featured_until > NOW()`).Scan(&count)
	return count, err
}
