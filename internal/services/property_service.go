package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"estate-backend/internal/cache"
	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotListingOwner  = errors.New("you do not own this listing")
)

type PropertyService struct {
	Repo          *repositories.PropertyRepository
	Notifications *NotificationService
}

func NewPropertyService(repo *repositories.PropertyRepository, notifications *NotificationService) *PropertyService {
	return &PropertyService{Repo: repo, Notifications: notifications}
}

// Create posts a new listing for the owner
func (s *PropertyService) Create(ctx context.Context, ownerID int, req *models.CreatePropertyRequest) (*models.Property, error) {
	if req.Title == "" || req.City == "" {
		return nil, errors.New("title and city are required")
	}
	if req.Price <= 0 {
		return nil, errors.New("price must be positive")
	}
	switch req.PropertyType {
	case models.PropertyTypeApartment, models.PropertyTypeHouse,
		models.PropertyTypePlot, models.PropertyTypeCommercial:
	default:
		return nil, fmt.Errorf("invalid property type: %s", req.PropertyType)
	}

	p := &models.Property{
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Price:        req.Price,
		City:         req.City,
		Locality:     req.Locality,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		AreaSqft:     req.AreaSqft,
		Status:       models.ListingStatusActive,
		PhotoKeys:    []string{},
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	cache.InvalidateDashboardStats(ctx)
	log.Printf("[Property] listing %d created by user %d in %s", p.ID, ownerID, p.City)
	return p, nil
}

// Get retrieves one listing
func (s *PropertyService) Get(ctx context.Context, id int) (*models.Property, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

// Update edits a listing; only the owner (or an admin) may do this
func (s *PropertyService) Update(ctx context.Context, id, userID int, role string, req *models.UpdatePropertyRequest) (*models.Property, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, ErrPropertyNotFound
	}
	if p.OwnerID != userID && role != models.RoleAdmin {
		return nil, ErrNotListingOwner
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.PropertyType != "" {
		p.PropertyType = req.PropertyType
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.City != "" {
		p.City = req.City
	}
	if req.Locality != "" {
		p.Locality = req.Locality
	}
	if req.Bedrooms > 0 {
		p.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms > 0 {
		p.Bathrooms = req.Bathrooms
	}
	if req.AreaSqft > 0 {
		p.AreaSqft = req.AreaSqft
	}
	if req.Status != "" {
		switch req.Status {
		case models.ListingStatusActive, models.ListingStatusSold, models.ListingStatusInactive:
			p.Status = req.Status
		default:
			return nil, fmt.Errorf("invalid status: %s", req.Status)
		}
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}

	cache.InvalidateDashboardStats(ctx)
	return p, nil
}

// Delete removes a listing; only the owner (or an admin) may do this
func (s *PropertyService) Delete(ctx context.Context, id, userID int, role string) error {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return ErrPropertyNotFound
	}
	if p.OwnerID != userID && role != models.RoleAdmin {
		return ErrNotListingOwner
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	cache.InvalidateDashboardStats(ctx)
	return nil
}

// Search returns active listings matching the filter, featured first
func (s *PropertyService) Search(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error) {
	return s.Repo.List(ctx, f)
}

// ListByOwner returns every listing for one owner, any status
func (s *PropertyService) ListByOwner(ctx context.Context, ownerID int) ([]*models.Property, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// AttachPhoto records an uploaded photo's object key against the listing
func (s *PropertyService) AttachPhoto(ctx context.Context, id, userID int, key string) error {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return ErrPropertyNotFound
	}
	if p.OwnerID != userID {
		return ErrNotListingOwner
	}
	return s.Repo.AddPhotoKey(ctx, id, key)
}
