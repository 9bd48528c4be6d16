package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
)

type ReviewService struct {
	Repo          *repositories.ReviewRepository
	PropertyRepo  *repositories.PropertyRepository
	Notifications *NotificationService
}

func NewReviewService(repo *repositories.ReviewRepository, propertyRepo *repositories.PropertyRepository, notifications *NotificationService) *ReviewService {
	return &ReviewService{Repo: repo, PropertyRepo: propertyRepo, Notifications: notifications}
}

// Create posts a review on a listing. A second review by the same user
// replaces the first. Owners cannot review their own listings.
func (s *ReviewService) Create(ctx context.Context, propertyID, reviewerID int, req *models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	p, err := s.PropertyRepo.Get(ctx, propertyID)
	if err != nil {
		return nil, ErrPropertyNotFound
	}
	if p.OwnerID == reviewerID {
		return nil, errors.New("you cannot review your own listing")
	}

	rev := &models.Review{
		PropertyID: propertyID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.Repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	if s.Notifications != nil {
		if err := s.Notifications.Notify(ctx, p.OwnerID, models.NotificationReview,
			"New review on your listing",
			fmt.Sprintf("Listing #%d received a %d-star review", propertyID, req.Rating)); err != nil {
			log.Printf("[Review] failed to notify owner %d: %v", p.OwnerID, err)
		}
	}
	return rev, nil
}

// ListByProperty returns a listing's reviews with its average rating
func (s *ReviewService) ListByProperty(ctx context.Context, propertyID int) ([]*models.Review, float64, error) {
	reviews, err := s.Repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, 0, err
	}
	avg, err := s.Repo.AverageRating(ctx, propertyID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, avg, nil
}
