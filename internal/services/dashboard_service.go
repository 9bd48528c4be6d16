package services

import (
	"context"
	"encoding/json"
	"log"

	"estate-backend/internal/cache"
	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
	"estate-backend/internal/timeutil"
)

// DashboardService aggregates marketplace counts for the admin dashboard.
// Results are cached in redis for 5 minutes; with redis down every call
// hits the database, which is acceptable for an admin page.
type DashboardService struct {
	UserRepo         *repositories.UserRepository
	VerificationRepo *repositories.VerificationRepository
	PropertyRepo     *repositories.PropertyRepository
	EnquiryRepo      *repositories.EnquiryRepository
	ReviewRepo       *repositories.ReviewRepository
}

func NewDashboardService(
	userRepo *repositories.UserRepository,
	verificationRepo *repositories.VerificationRepository,
	propertyRepo *repositories.PropertyRepository,
	enquiryRepo *repositories.EnquiryRepository,
	reviewRepo *repositories.ReviewRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:         userRepo,
		VerificationRepo: verificationRepo,
		PropertyRepo:     propertyRepo,
		EnquiryRepo:      enquiryRepo,
		ReviewRepo:       reviewRepo,
	}
}

// Stats returns the dashboard aggregates, from cache when fresh
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if data, ok := cache.GetCachedDashboardStats(ctx); ok {
		var stats models.DashboardStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
		// Corrupt cache entry, fall through to recompute
		cache.InvalidateDashboardStats(ctx)
	}

	stats := &models.DashboardStats{
		GeneratedAt: timeutil.FormatIST(timeutil.Now(), timeutil.DateTimeLayout),
	}

	var err error
	if stats.TotalUsers, err = s.UserRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.FullyVerifiedUsers, err = s.VerificationRepo.CountFullyVerified(ctx); err != nil {
		return nil, err
	}
	if stats.LockedAccounts, err = s.VerificationRepo.CountLocked(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveListings, err = s.PropertyRepo.CountByStatus(ctx, models.ListingStatusActive); err != nil {
		return nil, err
	}
	if stats.FeaturedListings, err = s.PropertyRepo.CountFeatured(ctx); err != nil {
		return nil, err
	}
	if stats.OpenEnquiries, err = s.EnquiryRepo.CountByStatus(ctx, models.EnquiryStatusOpen); err != nil {
		return nil, err
	}
	if stats.TotalReviews, stats.AverageRating, err = s.ReviewRepo.Stats(ctx); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.CacheDashboardStats(ctx, data)
	} else {
		log.Printf("[Dashboard] failed to marshal stats for cache: %v", err)
	}

	return stats, nil
}
