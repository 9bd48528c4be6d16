package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
)

var ErrEnquiryNotFound = errors.New("enquiry not found")

type EnquiryService struct {
	Repo          *repositories.EnquiryRepository
	PropertyRepo  *repositories.PropertyRepository
	Notifications *NotificationService
}

func NewEnquiryService(repo *repositories.EnquiryRepository, propertyRepo *repositories.PropertyRepository, notifications *NotificationService) *EnquiryService {
	return &EnquiryService{Repo: repo, PropertyRepo: propertyRepo, Notifications: notifications}
}

// Create posts an enquiry against a listing, or an open requirement when
// no listing is named. The listing owner gets a notification.
func (s *EnquiryService) Create(ctx context.Context, buyerID int, req *models.CreateEnquiryRequest) (*models.Enquiry, error) {
	if req.Message == "" {
		return nil, errors.New("message is required")
	}
	if req.PropertyID == nil && req.City == "" {
		return nil, errors.New("open requirements need a city")
	}

	e := &models.Enquiry{
		PropertyID: req.PropertyID,
		BuyerID:    buyerID,
		Message:    req.Message,
		Budget:     req.Budget,
		City:       req.City,
		Status:     models.EnquiryStatusOpen,
	}

	var ownerID int
	if req.PropertyID != nil {
		p, err := s.PropertyRepo.Get(ctx, *req.PropertyID)
		if err != nil {
			return nil, ErrPropertyNotFound
		}
		ownerID = p.OwnerID
		if e.City == "" {
			e.City = p.City
		}
	}

	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}

	if ownerID != 0 && s.Notifications != nil {
		if err := s.Notifications.Notify(ctx, ownerID, models.NotificationEnquiry,
			"New enquiry on your listing",
			fmt.Sprintf("A buyer is interested in listing #%d", *req.PropertyID)); err != nil {
			log.Printf("[Enquiry] failed to notify owner %d: %v", ownerID, err)
		}
	}

	return e, nil
}

// ListForOwner returns enquiries against the owner's listings
func (s *EnquiryService) ListForOwner(ctx context.Context, ownerID int) ([]*models.Enquiry, error) {
	return s.Repo.ListForOwner(ctx, ownerID)
}

// ListByBuyer returns the buyer's own enquiries and requirements
func (s *EnquiryService) ListByBuyer(ctx context.Context, buyerID int) ([]*models.Enquiry, error) {
	return s.Repo.ListByBuyer(ctx, buyerID)
}

// UpdateStatus moves an enquiry to replied or closed. Only the owner of
// the enquired listing may do this.
func (s *EnquiryService) UpdateStatus(ctx context.Context, id, userID int, role, status string) error {
	switch status {
	case models.EnquiryStatusReplied, models.EnquiryStatusClosed:
	default:
		return fmt.Errorf("invalid enquiry status: %s", status)
	}

	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return ErrEnquiryNotFound
	}

	if role != models.RoleAdmin {
		if e.PropertyID == nil {
			// Open requirements are closed by their buyer
			if e.BuyerID != userID {
				return errors.New("not your enquiry")
			}
		} else {
			p, err := s.PropertyRepo.Get(ctx, *e.PropertyID)
			if err != nil {
				return ErrPropertyNotFound
			}
			if p.OwnerID != userID {
				return errors.New("not your listing")
			}
		}
	}

	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update enquiry: %w", err)
	}

	if status == models.EnquiryStatusReplied && s.Notifications != nil {
		if err := s.Notifications.Notify(ctx, e.BuyerID, models.NotificationEnquiry,
			"The owner replied to your enquiry",
			fmt.Sprintf("Enquiry #%d has a response", e.ID)); err != nil {
			log.Printf("[Enquiry] failed to notify buyer %d: %v", e.BuyerID, err)
		}
	}
	return nil
}
