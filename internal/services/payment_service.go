package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"estate-backend/internal/cache"
	"estate-backend/internal/config"
	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
	"estate-backend/internal/timeutil"

	razorpay "github.com/razorpay/razorpay-go"
)

// Featured-listing pricing: flat rate per day, charged in paise.
const FeaturedRatePaisePerDay int64 = 9900 // Rs 99/day

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrAlreadyProcessed   = errors.New("payment already processed")
	ErrInvalidDuration    = errors.New("featured duration must be 7, 15 or 30 days")
	ErrPaymentUnavailable = errors.New("payment gateway not configured")
)

// PaymentService sells featured-listing slots through razorpay. The order
// is created server-side, the client completes checkout, and the callback
// signature is verified before the listing is promoted.
type PaymentService struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string

	Repo          *repositories.PaymentRepository
	PropertyRepo  *repositories.PropertyRepository
	Notifications *NotificationService
}

func NewPaymentService(cfg *config.Config, repo *repositories.PaymentRepository, propertyRepo *repositories.PropertyRepository, notifications *NotificationService) *PaymentService {
	s := &PaymentService{
		keySecret:     cfg.Razorpay.KeySecret,
		webhookSecret: cfg.Razorpay.WebhookSecret,
		Repo:          repo,
		PropertyRepo:  propertyRepo,
		Notifications: notifications,
	}
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		s.client = razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		log.Printf("[Payment] razorpay credentials missing, featured payments disabled")
	}
	return s
}

// CreateFeaturedOrder creates a razorpay order to promote one listing.
// Only the listing owner can buy a featured slot for it.
func (s *PaymentService) CreateFeaturedOrder(ctx context.Context, userID int, req *models.CreateFeaturedOrderRequest) (*models.FeaturedPayment, error) {
	if s.client == nil {
		return nil, ErrPaymentUnavailable
	}
	switch req.DurationDays {
	case 7, 15, 30:
	default:
		return nil, ErrInvalidDuration
	}

	p, err := s.PropertyRepo.Get(ctx, req.PropertyID)
	if err != nil {
		return nil, ErrPropertyNotFound
	}
	if p.OwnerID != userID {
		return nil, ErrNotListingOwner
	}

	amountPaise := FeaturedRatePaisePerDay * int64(req.DurationDays)

	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("featured_%d_%d", req.PropertyID, timeutil.Now().Unix()),
		"notes": map[string]interface{}{
			"property_id":   fmt.Sprintf("%d", req.PropertyID),
			"user_id":       fmt.Sprintf("%d", userID),
			"duration_days": fmt.Sprintf("%d", req.DurationDays),
		},
	}
	order, err := s.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return nil, errors.New("razorpay order response missing id")
	}

	payment := &models.FeaturedPayment{
		PropertyID:      req.PropertyID,
		UserID:          userID,
		RazorpayOrderID: orderID,
		AmountPaise:     amountPaise,
		DurationDays:    req.DurationDays,
		Status:          models.PaymentStatusCreated,
	}
	if err := s.Repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("[Payment] order %s created for listing %d (%d days)", orderID, req.PropertyID, req.DurationDays)
	return payment, nil
}

// VerifyPayment checks the checkout callback signature and, when valid,
// marks the payment paid and promotes the listing for the purchased
// window.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID int, req *models.VerifyPaymentRequest) (*models.FeaturedPayment, error) {
	payment, err := s.Repo.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	if payment.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != models.PaymentStatusCreated {
		return nil, ErrAlreadyProcessed
	}

	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.Repo.UpdateStatus(ctx, payment.ID, models.PaymentStatusFailed); err != nil {
			log.Printf("[Payment] failed to mark payment %d failed: %v", payment.ID, err)
		}
		return nil, ErrInvalidSignature
	}

	if err := s.Repo.UpdateStatus(ctx, payment.ID, models.PaymentStatusPaid); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	payment.Status = models.PaymentStatusPaid

	until := timeutil.Now().AddDate(0, 0, payment.DurationDays)
	if err := s.PropertyRepo.SetFeatured(ctx, payment.PropertyID, until); err != nil {
		// The money is taken; log loudly and leave the payment row as
		// the reconciliation trail.
		log.Printf("[Payment] PAID but failed to feature listing %d: %v", payment.PropertyID, err)
		return payment, fmt.Errorf("payment recorded but listing promotion failed: %w", err)
	}

	cache.InvalidateDashboardStats(ctx)

	if s.Notifications != nil {
		if err := s.Notifications.Notify(ctx, userID, models.NotificationListing,
			"Your listing is now featured",
			fmt.Sprintf("Listing #%d is featured until %s", payment.PropertyID,
				timeutil.FormatIST(until, timeutil.DateLayout))); err != nil {
			log.Printf("[Payment] failed to notify user %d: %v", userID, err)
		}
	}

	log.Printf("[Payment] order %s paid, listing %d featured for %d days",
		payment.RazorpayOrderID, payment.PropertyID, payment.DurationDays)
	return payment, nil
}

// verifySignature checks the checkout signature: HMAC-SHA256 of
// "orderID|paymentID" keyed with the API secret.
func (s *PaymentService) verifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// the raw webhook body.
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
