package models

import "time"

// Payment statuses
const (
	PaymentStatusCreated  = "created"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
)

// FeaturedPayment tracks a razorpay order promoting a listing
type FeaturedPayment struct {
	ID              int       `json:"id"`
	PropertyID      int       `json:"property_id"`
	UserID          int       `json:"user_id"`
	RazorpayOrderID string    `json:"razorpay_order_id"`
	AmountPaise     int64     `json:"amount_paise"`
	DurationDays    int       `json:"duration_days"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateFeaturedOrderRequest starts a featured-listing purchase
type CreateFeaturedOrderRequest struct {
	PropertyID   int `json:"property_id"`
	DurationDays int `json:"duration_days"`
}

// VerifyPaymentRequest carries the razorpay checkout callback fields
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// DashboardStats aggregates marketplace counts for the admin dashboard
type DashboardStats struct {
	TotalUsers         int     `json:"total_users"`
	FullyVerifiedUsers int     `json:"fully_verified_users"`
	LockedAccounts     int     `json:"locked_accounts"`
	ActiveListings     int     `json:"active_listings"`
	FeaturedListings   int     `json:"featured_listings"`
	OpenEnquiries      int     `json:"open_enquiries"`
	TotalReviews       int     `json:"total_reviews"`
	AverageRating      float64 `json:"average_rating"`
	GeneratedAt        string  `json:"generated_at"`
}
