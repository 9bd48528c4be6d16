package models

import "time"

// Notification kinds
const (
	NotificationEnquiry  = "enquiry"
	NotificationReview   = "review"
	NotificationListing  = "listing"
	NotificationAccount  = "account"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
