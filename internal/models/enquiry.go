package models

import "time"

// Enquiry statuses
const (
	EnquiryStatusOpen     = "open"
	EnquiryStatusReplied  = "replied"
	EnquiryStatusClosed   = "closed"
)

// Enquiry is a buyer's message against a listing. Owners see these in
// their inbox; a requirement is an enquiry without a target listing.
type Enquiry struct {
	ID         int       `json:"id"`
	PropertyID *int      `json:"property_id,omitempty"` // nil for open requirements
	BuyerID    int       `json:"buyer_id"`
	BuyerName  string    `json:"buyer_name,omitempty"`
	Message    string    `json:"message"`
	Budget     float64   `json:"budget"`
	City       string    `json:"city"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateEnquiryRequest represents the request body for posting an enquiry
type CreateEnquiryRequest struct {
	PropertyID *int    `json:"property_id,omitempty"`
	Message    string  `json:"message"`
	Budget     float64 `json:"budget"`
	City       string  `json:"city"`
}

// Review is a rating and comment left on a listing
type Review struct {
	ID           int       `json:"id"`
	PropertyID   int       `json:"property_id"`
	ReviewerID   int       `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Rating       int       `json:"rating"` // 1-5
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateReviewRequest represents the request body for posting a review
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
