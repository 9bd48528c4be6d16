package models

import "time"

// Property types
const (
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
	PropertyTypePlot      = "plot"
	PropertyTypeCommercial = "commercial"
)

// Listing statuses
const (
	ListingStatusActive   = "active"
	ListingStatusSold     = "sold"
	ListingStatusInactive = "inactive"
)

type Property struct {
	ID           int       `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PropertyType string    `json:"property_type"`
	Price        float64   `json:"price"`
	City         string    `json:"city"`
	Locality     string    `json:"locality"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	AreaSqft     float64   `json:"area_sqft"`
	Status       string    `json:"status"`
	Featured     bool      `json:"featured"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
	PhotoKeys    []string  `json:"photo_keys"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreatePropertyRequest represents the request body for creating a listing
type CreatePropertyRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PropertyType string  `json:"property_type"`
	Price        float64 `json:"price"`
	City         string  `json:"city"`
	Locality     string  `json:"locality"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	AreaSqft     float64 `json:"area_sqft"`
}

// UpdatePropertyRequest represents the request body for updating a listing
type UpdatePropertyRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PropertyType string  `json:"property_type"`
	Price        float64 `json:"price"`
	City         string  `json:"city"`
	Locality     string  `json:"locality"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	AreaSqft     float64 `json:"area_sqft"`
	Status       string  `json:"status"`
}

// PropertyFilter narrows listing searches
type PropertyFilter struct {
	City         string
	Locality     string
	PropertyType string
	MinPrice     float64
	MaxPrice     float64
	Bedrooms     int
	FeaturedOnly bool
	Limit        int
	Offset       int
}
