package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"

	"github.com/gorilla/mux"
)

type PropertyHandler struct {
	Properties *services.PropertyService
	Reviews    *services.ReviewService
}

func NewPropertyHandler(properties *services.PropertyService, reviews *services.ReviewService) *PropertyHandler {
	return &PropertyHandler{Properties: properties, Reviews: reviews}
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	return id, err == nil && id > 0
}

// Create posts a new listing
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.CreatePropertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.Properties.Create(r.Context(), userID, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// Get returns one listing with its reviews and average rating
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	p, err := h.Properties.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Property not found")
		return
	}

	reviews, avg, err := h.Reviews.ListByProperty(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load reviews")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"property":       p,
		"reviews":        reviews,
		"average_rating": avg,
	})
}

// Search lists active listings matching query filters, featured first
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PropertyFilter{
		City:         q.Get("city"),
		Locality:     q.Get("locality"),
		PropertyType: q.Get("type"),
		FeaturedOnly: q.Get("featured") == "true",
	}
	filter.MinPrice, _ = strconv.ParseFloat(q.Get("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(q.Get("max_price"), 64)
	filter.Bedrooms, _ = strconv.Atoi(q.Get("bedrooms"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	props, err := h.Properties.Search(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search properties")
		return
	}
	if props == nil {
		props = []*models.Property{}
	}
	respondJSON(w, http.StatusOK, props)
}

// MyListings returns the caller's own listings, any status
func (h *PropertyHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	props, err := h.Properties.ListByOwner(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load listings")
		return
	}
	if props == nil {
		props = []*models.Property{}
	}
	respondJSON(w, http.StatusOK, props)
}

// Update edits a listing (owner or admin)
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	var req models.UpdatePropertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.Properties.Update(r.Context(), id, userID, role, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotListingOwner):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Delete removes a listing (owner or admin)
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	if err := h.Properties.Delete(r.Context(), id, userID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotListingOwner):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Property deleted"})
}
