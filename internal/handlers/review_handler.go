package handlers

import (
	"errors"
	"net/http"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

// Create posts a review on a listing
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.CreateReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rev, err := h.Reviews.Create(r.Context(), propertyID, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, rev)
}

// List returns a listing's reviews with the average rating
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	reviews, avg, err := h.Reviews.ListByProperty(r.Context(), propertyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load reviews")
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"reviews":        reviews,
		"average_rating": avg,
	})
}
