package handlers

import (
	"errors"
	"net/http"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
)

type EnquiryHandler struct {
	Enquiries *services.EnquiryService
}

func NewEnquiryHandler(enquiries *services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{Enquiries: enquiries}
}

// Create posts an enquiry against a listing, or an open requirement
func (h *EnquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.CreateEnquiryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := h.Enquiries.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, e)
}

// Inbox returns enquiries against the caller's listings
func (h *EnquiryHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	list, err := h.Enquiries.ListForOwner(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load enquiries")
		return
	}
	if list == nil {
		list = []*models.Enquiry{}
	}
	respondJSON(w, http.StatusOK, list)
}

// Mine returns the caller's own enquiries and requirements
func (h *EnquiryHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	list, err := h.Enquiries.ListByBuyer(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load enquiries")
		return
	}
	if list == nil {
		list = []*models.Enquiry{}
	}
	respondJSON(w, http.StatusOK, list)
}

// UpdateStatus moves an enquiry to replied or closed
func (h *EnquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid enquiry id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Enquiries.UpdateStatus(r.Context(), id, userID, role, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrEnquiryNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			respondError(w, http.StatusForbidden, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Enquiry updated"})
}
