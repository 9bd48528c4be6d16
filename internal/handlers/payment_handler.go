package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

// CreateOrder starts a featured-listing purchase
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.CreateFeaturedOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.Payments.CreateFeaturedOrder(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentUnavailable):
			respondError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, services.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotListingOwner):
			respondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrInvalidDuration):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

// VerifyPayment completes the checkout: validates the signature and
// promotes the listing.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.VerifyPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.Payments.VerifyPayment(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidSignature):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrAlreadyProcessed):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

// Webhook receives razorpay server-to-server events. Only the signature
// is checked here; payment state moves through the verify endpoint, the
// webhook is an audit trail.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Payments.VerifyWebhookSignature(body, signature) {
		respondError(w, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	var event struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(body, &event); err == nil {
		log.Printf("[Payment] webhook event: %s", event.Event)
	}

	w.WriteHeader(http.StatusOK)
}
