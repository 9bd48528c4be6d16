package handlers

import (
	"errors"
	"net/http"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
)

type TOTPHandler struct {
	TOTP *services.TOTPService
}

func NewTOTPHandler(totpSvc *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{TOTP: totpSvc}
}

// Setup enrolls the agent: generates a secret and returns the QR code
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	resp, err := h.TOTP.Setup(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrTOTPAgentsOnly) {
			respondError(w, http.StatusForbidden, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to set up authenticator")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Enable confirms the first authenticator code and turns 2FA on
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.TOTPVerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.TOTP.Enable(r.Context(), userID, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrTOTPInvalidCode):
			respondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrTOTPNotEnrolled):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to enable authenticator")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Authenticator enabled"})
}

// CompleteLogin exchanges a temp token plus authenticator code for the
// full session token.
func (h *TOTPHandler) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempToken string `json:"temp_token"`
		Code      string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.TOTP.CompleteLogin(r.Context(), req.TempToken, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrTOTPInvalidCode) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusUnauthorized, "2FA verification failed")
		return
	}

	respondJSON(w, http.StatusOK, models.AuthResponse{
		Token:         token,
		User:          user,
		FullyVerified: true,
	})
}
