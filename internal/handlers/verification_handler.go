package handlers

import (
	"errors"
	"net/http"
	"time"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
	"estate-backend/internal/verification"
)

type VerificationHandler struct {
	Verification *services.VerificationService
	Users        *services.UserService
}

func NewVerificationHandler(verificationSvc *services.VerificationService, users *services.UserService) *VerificationHandler {
	return &VerificationHandler{Verification: verificationSvc, Users: users}
}

func parseChannel(raw string) (verification.Channel, bool) {
	switch raw {
	case string(verification.ChannelEmail):
		return verification.ChannelEmail, true
	case string(verification.ChannelMobile):
		return verification.ChannelMobile, true
	}
	return "", false
}

// SendOTP issues a fresh code on one channel for the authenticated user
func (h *VerificationHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.SendOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ch, ok := parseChannel(req.Channel)
	if !ok {
		respondError(w, http.StatusBadRequest, "channel must be email or mobile")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	result, err := h.Verification.RequestOTP(r.Context(), user, ch,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrTooManyRequests) {
			respondError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	switch result.Status {
	case verification.StatusSuccess:
		respondJSON(w, http.StatusOK, map[string]any{
			"status":  result.Status.String(),
			"channel": string(ch),
		})
	case verification.StatusRateLimited:
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"status":              result.Status.String(),
			"retry_after_seconds": int(result.RetryAfter.Round(time.Second).Seconds()),
		})
	case verification.StatusAccountLocked:
		respondJSON(w, http.StatusLocked, map[string]any{
			"status":            result.Status.String(),
			"remaining_seconds": int(result.Remaining.Round(time.Second).Seconds()),
		})
	default:
		respondError(w, http.StatusInternalServerError, "Unexpected result")
	}
}

// VerifyOTP checks a submitted code. A successful verify of the last
// outstanding channel also returns a session token.
func (h *VerificationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.VerifyOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ch, ok := parseChannel(req.Channel)
	if !ok {
		respondError(w, http.StatusBadRequest, "channel must be email or mobile")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	result, rec, err := h.Verification.SubmitOTP(r.Context(), user, ch, req.OTP,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to verify OTP")
		return
	}

	switch result.Status {
	case verification.StatusSuccess:
		resp := map[string]any{
			"status":  result.Status.String(),
			"channel": string(ch),
		}
		token, fullyVerified, err := h.Users.IssueTokenIfVerified(user, rec)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}
		if token != "" {
			resp["token"] = token
		}
		resp["fully_verified"] = fullyVerified
		respondJSON(w, http.StatusOK, resp)
	case verification.StatusExpired:
		respondJSON(w, http.StatusGone, map[string]any{"status": result.Status.String()})
	case verification.StatusInvalidCode:
		respondJSON(w, http.StatusUnauthorized, map[string]any{"status": result.Status.String()})
	case verification.StatusLocked, verification.StatusAccountLocked:
		respondJSON(w, http.StatusLocked, map[string]any{
			"status":            result.Status.String(),
			"remaining_seconds": int(result.Remaining.Round(time.Second).Seconds()),
		})
	default:
		respondError(w, http.StatusInternalServerError, "Unexpected result")
	}
}

// Status shows the caller's verification state (codes never leave the
// backend, the Record's JSON tags hide them)
func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rec, err := h.Verification.Status(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Verification record not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"email_verified":  rec.EmailVerified,
		"mobile_verified": rec.MobileVerified,
		"fully_verified":  verification.FullyVerified(rec),
		"locked":          rec.Locked,
		"locked_until":    rec.LockedUntil,
	})
}
