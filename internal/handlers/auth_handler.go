package handlers

import (
	"errors"
	"net/http"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
	TOTP  *services.TOTPService
}

func NewAuthHandler(users *services.UserService, totpSvc *services.TOTPService) *AuthHandler {
	return &AuthHandler{Users: users, TOTP: totpSvc}
}

// Signup registers a new account. The response carries no token: the
// client must verify both contact channels first.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrMobileTaken):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, models.AuthResponse{User: user})
}

// Login checks credentials. Fully verified accounts get a session token
// (or a temp token when TOTP is pending); unverified accounts get the
// user object back with fully_verified false so the client can resume
// OTP verification.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.Users.Login(r.Context(), &req,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		var locked *services.ErrAccountLocked
		switch {
		case errors.As(err, &locked):
			respondError(w, http.StatusLocked, locked.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			respondError(w, http.StatusForbidden, err.Error())
		}
		return
	}

	if outcome.NeedsTOTP {
		respondJSON(w, http.StatusOK, map[string]any{
			"requires_totp": true,
			"temp_token":    outcome.TempToken,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.AuthResponse{
		Token:         outcome.Token,
		User:          outcome.User,
		FullyVerified: outcome.FullyVerified,
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the caller's name and city
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), userID, req.Name, req.City)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, user)
}
