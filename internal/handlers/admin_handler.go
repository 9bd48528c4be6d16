package handlers

import (
	"net/http"
	"strconv"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/monitoring"
	"estate-backend/internal/repositories"
	"estate-backend/internal/services"
	"estate-backend/internal/timeutil"
	"estate-backend/internal/verification"
)

// AdminHandler groups the admin-only surface: dashboard, audit trail,
// account unlock, PDF report and host monitoring.
type AdminHandler struct {
	Dashboard    *services.DashboardService
	Reports      *services.ReportService
	Verification *services.VerificationService
	ActivityRepo *repositories.ActivityLogRepository
}

func NewAdminHandler(dashboard *services.DashboardService, reports *services.ReportService, verificationSvc *services.VerificationService, activityRepo *repositories.ActivityLogRepository) *AdminHandler {
	return &AdminHandler{
		Dashboard:    dashboard,
		Reports:      reports,
		Verification: verificationSvc,
		ActivityRepo: activityRepo,
	}
}

// Stats returns the marketplace dashboard aggregates
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to gather stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Report streams the marketplace summary PDF
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.Reports.MarketplaceSummary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	filename := "marketplace_" + timeutil.FormatIST(timeutil.Now(), timeutil.DateLayout) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(pdf)
}

// SystemStats returns a host resource snapshot
func (h *AdminHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, monitoring.Snapshot())
}

// ActivityLogs returns recent account security events, optionally for
// one user.
func (h *AdminHandler) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	var logs []*models.ActivityLog
	var err error
	if rawUser := r.URL.Query().Get("user_id"); rawUser != "" {
		userID, convErr := strconv.Atoi(rawUser)
		if convErr != nil || userID <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid user_id")
			return
		}
		logs, err = h.ActivityRepo.ListForUser(r.Context(), userID, limit)
	} else {
		logs, err = h.ActivityRepo.ListRecent(r.Context(), limit)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load activity logs")
		return
	}
	if logs == nil {
		logs = []*models.ActivityLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}

// UnlockAccount lifts a lockout and resets both failure counters
func (h *AdminHandler) UnlockAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	rec, err := h.Verification.Unlock(r.Context(), userID,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to unlock account")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":        "Account unlocked",
		"fully_verified": verification.FullyVerified(rec),
	})
}

// VerificationStatus shows one user's verification record (admin view)
func (h *AdminHandler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	rec, err := h.Verification.Status(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Verification record not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
