package handlers

import (
	"net/http"
	"strconv"

	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/services"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.Notifications.List(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	if list == nil {
		list = []*models.Notification{}
	}

	unread, err := h.Notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": list,
		"unread":        unread,
	})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.Notifications.MarkRead(r.Context(), id, userID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Marked read"})
}
