package services

import (
	"context"
	"fmt"

	"estate-backend/internal/models"
	"estate-backend/internal/repositories"
	"estate-backend/internal/ws"
)

// NotificationService persists notifications and pushes them to connected
// clients. The row is the source of truth; the websocket push is a hint.
type NotificationService struct {
	Repo *repositories.NotificationRepository
	Hub  *ws.Hub
}

func NewNotificationService(repo *repositories.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{Repo: repo, Hub: hub}
}

// Notify stores a notification and pushes it to the user's open
// connections
func (s *NotificationService) Notify(ctx context.Context, userID int, kind, title, body string) error {
	note := &models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.Repo.Create(ctx, note); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.Hub != nil {
		s.Hub.Publish(userID, note)
	}
	return nil
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID, limit int) ([]*models.Notification, error) {
	return s.Repo.ListForUser(ctx, userID, limit)
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	return s.Repo.MarkRead(ctx, id, userID)
}

// UnreadCount returns the user's unread notification count
func (s *NotificationService) UnreadCount(ctx context.Context, userID int) (int, error) {
	return s.Repo.UnreadCount(ctx, userID)
}
