package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uint, title, message string, notifType NotificationType, link string) error
	GetUserNotifications(ctx context.Context, userID uint, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, id string, userID uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error
}

type NotificationServiceImpl struct {
	repo NotificationRepository
	hub  *Hub
}

func NewNotificationService(repo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		repo: repo,
		hub:  hub,
	}
}

// Notify persists the notification, then pushes it to any live websocket
// connections the user has.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID uint, title, message string, notifType NotificationType, link string) error {
	notification := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Link:    link,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	s.hub.Push(userID, notification)
	return nil
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userID uint, page, limit int64) ([]Notification, int64, error) {
	return s.repo.GetByUserID(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, objID, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
