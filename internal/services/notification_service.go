package services

import (
	"errors"
	"fmt"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService provides business logic for the notification feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// ListNotifications returns the caller's notifications, newest first.
func (s *NotificationService) ListNotifications(userID uint64) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag on one of the caller's notifications. A
// notification belonging to someone else reads as not found.
func (s *NotificationService) MarkRead(notificationID, callerID uint64) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}

	if notification.UserID != callerID {
		return ErrNotificationNotFound
	}

	if err := s.notificationRepo.MarkRead(notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
