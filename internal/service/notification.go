package service

import (
	"context"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/goalpulse/goalpulse/internal/repository"
)

const maxNotificationLimit = 200

type NotificationService struct {
	notificationRepository repository.NotificationRepository
}

func NewNotificationService(notificationRepository repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepository: notificationRepository}
}

// Recent returns the newest delivery attempts for a user. A limit of zero
// uses the repository default.
func (s *NotificationService) Recent(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.notificationRepository.ByUser(ctx, userID, limit)
}
