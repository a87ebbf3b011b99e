package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/goalpulse/goalpulse/internal/reminder"
	"github.com/goalpulse/goalpulse/internal/repository"
	"github.com/oklog/ulid/v2"
)

var ErrInvalidFrequency = errors.New("invalid notification frequency")

type UserService struct {
	userRepository         repository.UserRepository
	notificationRepository repository.NotificationRepository
	sender                 reminder.Sender
	appName                string
	now                    func() time.Time
}

func NewUserService(
	userRepository repository.UserRepository,
	notificationRepository repository.NotificationRepository,
	sender reminder.Sender,
	appName string,
) *UserService {
	return &UserService{
		userRepository:         userRepository,
		notificationRepository: notificationRepository,
		sender:                 sender,
		appName:                appName,
		now:                    time.Now,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) UpdateNotificationFrequency(ctx context.Context, userID, frequency string) (*model.User, error) {
	if !model.ValidNotificationFrequency(frequency) {
		return nil, ErrInvalidFrequency
	}

	err := s.userRepository.UpdateNotificationFrequency(ctx, userID, frequency)
	if err != nil {
		return nil, err
	}

	return s.userRepository.ByID(ctx, userID)
}

// SendTestSMS sends a one-off message to the user's phone and logs the attempt.
func (s *UserService) SendTestSMS(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return err
	}

	sendErr := s.sender.Send(ctx, user.Phone, reminder.TestMessage(s.appName, user.Name))

	n := &model.Notification{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Kind:      model.NotificationTest,
		Status:    model.NotificationSent,
		CreatedAt: s.now(),
	}
	if sendErr != nil {
		n.Status = model.NotificationFailed
		n.Error = sendErr.Error()
	}

	err = s.notificationRepository.Create(ctx, []*model.Notification{n})
	if err != nil && sendErr == nil {
		return fmt.Errorf("failed to record test notification: %w", err)
	}

	return sendErr
}
