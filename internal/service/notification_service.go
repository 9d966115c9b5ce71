package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

// ErrNotificationNotFound indicates the notification does not exist or
// belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService records and serves per-student review notifications.
type NotificationService interface {
	NotifyReview(ctx context.Context, studentID, taskID, taskName, decision string)
	List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint, userID string) (models.Notification, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	logger zerolog.Logger
}

// NewNotificationService constructs a notification service.
func NewNotificationService(repo repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger.With().Str("component", "notification_service").Logger(),
	}
}

// NotifyReview records a notification for the reviewed student. Failures
// are logged, not returned; a lost notification must never fail a review.
func (s *notificationService) NotifyReview(ctx context.Context, studentID, taskID, taskName, decision string) {
	if studentID == "" {
		return
	}

	notificationType := models.NotificationTypeFeedback
	message := fmt.Sprintf("Tehtava %q palautettiin korjattavaksi", taskName)
	if decision == models.TaskStatusApproved {
		notificationType = models.NotificationTypeApproval
		message = fmt.Sprintf("Tehtava %q hyvaksyttiin", taskName)
	}

	notification := models.Notification{
		UserID:  studentID,
		Type:    notificationType,
		Message: message,
		TaskID:  taskID,
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to record review notification")
	}
}

func (s *notificationService) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID string) (models.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Notification{}, ErrNotificationNotFound
		}
		return models.Notification{}, err
	}
	return notification, nil
}
