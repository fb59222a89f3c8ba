package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationService defines notification business logic
type NotificationService interface {
	CreateNotification(ctx context.Context, recipientUID, title, body string, kind Kind, reportID string) error
	// CreateOnce skips creation when a notification of this kind already exists
	// for the report; the overdue sweep relies on this to avoid re-flagging.
	CreateOnce(ctx context.Context, recipientUID, title, body string, kind Kind, reportID string) error
	ListForRecipient(ctx context.Context, uid string, limit int64) ([]Notification, error)
	MarkRead(ctx context.Context, id string, uid string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{Repo: repo, Logger: logger}
}

func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, recipientUID, title, body string, kind Kind, reportID string) error {
	n := &Notification{
		RecipientUID: recipientUID,
		Title:        title,
		Body:         body,
		Kind:         kind,
		ReportID:     reportID,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Warn("notification create failed",
			zap.String("report_id", reportID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *NotificationServiceImpl) CreateOnce(ctx context.Context, recipientUID, title, body string, kind Kind, reportID string) error {
	exists, err := s.Repo.Exists(ctx, reportID, kind)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.CreateNotification(ctx, recipientUID, title, body, kind, reportID)
}

func (s *NotificationServiceImpl) ListForRecipient(ctx context.Context, uid string, limit int64) ([]Notification, error) {
	return s.Repo.FindByRecipient(ctx, uid, limit)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string, uid string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.Repo.MarkRead(ctx, objID, uid)
}
