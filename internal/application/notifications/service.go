package notifications

import (
	"context"
	"encoding/json"
	"time"

	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service persists and serves user notifications. It implements
// events.Notifier, so committed operations can fan notifications out through
// the dispatcher.
type Service struct {
	DB *gorm.DB
}

// Notify stores a notification row. Called post-commit; runs outside any
// unit of work on purpose.
func (s *Service) Notify(userID uuid.UUID, typ, title, message string, data map[string]interface{}) error {
	payload := datatypes.JSON("{}")
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(b)
	}
	return s.DB.Create(&domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    payload,
	}).Error
}

// ListForUser returns the caller's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags a notification as read by its owner.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
