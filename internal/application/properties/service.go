package properties

import (
	"context"
	"fmt"

	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the investor-facing read API for properties. Lifecycle
// administration (approval, closing) lives outside this service; only the
// active->funded flip happens here, inside the investment unit of work.
type Service struct {
	DB *gorm.DB
}

// List returns properties, optionally filtered by status, newest first.
func (s *Service) List(ctx context.Context, status string) ([]domain.Property, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Property{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var props []domain.Property
	if err := q.Order("created_at DESC").Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

// Get returns one property by id.
func (s *Service) Get(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	var prop domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&prop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, propertyID)
		}
		return nil, err
	}
	return &prop, nil
}
