package transactions

import (
	"context"

	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service serves the append-only transaction log: per-user statements for
// reconciliation. Writes happen inside the investment, marketplace and
// dividend units of work, never here.
type Service struct {
	DB *gorm.DB
}

// ListForUser returns the user's cash movements, newest first, optionally
// filtered by type.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, txType string) ([]domain.Transaction, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	var txs []domain.Transaction
	if err := q.Order("created_at DESC").Limit(200).Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
