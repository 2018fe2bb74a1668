package settings

import (
	"context"
	"strconv"
	"time"

	"brickvest-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	feeCacheKey = "settings:platform_fee_bps"
	feeCacheTTL = 5 * time.Minute
)

// Service resolves operator-tunable settings: Redis read-through cache over
// the platform_settings table, falling back to compiled defaults. Lookups
// never fail; a broken store means the default applies.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// FeeBps returns the marketplace platform fee in basis points (250 = 2.5%).
func (s *Service) FeeBps(ctx context.Context) int64 {
	if s.Rdb != nil {
		if v, err := s.Rdb.Get(ctx, feeCacheKey).Result(); err == nil {
			if bps, err := strconv.ParseInt(v, 10, 64); err == nil {
				return bps
			}
		}
	}

	bps := int64(domain.DefaultPlatformFeeBps)
	var row domain.PlatformSetting
	err := s.DB.WithContext(ctx).Where("key = ?", domain.SettingPlatformFeeBps).First(&row).Error
	switch {
	case err == nil:
		parsed, perr := strconv.ParseInt(row.Value, 10, 64)
		if perr != nil || parsed < 0 {
			log.Warn().Str("value", row.Value).Msg("unparseable platform_fee_bps setting, using default")
		} else {
			bps = parsed
		}
	case err == gorm.ErrRecordNotFound:
		// default applies
	default:
		log.Warn().Err(err).Msg("platform_fee_bps lookup failed, using default")
	}

	if s.Rdb != nil {
		if err := s.Rdb.Set(ctx, feeCacheKey, strconv.FormatInt(bps, 10), feeCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("fee bps cache write failed")
		}
	}
	return bps
}
