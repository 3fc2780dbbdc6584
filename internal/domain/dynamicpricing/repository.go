package dynamicpricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelpms/internal/pkg/cache"
	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/logger"
)

type ConfigRepository interface {
	// Get returns nil, nil when the hotel has no saved configuration.
	Get(ctx context.Context, hotelID uint) (*Config, error)
	Save(ctx context.Context, cfg *Config) error
}

type IndexRepository interface {
	// Get returns nil, nil when no indices were ingested for date.
	Get(ctx context.Context, hotelID uint, date time.Time) (*MarketIndex, error)
	Upsert(ctx context.Context, indices []MarketIndex) error
}

type GormConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *GormConfigRepository {
	return &GormConfigRepository{db: db}
}

func (r *GormConfigRepository) Get(ctx context.Context, hotelID uint) (*Config, error) {
	var cfg Config
	err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save upserts by hotel.
func (r *GormConfigRepository) Save(ctx context.Context, cfg *Config) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Config
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", cfg.HotelID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cfg.ID = 0
		case err != nil:
			return err
		default:
			cfg.ID = existing.ID
		}
		return tx.Save(cfg).Error
	})
}

// CachedConfigRepository reads through cache and invalidates on write.
type CachedConfigRepository struct {
	next  ConfigRepository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedConfigRepository(next ConfigRepository, c cache.Cache, ttl time.Duration, log *zap.Logger) *CachedConfigRepository {
	return &CachedConfigRepository{next: next, cache: c, ttl: ttl, log: logger.OrNop(log)}
}

func configKey(hotelID uint) string {
	return fmt.Sprintf("dynamic_pricing:config:%d", hotelID)
}

func (r *CachedConfigRepository) Get(ctx context.Context, hotelID uint) (*Config, error) {
	var cfg Config
	hit, err := r.cache.Get(ctx, configKey(hotelID), &cfg)
	if err != nil {
		r.log.Warn("config cache read failed", zap.Uint("hotel_id", hotelID), zap.Error(err))
	}
	if hit && err == nil {
		return &cfg, nil
	}

	loaded, err := r.next.Get(ctx, hotelID)
	if err != nil || loaded == nil {
		return loaded, err
	}
	if err := r.cache.Set(ctx, configKey(hotelID), loaded, r.ttl); err != nil {
		r.log.Warn("config cache write failed", zap.Uint("hotel_id", hotelID), zap.Error(err))
	}
	return loaded, nil
}

func (r *CachedConfigRepository) Save(ctx context.Context, cfg *Config) error {
	if err := r.next.Save(ctx, cfg); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, configKey(cfg.HotelID)); err != nil {
		// a stale entry must not outlive the write
		return fmt.Errorf("invalidate config cache: %w", err)
	}
	return nil
}

type GormIndexRepository struct {
	db *gorm.DB
}

func NewIndexRepository(db *gorm.DB) *GormIndexRepository {
	return &GormIndexRepository{db: db}
}

func (r *GormIndexRepository) Get(ctx context.Context, hotelID uint, date time.Time) (*MarketIndex, error) {
	var idx MarketIndex
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND date = ?", hotelID, dates.Normalize(date)).
		First(&idx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &idx, nil
}

func (r *GormIndexRepository) Upsert(ctx context.Context, indices []MarketIndex) error {
	if len(indices) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range indices {
		indices[i].Date = dates.Normalize(indices[i].Date)
		indices[i].UpdatedAt = now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"demand", "weather", "events", "updated_at"}),
	}).Create(&indices).Error
}
