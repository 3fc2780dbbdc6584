package calendar

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelpms/internal/pkg/dates"
)

// Repository is the per-day exception store.
type Repository interface {
	Get(ctx context.Context, hotelID uint, date time.Time) (*Override, error)
	ListRange(ctx context.Context, hotelID uint, from, to time.Time) ([]Override, error)
	Upsert(ctx context.Context, o *Override) error
	Delete(ctx context.Context, hotelID uint, date time.Time) (bool, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Get returns nil, nil when the date has no override.
func (r *GormRepository) Get(ctx context.Context, hotelID uint, date time.Time) (*Override, error) {
	var o Override
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND date = ?", hotelID, dates.Normalize(date)).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListRange returns overrides with date in [from, to).
func (r *GormRepository) ListRange(ctx context.Context, hotelID uint, from, to time.Time) ([]Override, error) {
	var out []Override
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND date >= ? AND date < ?", hotelID, dates.Normalize(from), dates.Normalize(to)).
		Order("date").
		Find(&out).Error
	return out, err
}

func (r *GormRepository) Upsert(ctx context.Context, o *Override) error {
	o.Date = dates.Normalize(o.Date)
	o.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_closed", "is_holiday", "fixed_price", "notes", "updated_at"}),
	}).Create(o).Error
}

func (r *GormRepository) Delete(ctx context.Context, hotelID uint, date time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("hotel_id = ? AND date = ?", hotelID, dates.Normalize(date)).
		Delete(&Override{})
	return tx.RowsAffected > 0, tx.Error
}
