package curve

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, hotelID uint) ([]Keyframe, error)
	ReplaceAll(ctx context.Context, hotelID uint, keyframes []Keyframe) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) List(ctx context.Context, hotelID uint) ([]Keyframe, error) {
	var out []Keyframe
	err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("date").Find(&out).Error
	return out, err
}

// ReplaceAll swaps the hotel's curve atomically.
func (r *GormRepository) ReplaceAll(ctx context.Context, hotelID uint, keyframes []Keyframe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", hotelID).Delete(&Keyframe{}).Error; err != nil {
			return err
		}
		if len(keyframes) == 0 {
			return nil
		}
		return tx.Create(&keyframes).Error
	})
}
