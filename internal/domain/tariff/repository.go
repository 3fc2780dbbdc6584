package tariff

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealRuleRepository interface {
	List(ctx context.Context, hotelID uint) ([]MealRule, error)
	Upsert(ctx context.Context, rule *MealRule) error
}

type GormMealRuleRepository struct {
	db *gorm.DB
}

func NewMealRuleRepository(db *gorm.DB) *GormMealRuleRepository {
	return &GormMealRuleRepository{db: db}
}

func (r *GormMealRuleRepository) List(ctx context.Context, hotelID uint) ([]MealRule, error) {
	var out []MealRule
	err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("service_type_id").Find(&out).Error
	return out, err
}

func (r *GormMealRuleRepository) Upsert(ctx context.Context, rule *MealRule) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "service_type_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"mode", "value"}),
	}).Create(rule).Error
}
