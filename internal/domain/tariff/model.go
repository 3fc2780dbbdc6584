package tariff

import "hotelpms/internal/domain/season"

// MealRule is the hotel-wide service adjustment used when the governing season block
// (or the curve path) has no adjustment of its own.
type MealRule struct {
	ID            uint                  `json:"id" gorm:"primaryKey"`
	HotelID       uint                  `json:"hotel_id" gorm:"not null;uniqueIndex:idx_meal_rule"`
	ServiceTypeID uint                  `json:"service_type_id" gorm:"not null;uniqueIndex:idx_meal_rule"`
	Mode          season.AdjustmentMode `json:"mode" gorm:"size:16;not null"`
	Value         float64               `json:"value" gorm:"not null"`
}

func (MealRule) TableName() string { return "meal_rules" }

type Source string

const (
	SourceFixedPrice    Source = "fixed_price"
	SourceSeasonBlock   Source = "season_block"
	SourceSeasonalCurve Source = "seasonal_curve"
)

type NightlyRate struct {
	Date          string `json:"date"`
	RoomTypeID    uint   `json:"room_type_id"`
	ServiceTypeID uint   `json:"service_type_id"`
	Source        Source `json:"source"`
	SeasonBlockID *uint  `json:"season_block_id,omitempty"`
	// BasePrice is the room-only price; ServicePrice adds the service plan. Both are
	// before dynamic adjustment.
	BasePrice    int64 `json:"base_price"`
	ServicePrice int64 `json:"service_price"`
	Rate         int64 `json:"rate"`
}

type Quote struct {
	RoomTypeID    uint          `json:"room_type_id"`
	ServiceTypeID uint          `json:"service_type_id"`
	CheckIn       string        `json:"check_in"`
	CheckOut      string        `json:"check_out"`
	Nights        []NightlyRate `json:"nights"`
	Total         int64         `json:"total"`
}

func (q Quote) NightCount() int { return len(q.Nights) }
