package curve

import "time"

// Keyframe is one point of the hotel-wide base price curve. Value is in minor units.
type Keyframe struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	HotelID uint      `json:"hotel_id" gorm:"not null;uniqueIndex:idx_curve_hotel_date"`
	Date    time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_curve_hotel_date"`
	Value   int64     `json:"value" gorm:"not null"`
}

func (Keyframe) TableName() string { return "seasonal_curve_keyframes" }
