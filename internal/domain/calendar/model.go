package calendar

import "time"

// Override (an "open day") is a per-date exception. A closed date cannot be sold;
// FixedPrice, when set, replaces every computed price for that date.
type Override struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	HotelID    uint      `json:"hotel_id" gorm:"not null;uniqueIndex:idx_open_days_hotel_date"`
	Date       time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_open_days_hotel_date"`
	IsClosed   bool      `json:"is_closed" gorm:"not null;default:false"`
	IsHoliday  bool      `json:"is_holiday" gorm:"not null;default:false"`
	FixedPrice *int64    `json:"fixed_price,omitempty"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Override) TableName() string { return "open_days" }

func (o *Override) HasFixedPrice() bool {
	return o != nil && o.FixedPrice != nil
}
