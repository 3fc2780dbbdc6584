package inventory

import (
	"time"

	"gorm.io/datatypes"
)

type RoomStatus string

const (
	RoomAvailable    RoomStatus = "available"
	RoomMaintenance  RoomStatus = "maintenance"
	RoomOutOfService RoomStatus = "out_of_service"
)

// RoomType groups rooms that share pricing. PriceCoefficient scales the hotel-wide
// seasonal curve price.
type RoomType struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	HotelID          uint      `json:"hotel_id" gorm:"not null;index"`
	Name             string    `json:"name" gorm:"size:120;not null"`
	PriceCoefficient float64   `json:"price_coefficient" gorm:"not null;default:1"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (RoomType) TableName() string { return "room_types" }

type Room struct {
	ID         uint                        `json:"id" gorm:"primaryKey"`
	HotelID    uint                        `json:"hotel_id" gorm:"not null;index"`
	RoomTypeID uint                        `json:"room_type_id" gorm:"not null;index"`
	Name       string                      `json:"name" gorm:"size:60;not null"`
	MaxPeople  int                         `json:"max_people" gorm:"not null"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Status     RoomStatus                  `json:"status" gorm:"size:32;not null;default:available;index"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`

	RoomType *RoomType `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`
}

func (Room) TableName() string { return "rooms" }

// HasTag is case-sensitive; tags are stored as entered by management.
func (r *Room) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ServiceType is a board plan. The base service ("Solo Alojamiento") always sells at
// the plain nightly price; ParentID names the plan a service builds on, so half board
// is priced on top of the breakfast rate.
type ServiceType struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	HotelID  uint   `json:"hotel_id" gorm:"not null;index"`
	Name     string `json:"name" gorm:"size:120;not null"`
	IsBase   bool   `json:"is_base" gorm:"not null;default:false"`
	ParentID *uint  `json:"parent_id,omitempty"`
	Position int    `json:"position" gorm:"not null;default:0"`
}

func (ServiceType) TableName() string { return "service_types" }

// ReservationSegment is one room's share of a reservation over [StartDate, EndDate).
type ReservationSegment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RoomID        uint      `json:"room_id" gorm:"not null;index"`
	ReservationID uint      `json:"reservation_id" gorm:"index"`
	StartDate     time.Time `json:"start_date" gorm:"type:date;not null;index"`
	EndDate       time.Time `json:"end_date" gorm:"type:date;not null;index"`
	IsActive      bool      `json:"is_active" gorm:"not null"`
}

func (ReservationSegment) TableName() string { return "reservation_segments" }

// Conflicts applies the half-open overlap rule.
func (s ReservationSegment) Conflicts(start, end time.Time) bool {
	return s.StartDate.Before(end) && s.EndDate.After(start)
}
