package season

import (
	"time"

	"hotelpms/internal/pkg/dates"
)

type AdjustmentMode string

const (
	ModeFixed      AdjustmentMode = "FIXED"
	ModePercentage AdjustmentMode = "PERCENTAGE"
)

const (
	MinPercentage = -100.0
	MaxPercentage = 500.0
)

// Block is a named date range [StartDate, EndDate) with its own prices. Drafts may
// have blank dates and may overlap anything; confirmed blocks of one hotel must not
// overlap unless AllowOverlap was set by a forced confirmation.
type Block struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	HotelID      uint       `json:"hotel_id" gorm:"not null;index"`
	Name         string     `json:"name" gorm:"size:120"`
	StartDate    *time.Time `json:"start_date" gorm:"type:date;index"`
	EndDate      *time.Time `json:"end_date" gorm:"type:date;index"`
	IsDraft      bool       `json:"is_draft" gorm:"not null;index"`
	AllowOverlap bool       `json:"allow_overlap" gorm:"not null;default:false"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	LastSavedAt  time.Time  `json:"last_saved_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Prices      []Price             `json:"prices" gorm:"foreignKey:BlockID"`
	Adjustments []ServiceAdjustment `json:"adjustments" gorm:"foreignKey:BlockID"`
	Services    []ServiceSelection  `json:"services" gorm:"foreignKey:BlockID"`
}

func (Block) TableName() string { return "season_blocks" }

type Price struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	BlockID    uint  `json:"block_id" gorm:"not null;uniqueIndex:idx_season_price"`
	RoomTypeID uint  `json:"room_type_id" gorm:"not null;uniqueIndex:idx_season_price"`
	BasePrice  int64 `json:"base_price" gorm:"not null"`
}

func (Price) TableName() string { return "season_prices" }

// ServiceAdjustment turns the base price of a room type into the price of a service plan.
type ServiceAdjustment struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	BlockID       uint           `json:"block_id" gorm:"not null;uniqueIndex:idx_season_adjustment"`
	RoomTypeID    uint           `json:"room_type_id" gorm:"not null;uniqueIndex:idx_season_adjustment"`
	ServiceTypeID uint           `json:"service_type_id" gorm:"not null;uniqueIndex:idx_season_adjustment"`
	Mode          AdjustmentMode `json:"mode" gorm:"size:16;not null"`
	Value         float64        `json:"value" gorm:"not null"`
}

func (ServiceAdjustment) TableName() string { return "season_service_adjustments" }

type ServiceSelection struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	BlockID       uint `json:"block_id" gorm:"not null;uniqueIndex:idx_block_service"`
	ServiceTypeID uint `json:"service_type_id" gorm:"not null;uniqueIndex:idx_block_service"`
	IsEnabled     bool `json:"is_enabled" gorm:"not null"`
}

func (ServiceSelection) TableName() string { return "block_service_selections" }

// HasRange reports whether both dates are set.
func (b *Block) HasRange() bool {
	return b.StartDate != nil && b.EndDate != nil
}

func (b *Block) Contains(date time.Time) bool {
	return b.HasRange() && dates.Contains(*b.StartDate, *b.EndDate, dates.Normalize(date))
}

func (b *Block) PriceFor(roomTypeID uint) (int64, bool) {
	for _, p := range b.Prices {
		if p.RoomTypeID == roomTypeID {
			return p.BasePrice, true
		}
	}
	return 0, false
}

func (b *Block) AdjustmentFor(roomTypeID, serviceTypeID uint) (ServiceAdjustment, bool) {
	for _, a := range b.Adjustments {
		if a.RoomTypeID == roomTypeID && a.ServiceTypeID == serviceTypeID {
			return a, true
		}
	}
	return ServiceAdjustment{}, false
}

// ServiceEnabled defaults to true when the block has no selection row for the service.
func (b *Block) ServiceEnabled(serviceTypeID uint) bool {
	for _, s := range b.Services {
		if s.ServiceTypeID == serviceTypeID {
			return s.IsEnabled
		}
	}
	return true
}

// Summary is how a block is reported inside a conflict.
type Summary struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

func (b *Block) Summary() Summary {
	s := Summary{ID: b.ID, Name: b.Name, ConfirmedAt: b.ConfirmedAt}
	if b.StartDate != nil {
		s.StartDate = dates.Format(*b.StartDate)
	}
	if b.EndDate != nil {
		s.EndDate = dates.Format(*b.EndDate)
	}
	return s
}

type OverlapResult struct {
	Overlaps          bool      `json:"overlaps"`
	ConflictingBlocks []Summary `json:"conflicting_blocks"`
}

func summaries(blocks []Block) []Summary {
	out := make([]Summary, 0, len(blocks))
	for i := range blocks {
		out = append(out, blocks[i].Summary())
	}
	return out
}
