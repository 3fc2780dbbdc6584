package dynamicpricing

import (
	"time"

	"gorm.io/datatypes"
)

type AnticipationMode string

const (
	ModeEscalonado AnticipationMode = "ESCALONADO"
	ModeContinuo   AnticipationMode = "CONTINUO"
)

const (
	FactorOccupancy    = "occupancy"
	FactorAnticipation = "anticipation"
	FactorWeekend      = "weekend"
	FactorHoliday      = "holiday"
	FactorDemand       = "demand"
	FactorWeather      = "weather"
	FactorEvents       = "events"
)

// Weights of the seven score factors. Active weights sum to 1.
type Weights struct {
	Occupancy    float64 `json:"occupancy" validate:"gte=0,lte=1"`
	Anticipation float64 `json:"anticipation" validate:"gte=0,lte=1"`
	Weekend      float64 `json:"weekend" validate:"gte=0,lte=1"`
	Holiday      float64 `json:"holiday" validate:"gte=0,lte=1"`
	Demand       float64 `json:"demand" validate:"gte=0,lte=1"`
	Weather      float64 `json:"weather" validate:"gte=0,lte=1"`
	Events       float64 `json:"events" validate:"gte=0,lte=1"`
}

// Factors switches individual score factors on or off.
type Factors struct {
	Occupancy    bool `json:"occupancy"`
	Anticipation bool `json:"anticipation"`
	Weekend      bool `json:"weekend"`
	Holiday      bool `json:"holiday"`
	Demand       bool `json:"demand"`
	Weather      bool `json:"weather"`
	Events       bool `json:"events"`
}

// Step is one ESCALONADO anticipation bucket.
type Step struct {
	DaysThreshold int     `json:"days_threshold" validate:"gte=0"`
	Weight        float64 `json:"weight" validate:"gte=0,lte=1"`
}

type Config struct {
	ID      uint `json:"-" gorm:"primaryKey"`
	HotelID uint `json:"hotel_id" gorm:"not null;uniqueIndex"`
	Enabled bool `json:"enabled" gorm:"not null"`

	Weights Weights `json:"weights" gorm:"embedded;embeddedPrefix:weight_"`
	Factors Factors `json:"factors" gorm:"embedded;embeddedPrefix:use_"`

	MaxAdjustmentPercentage float64 `json:"max_adjustment_percentage" validate:"gt=0,lte=100"`
	// MinimumRate is the floor of an adjusted rate, in minor units.
	MinimumRate int64 `json:"minimum_rate" validate:"gte=1"`

	AnticipationMode    AnticipationMode          `json:"anticipation_mode" gorm:"size:16" validate:"required,oneof=ESCALONADO CONTINUO"`
	AnticipationMaxDays int                       `json:"anticipation_max_days" validate:"gte=0"`
	AnticipationSteps   datatypes.JSONSlice[Step] `json:"anticipation_steps" validate:"dive"`
	WeekendDays         datatypes.JSONSlice[int]  `json:"weekend_days" validate:"dive,gte=0,lte=6"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (Config) TableName() string { return "dynamic_pricing_configs" }

// MarketIndex carries externally supplied indices for one date. Missing values
// count as neutral.
type MarketIndex struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	HotelID   uint      `json:"hotel_id" gorm:"not null;uniqueIndex:idx_market_index_day"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_market_index_day"`
	Demand    *float64  `json:"demand"`
	Weather   *float64  `json:"weather"`
	Events    *float64  `json:"events"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MarketIndex) TableName() string { return "market_indices" }

type FactorScore struct {
	Name         string  `json:"name"`
	Enabled      bool    `json:"enabled"`
	Weight       float64 `json:"weight"`
	Factor       float64 `json:"factor"`
	Contribution float64 `json:"contribution"`
}

type Score struct {
	Date      string        `json:"date"`
	DaysUntil int           `json:"days_until"`
	Value     float64       `json:"value"`
	Breakdown []FactorScore `json:"breakdown"`
}
