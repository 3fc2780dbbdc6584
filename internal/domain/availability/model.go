package availability

import (
	"time"

	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/tariff"
)

// StayRequest describes what the guest needs. ServiceTypeID, when set, asks for a
// price quote of every returned option under that service plan.
type StayRequest struct {
	CheckIn             time.Time
	CheckOut            time.Time
	RequiredGuests      int
	RequiredTags        []string
	RequiredRoomID      *uint
	IncludeAlternatives bool
	ServiceTypeID       *uint
}

type RoomOption struct {
	Room       inventory.Room `json:"room"`
	TagScore   float64        `json:"tag_score"`
	Quote      *tariff.Quote  `json:"quote,omitempty"`
	QuoteError string         `json:"quote_error,omitempty"`
}

type Combination struct {
	Rooms         []inventory.Room `json:"rooms"`
	TotalCapacity int              `json:"total_capacity"`
	TagScore      float64          `json:"tag_score"`
	TotalPrice    *int64           `json:"total_price,omitempty"`
}

func (c Combination) RoomIDs() []uint {
	ids := make([]uint, len(c.Rooms))
	for i, r := range c.Rooms {
		ids[i] = r.ID
	}
	return ids
}

// Result is empty, not an error, when nothing fits. SearchComplete is false when the
// combination search was cut short and AlternativeCombinations may be partial.
type Result struct {
	ExactCapacityRooms      []RoomOption  `json:"exact_capacity_rooms"`
	LargerCapacityRooms     []RoomOption  `json:"larger_capacity_rooms"`
	AlternativeCombinations []Combination `json:"alternative_combinations"`
	SearchComplete          bool          `json:"search_complete"`
	ClosedDates             []string      `json:"closed_dates,omitempty"`
}

func (r *Result) Empty() bool {
	return len(r.ExactCapacityRooms) == 0 && len(r.LargerCapacityRooms) == 0 && len(r.AlternativeCombinations) == 0
}

func emptyResult() *Result {
	return &Result{
		ExactCapacityRooms:      []RoomOption{},
		LargerCapacityRooms:     []RoomOption{},
		AlternativeCombinations: []Combination{},
		SearchComplete:          true,
	}
}
