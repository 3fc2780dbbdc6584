package events

import "time"

const (
	TypeCalendarOverrideSet     = "calendar.override_set"
	TypeCalendarOverrideRemoved = "calendar.override_removed"
	TypeSeasonBlockSaved        = "season.block_saved"
	TypeSeasonBlockConfirmed    = "season.block_confirmed"
	TypeSeasonBlockDeleted      = "season.block_deleted"
	TypeDynamicPricingUpdated   = "dynamic_pricing.config_updated"
	TypeSeasonalCurveUpdated    = "seasonal_curve.updated"
)

// Event is what calendar screens receive when pricing inputs change.
type Event struct {
	Type    string    `json:"type"`
	HotelID uint      `json:"hotel_id"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher is implemented by Hub. Services accept a nil Publisher.
type Publisher interface {
	Publish(e Event)
}

// Publish is a nil-safe helper for services.
func Publish(p Publisher, eventType string, hotelID uint, payload any) {
	if p == nil {
		return
	}
	p.Publish(Event{Type: eventType, HotelID: hotelID, Payload: payload, At: time.Now().UTC()})
}
