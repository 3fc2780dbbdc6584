package tariff

import (
	"errors"
	"fmt"
	"time"

	"hotelpms/internal/pkg/dates"
)

var (
	ErrServiceNotOffered = errors.New("service plan is not offered on this date")
	ErrUnknownService    = errors.New("unknown service plan")
)

type DateClosedError struct {
	Date time.Time
}

func (e *DateClosedError) Error() string {
	return fmt.Sprintf("date %s is closed", dates.Format(e.Date))
}

// NoPriceDataError means the hotel has not configured a price for the date.
type NoPriceDataError struct {
	Date          time.Time
	RoomTypeID    uint
	ServiceTypeID uint
	Reason        string
}

func (e *NoPriceDataError) Error() string {
	return fmt.Sprintf("no price data for %s (room type %d, service %d): %s",
		dates.Format(e.Date), e.RoomTypeID, e.ServiceTypeID, e.Reason)
}
