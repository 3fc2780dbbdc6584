package calendar

import (
	"context"
	"fmt"
	"time"

	"hotelpms/internal/domain/events"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

// SetOverrideRequest is the body of PUT /calendar/:date.
type SetOverrideRequest struct {
	IsClosed   bool   `json:"is_closed"`
	IsHoliday  bool   `json:"is_holiday"`
	FixedPrice *int64 `json:"fixed_price"`
	Notes      string `json:"notes"`
}

type Service struct {
	repo   Repository
	events events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repo: repo, events: publisher}
}

// Get returns the override for date or nil.
func (s *Service) Get(ctx context.Context, hotelID uint, date time.Time) (*Override, error) {
	o, err := s.repo.Get(ctx, hotelID, dates.Normalize(date))
	if err != nil {
		return nil, fmt.Errorf("load calendar override %s: %w", dates.Format(date), err)
	}
	return o, nil
}

// ClosedDates lists the closed dates in [from, to).
func (s *Service) ClosedDates(ctx context.Context, hotelID uint, from, to time.Time) ([]time.Time, error) {
	overrides, err := s.repo.ListRange(ctx, hotelID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar overrides: %w", err)
	}
	var closed []time.Time
	for _, o := range overrides {
		if o.IsClosed {
			closed = append(closed, dates.Normalize(o.Date))
		}
	}
	return closed, nil
}

func (s *Service) List(ctx context.Context, hotelID uint, from, to time.Time) ([]Override, error) {
	if !from.Before(to) {
		return nil, apperr.Validation("from must be before to").With("to", "gtfield")
	}
	return s.repo.ListRange(ctx, hotelID, from, to)
}

func (s *Service) Set(ctx context.Context, hotelID uint, date time.Time, req SetOverrideRequest) (*Override, error) {
	if req.FixedPrice != nil && *req.FixedPrice <= 0 {
		return nil, apperr.Validation(ErrInvalidFixedPrice.Error()).With("fixed_price", "gt")
	}

	o := &Override{
		HotelID:    hotelID,
		Date:       dates.Normalize(date),
		IsClosed:   req.IsClosed,
		IsHoliday:  req.IsHoliday,
		FixedPrice: req.FixedPrice,
		Notes:      req.Notes,
	}
	if err := s.repo.Upsert(ctx, o); err != nil {
		return nil, fmt.Errorf("save calendar override: %w", err)
	}

	events.Publish(s.events, events.TypeCalendarOverrideSet, hotelID, o)
	return o, nil
}

func (s *Service) Remove(ctx context.Context, hotelID uint, date time.Time) error {
	removed, err := s.repo.Delete(ctx, hotelID, date)
	if err != nil {
		return fmt.Errorf("delete calendar override: %w", err)
	}
	if !removed {
		return fmt.Errorf("calendar override %s: %w", dates.Format(date), apperr.ErrNotFound)
	}

	events.Publish(s.events, events.TypeCalendarOverrideRemoved, hotelID, map[string]string{"date": dates.Format(date)})
	return nil
}
