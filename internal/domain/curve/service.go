package curve

import (
	"context"
	"fmt"
	"time"

	"hotelpms/internal/domain/events"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

type KeyframeInput struct {
	Date  string `json:"date" binding:"required"`
	Value int64  `json:"value"`
}

type ReplaceRequest struct {
	Keyframes []KeyframeInput `json:"keyframes"`
}

type Service struct {
	repo   Repository
	events events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repo: repo, events: publisher}
}

// Load returns the hotel's curve, possibly empty.
func (s *Service) Load(ctx context.Context, hotelID uint) (Curve, error) {
	keyframes, err := s.repo.List(ctx, hotelID)
	if err != nil {
		return Curve{}, fmt.Errorf("load seasonal curve: %w", err)
	}
	return New(keyframes), nil
}

// PriceAt is a convenience wrapper over Load + Curve.PriceAt.
func (s *Service) PriceAt(ctx context.Context, hotelID uint, date time.Time) (float64, bool, error) {
	c, err := s.Load(ctx, hotelID)
	if err != nil {
		return 0, false, err
	}
	v, ok := c.PriceAt(date)
	return v, ok, nil
}

// Replace validates and stores a full set of keyframes.
func (s *Service) Replace(ctx context.Context, hotelID uint, req ReplaceRequest) (Curve, error) {
	verr := apperr.Validation("invalid seasonal curve")
	seen := make(map[time.Time]bool, len(req.Keyframes))
	keyframes := make([]Keyframe, 0, len(req.Keyframes))
	for i, in := range req.Keyframes {
		field := fmt.Sprintf("keyframes[%d]", i)
		d, err := dates.Parse(in.Date)
		if err != nil {
			verr.With(field+".date", "date")
			continue
		}
		if seen[d] {
			verr.With(field+".date", ErrDuplicateDate.Error())
			continue
		}
		if in.Value < 0 {
			verr.With(field+".value", ErrNegativeValue.Error())
			continue
		}
		seen[d] = true
		keyframes = append(keyframes, Keyframe{HotelID: hotelID, Date: d, Value: in.Value})
	}
	if err := verr.OrNil(); err != nil {
		return Curve{}, err
	}

	c := New(keyframes)
	if err := s.repo.ReplaceAll(ctx, hotelID, c.Keyframes()); err != nil {
		return Curve{}, fmt.Errorf("save seasonal curve: %w", err)
	}
	events.Publish(s.events, events.TypeSeasonalCurveUpdated, hotelID, map[string]int{"keyframes": len(keyframes)})
	return c, nil
}
