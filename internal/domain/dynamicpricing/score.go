package dynamicpricing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hotelpms/internal/domain/calendar"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/pkg/dates"
)

const neutralIndex = 0.5

type OccupancySource interface {
	ListRooms(ctx context.Context, hotelID uint, status inventory.RoomStatus) ([]inventory.Room, error)
	CountOccupiedRooms(ctx context.Context, hotelID uint, date time.Time) (int64, error)
}

type HolidaySource interface {
	Get(ctx context.Context, hotelID uint, date time.Time) (*calendar.Override, error)
}

// ScoreEngine blends the seven factors into one demand score.
type ScoreEngine struct {
	occupancy OccupancySource
	holidays  HolidaySource
	indices   IndexRepository
	loc       *time.Location
	now       func() time.Time
}

func NewScoreEngine(occupancy OccupancySource, holidays HolidaySource, indices IndexRepository, loc *time.Location) *ScoreEngine {
	if loc == nil {
		loc = time.UTC
	}
	return &ScoreEngine{
		occupancy: occupancy,
		holidays:  holidays,
		indices:   indices,
		loc:       loc,
		now:       time.Now,
	}
}

// Score computes the weighted sum over enabled factors, clamped to [0,1]. Disabled
// factors are reported in the breakdown with no contribution and are not evaluated.
func (e *ScoreEngine) Score(ctx context.Context, cfg *Config, hotelID uint, date time.Time) (Score, error) {
	date = dates.Normalize(date)
	daysUntil := dates.DaysBetween(dates.Today(e.now(), e.loc), date)

	var (
		index     *MarketIndex
		indexRead bool
	)
	marketValue := func(pick func(*MarketIndex) *float64) (float64, error) {
		if !indexRead {
			var err error
			if index, err = e.indices.Get(ctx, hotelID, date); err != nil {
				return 0, fmt.Errorf("load market indices: %w", err)
			}
			indexRead = true
		}
		if index == nil {
			return neutralIndex, nil
		}
		if v := pick(index); v != nil {
			return clamp(*v, 0, 1), nil
		}
		return neutralIndex, nil
	}

	out := Score{Date: dates.Format(date), DaysUntil: daysUntil}
	total := 0.0
	for _, f := range cfg.factors() {
		fs := FactorScore{Name: f.name, Enabled: f.enabled, Weight: f.weight}
		if f.enabled {
			var (
				v   float64
				err error
			)
			switch f.name {
			case FactorOccupancy:
				v, err = e.occupancyFactor(ctx, hotelID, date)
			case FactorAnticipation:
				v = AnticipationFactor(cfg, daysUntil)
			case FactorWeekend:
				v = weekendFactor(cfg, date)
			case FactorHoliday:
				v, err = e.holidayFactor(ctx, hotelID, date)
			case FactorDemand:
				v, err = marketValue(func(m *MarketIndex) *float64 { return m.Demand })
			case FactorWeather:
				v, err = marketValue(func(m *MarketIndex) *float64 { return m.Weather })
			case FactorEvents:
				v, err = marketValue(func(m *MarketIndex) *float64 { return m.Events })
			}
			if err != nil {
				return Score{}, err
			}
			fs.Factor = v
			fs.Contribution = f.weight * v
			total += fs.Contribution
		}
		out.Breakdown = append(out.Breakdown, fs)
	}
	out.Value = clamp(total, 0, 1)
	return out, nil
}

// occupancyFactor is the share of sellable rooms holding an active reservation on date.
func (e *ScoreEngine) occupancyFactor(ctx context.Context, hotelID uint, date time.Time) (float64, error) {
	rooms, err := e.occupancy.ListRooms(ctx, hotelID, inventory.RoomAvailable)
	if err != nil {
		return 0, fmt.Errorf("list rooms: %w", err)
	}
	if len(rooms) == 0 {
		return 0, nil
	}
	occupied, err := e.occupancy.CountOccupiedRooms(ctx, hotelID, date)
	if err != nil {
		return 0, fmt.Errorf("count occupied rooms: %w", err)
	}
	return clamp(float64(occupied)/float64(len(rooms)), 0, 1), nil
}

func (e *ScoreEngine) holidayFactor(ctx context.Context, hotelID uint, date time.Time) (float64, error) {
	o, err := e.holidays.Get(ctx, hotelID, date)
	if err != nil {
		return 0, err
	}
	if o != nil && o.IsHoliday {
		return 1, nil
	}
	return 0, nil
}

// AnticipationFactor maps days until the date onto [0,1].
//
// CONTINUO: 1 - days/maxDays, clamped.
// ESCALONADO: steps are scanned from the smallest threshold up and the first step
// with daysUntil <= threshold gives the weight; past the largest threshold the
// factor is 0. With steps 21/14/7/3 a date 10 days out falls in the 14-day step.
func AnticipationFactor(cfg *Config, daysUntil int) float64 {
	if daysUntil < 0 {
		daysUntil = 0
	}
	switch cfg.AnticipationMode {
	case ModeEscalonado:
		steps := append([]Step(nil), cfg.AnticipationSteps...)
		sort.Slice(steps, func(i, j int) bool { return steps[i].DaysThreshold < steps[j].DaysThreshold })
		for _, s := range steps {
			if daysUntil <= s.DaysThreshold {
				return clamp(s.Weight, 0, 1)
			}
		}
		return 0
	default:
		if cfg.AnticipationMaxDays <= 0 {
			return 0
		}
		return clamp(1-float64(daysUntil)/float64(cfg.AnticipationMaxDays), 0, 1)
	}
}

func weekendFactor(cfg *Config, date time.Time) float64 {
	wd := int(date.Weekday())
	for _, d := range cfg.WeekendDays {
		if d == wd {
			return 1
		}
	}
	return 0
}
