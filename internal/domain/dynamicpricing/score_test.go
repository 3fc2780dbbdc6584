package dynamicpricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"hotelpms/internal/domain/calendar"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/pkg/dates"
)

type fakeOccupancy struct {
	rooms    int
	occupied int64
	fail     bool
}

func (f fakeOccupancy) ListRooms(ctx context.Context, hotelID uint, status inventory.RoomStatus) ([]inventory.Room, error) {
	if f.fail {
		return nil, errors.New("occupancy must not be read")
	}
	return make([]inventory.Room, f.rooms), nil
}

func (f fakeOccupancy) CountOccupiedRooms(ctx context.Context, hotelID uint, date time.Time) (int64, error) {
	return f.occupied, nil
}

type fakeHolidays map[string]bool

func (f fakeHolidays) Get(ctx context.Context, hotelID uint, date time.Time) (*calendar.Override, error) {
	if f[dates.Format(date)] {
		return &calendar.Override{IsHoliday: true}, nil
	}
	return nil, nil
}

type fakeIndices map[string]MarketIndex

func (f fakeIndices) Get(ctx context.Context, hotelID uint, date time.Time) (*MarketIndex, error) {
	if m, ok := f[dates.Format(date)]; ok {
		return &m, nil
	}
	return nil, nil
}

func (f fakeIndices) Upsert(ctx context.Context, indices []MarketIndex) error { return nil }

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	d, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func escalonado() *Config {
	cfg := DefaultConfig(1, 100)
	cfg.AnticipationMode = ModeEscalonado
	cfg.AnticipationSteps = datatypes.JSONSlice[Step]{
		{DaysThreshold: 21, Weight: 1.0},
		{DaysThreshold: 14, Weight: 0.7},
		{DaysThreshold: 7, Weight: 0.4},
		{DaysThreshold: 3, Weight: 0.2},
	}
	return cfg
}

func TestEscalonadoTenDaysOut(t *testing.T) {
	assert.Equal(t, 0.7, AnticipationFactor(escalonado(), 10))
}

func TestEscalonadoBoundaries(t *testing.T) {
	cfg := escalonado()
	cases := map[int]float64{
		-2: 0.2,
		0:  0.2,
		3:  0.2,
		4:  0.4,
		7:  0.4,
		8:  0.7,
		14: 0.7,
		15: 1.0,
		21: 1.0,
		22: 0,
	}
	for days, want := range cases {
		assert.Equal(t, want, AnticipationFactor(cfg, days), "days %d", days)
	}
}

func TestEscalonadoIgnoresStepOrder(t *testing.T) {
	cfg := escalonado()
	cfg.AnticipationSteps = datatypes.JSONSlice[Step]{
		{DaysThreshold: 7, Weight: 0.4},
		{DaysThreshold: 21, Weight: 1.0},
		{DaysThreshold: 3, Weight: 0.2},
		{DaysThreshold: 14, Weight: 0.7},
	}
	assert.Equal(t, 0.7, AnticipationFactor(cfg, 10))
}

func TestContinuo(t *testing.T) {
	cfg := DefaultConfig(1, 100)
	cfg.AnticipationMaxDays = 20
	assert.Equal(t, 1.0, AnticipationFactor(cfg, 0))
	assert.Equal(t, 0.5, AnticipationFactor(cfg, 10))
	assert.Equal(t, 0.0, AnticipationFactor(cfg, 20))
	assert.Equal(t, 0.0, AnticipationFactor(cfg, 45))
}

func newEngine(occ OccupancySource, holidays fakeHolidays, indices fakeIndices, now time.Time, loc *time.Location) *ScoreEngine {
	e := NewScoreEngine(occ, holidays, indices, loc)
	e.now = func() time.Time { return now }
	return e
}

func TestScoreBreakdown(t *testing.T) {
	cfg := DefaultConfig(1, 100)
	cfg.Enabled = true
	cfg.AnticipationMaxDays = 20

	e := newEngine(
		fakeOccupancy{rooms: 4, occupied: 1},
		fakeHolidays{"2026-01-11": true},
		fakeIndices{"2026-01-11": {Demand: ptr(0.9)}},
		time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), time.UTC,
	)

	s, err := e.Score(context.Background(), cfg, 1, day("2026-01-11"))
	require.NoError(t, err)
	assert.Equal(t, 10, s.DaysUntil)
	require.Len(t, s.Breakdown, 7)

	factors := map[string]float64{}
	for _, f := range s.Breakdown {
		factors[f.Name] = f.Factor
	}
	assert.InDelta(t, 0.25, factors[FactorOccupancy], 1e-9)
	assert.InDelta(t, 0.5, factors[FactorAnticipation], 1e-9)
	assert.InDelta(t, 0.0, factors[FactorWeekend], 1e-9) // Sunday
	assert.InDelta(t, 1.0, factors[FactorHoliday], 1e-9)
	assert.InDelta(t, 0.9, factors[FactorDemand], 1e-9)
	assert.InDelta(t, 0.5, factors[FactorWeather], 1e-9)
	assert.InDelta(t, 0.5, factors[FactorEvents], 1e-9)

	assert.InDelta(t, 0.465, s.Value, 1e-9)
}

func TestDisabledFactorsAreNotEvaluated(t *testing.T) {
	cfg := DefaultConfig(1, 100)
	cfg.Factors.Occupancy = false
	require.NoError(t, cfg.NormalizeWeights())
	require.NoError(t, cfg.Validate())

	e := newEngine(fakeOccupancy{fail: true}, fakeHolidays{}, fakeIndices{},
		time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), time.UTC)

	s, err := e.Score(context.Background(), cfg, 1, day("2026-01-09"))
	require.NoError(t, err)
	assert.False(t, s.Breakdown[0].Enabled)
	assert.Equal(t, 0.0, s.Breakdown[0].Contribution)
	assert.GreaterOrEqual(t, s.Value, 0.0)
	assert.LessOrEqual(t, s.Value, 1.0)
}

func TestDaysUntilUsesHotelTimezone(t *testing.T) {
	cfg := DefaultConfig(1, 100)
	loc := time.FixedZone("CLST", -3*60*60)
	// 02:00 UTC is still Dec 31 in the hotel
	e := newEngine(fakeOccupancy{}, fakeHolidays{}, fakeIndices{},
		time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC), loc)

	s, err := e.Score(context.Background(), cfg, 1, day("2026-01-11"))
	require.NoError(t, err)
	assert.Equal(t, 11, s.DaysUntil)
}

func TestNoRoomsMeansZeroOccupancy(t *testing.T) {
	cfg := DefaultConfig(1, 100)
	e := newEngine(fakeOccupancy{rooms: 0, occupied: 3}, fakeHolidays{}, fakeIndices{},
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC)

	s, err := e.Score(context.Background(), cfg, 1, day("2026-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Breakdown[0].Factor)
}
