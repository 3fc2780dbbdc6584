package tariff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/domain/calendar"
	"hotelpms/internal/domain/curve"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/season"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

const (
	doble      uint = 1
	single     uint = 2
	solo       uint = 10
	desayuno   uint = 11
	mediaPens  uint = 12
	pensionCom uint = 13
)

type fakeOverrides map[string]*calendar.Override

func (f fakeOverrides) Get(ctx context.Context, hotelID uint, date time.Time) (*calendar.Override, error) {
	return f[dates.Format(date)], nil
}

type fakeSeasons []season.Block

func (f fakeSeasons) Resolve(ctx context.Context, hotelID uint, date time.Time) (*season.Block, error) {
	for i := range f {
		if f[i].Contains(date) {
			return &f[i], nil
		}
	}
	return nil, nil
}

type fakeCurves struct{ keyframes []curve.Keyframe }

func (f fakeCurves) Load(ctx context.Context, hotelID uint) (curve.Curve, error) {
	return curve.New(f.keyframes), nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetRoomType(ctx context.Context, id uint) (*inventory.RoomType, error) {
	switch id {
	case doble:
		return &inventory.RoomType{ID: doble, HotelID: 1, Name: "Doble", PriceCoefficient: 1.25}, nil
	case single:
		return &inventory.RoomType{ID: single, HotelID: 1, Name: "Single", PriceCoefficient: 0.8}, nil
	}
	return nil, apperr.ErrNotFound
}

func (fakeCatalog) ListServiceTypes(ctx context.Context, hotelID uint) ([]inventory.ServiceType, error) {
	return []inventory.ServiceType{
		{ID: solo, HotelID: 1, Name: "Solo Alojamiento", IsBase: true},
		{ID: desayuno, HotelID: 1, Name: "Con Desayuno", Position: 1},
		{ID: mediaPens, HotelID: 1, Name: "Media Pensión", ParentID: ptr(desayuno), Position: 2},
		{ID: pensionCom, HotelID: 1, Name: "Pensión Completa", ParentID: ptr(mediaPens), Position: 3},
	}, nil
}

type fakeMealRules []MealRule

func (f fakeMealRules) List(ctx context.Context, hotelID uint) ([]MealRule, error) { return f, nil }
func (f fakeMealRules) Upsert(ctx context.Context, rule *MealRule) error         { return nil }

type mockDynamic struct{ mock.Mock }

func (m *mockDynamic) Apply(ctx context.Context, hotelID uint, date time.Time, rate int64) (int64, error) {
	args := m.Called(hotelID, date, rate)
	return args.Get(0).(int64), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	d, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func verano() season.Block {
	return season.Block{
		ID:        7,
		HotelID:   1,
		Name:      "Verano",
		StartDate: ptr(day("2026-01-01")),
		EndDate:   ptr(day("2026-03-01")),
		Prices: []season.Price{
			{RoomTypeID: doble, BasePrice: 50000},
			{RoomTypeID: single, BasePrice: 35000},
		},
		Adjustments: []season.ServiceAdjustment{
			{RoomTypeID: doble, ServiceTypeID: desayuno, Mode: season.ModePercentage, Value: 15},
			{RoomTypeID: doble, ServiceTypeID: mediaPens, Mode: season.ModeFixed, Value: 8000},
		},
	}
}

func newCalculator(overrides fakeOverrides, blocks fakeSeasons, rules fakeMealRules, dynamic DynamicPricer) *Calculator {
	return NewCalculator(Dependencies{
		Overrides: overrides,
		Seasons:   blocks,
		Curves: fakeCurves{keyframes: []curve.Keyframe{
			{Date: day("2026-04-01"), Value: 40000},
			{Date: day("2026-04-11"), Value: 60000},
		}},
		Catalog:   fakeCatalog{},
		MealRules: rules,
		Dynamic:   dynamic,
	})
}

func TestVeranoBreakfastRate(t *testing.T) {
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, nil)

	r, err := calc.NightlyRateForType(context.Background(), 1, doble, desayuno, day("2026-01-20"))
	require.NoError(t, err)
	assert.Equal(t, int64(57500), r.Rate)
	assert.Equal(t, int64(50000), r.BasePrice)
	assert.Equal(t, SourceSeasonBlock, r.Source)
	require.NotNil(t, r.SeasonBlockID)
	assert.Equal(t, uint(7), *r.SeasonBlockID)
}

func TestBaseServiceIsUnmodifiedBasePrice(t *testing.T) {
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, nil)

	for _, svc := range []uint{0, solo} {
		r, err := calc.NightlyRateForType(context.Background(), 1, doble, svc, day("2026-01-20"))
		require.NoError(t, err)
		assert.Equal(t, int64(50000), r.Rate)
		assert.Equal(t, solo, r.ServiceTypeID)
	}
}

func TestChainedServicesApplyRootFirst(t *testing.T) {
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, nil)

	r, err := calc.NightlyRateForType(context.Background(), 1, doble, mediaPens, day("2026-02-01"))
	require.NoError(t, err)
	// 50000 * 1.15 + 8000
	assert.Equal(t, int64(65500), r.Rate)
}

func TestMealRuleFallback(t *testing.T) {
	rules := fakeMealRules{
		{HotelID: 1, ServiceTypeID: desayuno, Mode: season.ModeFixed, Value: 5000},
		{HotelID: 1, ServiceTypeID: mediaPens, Mode: season.ModePercentage, Value: 10},
	}
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, rules, nil)

	// single has no block adjustments
	r, err := calc.NightlyRateForType(context.Background(), 1, single, mediaPens, day("2026-02-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(44000), r.Rate)

	// block adjustment wins over the rule
	r, err = calc.NightlyRateForType(context.Background(), 1, doble, desayuno, day("2026-02-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(57500), r.Rate)
}

func TestMissingAdjustmentIsNoPriceData(t *testing.T) {
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, nil)

	_, err := calc.NightlyRateForType(context.Background(), 1, doble, pensionCom, day("2026-02-01"))
	var noData *NoPriceDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, pensionCom, noData.ServiceTypeID)
}

func TestCurvePathUsesCoefficient(t *testing.T) {
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, nil)

	r, err := calc.NightlyRateForType(context.Background(), 1, doble, 0, day("2026-04-06"))
	require.NoError(t, err)
	assert.Equal(t, SourceSeasonalCurve, r.Source)
	// 50000 * 1.25
	assert.Equal(t, int64(62500), r.Rate)
	assert.Nil(t, r.SeasonBlockID)
}

func TestNoSeasonNoCurveIsNoPriceData(t *testing.T) {
	calc := NewCalculator(Dependencies{
		Overrides: fakeOverrides{},
		Seasons:   fakeSeasons{},
		Curves:    fakeCurves{},
		Catalog:   fakeCatalog{},
	})

	_, err := calc.NightlyRateForType(context.Background(), 1, doble, 0, day("2026-04-06"))
	var noData *NoPriceDataError
	assert.ErrorAs(t, err, &noData)
}

func TestFixedPriceOverridesEverything(t *testing.T) {
	dyn := &mockDynamic{}
	overrides := fakeOverrides{"2026-01-20": {Date: day("2026-01-20"), FixedPrice: ptr(int64(99000))}}
	calc := newCalculator(overrides, fakeSeasons{verano()}, nil, dyn)

	for _, rt := range []uint{doble, single} {
		for _, svc := range []uint{solo, desayuno, mediaPens} {
			r, err := calc.NightlyRateForType(context.Background(), 1, rt, svc, day("2026-01-20"))
			require.NoError(t, err)
			assert.Equal(t, int64(99000), r.Rate)
			assert.Equal(t, SourceFixedPrice, r.Source)
		}
	}
	dyn.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestClosedDateFailsEvenWithFixedPrice(t *testing.T) {
	overrides := fakeOverrides{"2026-01-20": {IsClosed: true, FixedPrice: ptr(int64(99000))}}
	calc := newCalculator(overrides, fakeSeasons{verano()}, nil, nil)

	_, err := calc.NightlyRateForType(context.Background(), 1, doble, 0, day("2026-01-20"))
	var closed *DateClosedError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, "2026-01-20", dates.Format(closed.Date))
}

func TestDisabledServiceIsNotOffered(t *testing.T) {
	b := verano()
	b.Services = []season.ServiceSelection{{ServiceTypeID: desayuno, IsEnabled: false}}
	calc := newCalculator(fakeOverrides{}, fakeSeasons{b}, nil, nil)

	_, err := calc.NightlyRateForType(context.Background(), 1, doble, desayuno, day("2026-01-20"))
	assert.True(t, errors.Is(err, ErrServiceNotOffered))
}

func TestDynamicPricingAppliedToComputedRate(t *testing.T) {
	dyn := &mockDynamic{}
	dyn.On("Apply", uint(1), day("2026-01-20"), int64(57500)).Return(int64(60000), nil)
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, dyn)

	r, err := calc.NightlyRateForType(context.Background(), 1, doble, desayuno, day("2026-01-20"))
	require.NoError(t, err)
	assert.Equal(t, int64(57500), r.ServicePrice)
	assert.Equal(t, int64(60000), r.Rate)
	dyn.AssertExpectations(t)
}

func TestStayQuoteIsChronologicalAndSummed(t *testing.T) {
	overrides := fakeOverrides{"2026-02-28": {FixedPrice: ptr(int64(10000))}}
	calc := newCalculator(overrides, fakeSeasons{verano()}, nil, nil)

	q, err := calc.StayQuote(context.Background(), 1, doble, 0, day("2026-02-27"), day("2026-03-02"))
	require.NoError(t, err)
	require.Equal(t, 3, q.NightCount())
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01"},
		[]string{q.Nights[0].Date, q.Nights[1].Date, q.Nights[2].Date})
	assert.Equal(t, SourceSeasonalCurve, q.Nights[2].Source)
	// 50000 + 10000 + 40000*1.25
	assert.Equal(t, int64(110000), q.Total)
}

func TestStayQuoteAbortsOnAnyFailingNight(t *testing.T) {
	overrides := fakeOverrides{"2026-01-21": {IsClosed: true}}
	calc := newCalculator(overrides, fakeSeasons{verano()}, nil, nil)

	q, err := calc.StayQuote(context.Background(), 1, doble, 0, day("2026-01-20"), day("2026-01-23"))
	assert.Nil(t, q)
	var closed *DateClosedError
	assert.ErrorAs(t, err, &closed)
}

func TestStayQuoteValidatesRange(t *testing.T) {
	calc := newCalculator(fakeOverrides{}, fakeSeasons{verano()}, nil, nil)

	_, err := calc.StayQuote(context.Background(), 1, doble, 0, day("2026-01-20"), day("2026-01-20"))
	assert.True(t, apperr.IsValidation(err))

	_, err = calc.StayQuote(context.Background(), 2, doble, 0, day("2026-01-20"), day("2026-01-21"))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
