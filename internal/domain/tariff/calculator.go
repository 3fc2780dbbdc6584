package tariff

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hotelpms/internal/domain/calendar"
	"hotelpms/internal/domain/curve"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/season"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/money"
)

type OverrideSource interface {
	Get(ctx context.Context, hotelID uint, date time.Time) (*calendar.Override, error)
}

type BlockResolver interface {
	Resolve(ctx context.Context, hotelID uint, date time.Time) (*season.Block, error)
}

type CurveSource interface {
	Load(ctx context.Context, hotelID uint) (curve.Curve, error)
}

type Catalog interface {
	GetRoomType(ctx context.Context, id uint) (*inventory.RoomType, error)
	ListServiceTypes(ctx context.Context, hotelID uint) ([]inventory.ServiceType, error)
}

// DynamicPricer applies demand-based adjustment to a computed nightly rate.
type DynamicPricer interface {
	Apply(ctx context.Context, hotelID uint, date time.Time, rate int64) (int64, error)
}

type Dependencies struct {
	Overrides OverrideSource
	Seasons   BlockResolver
	Curves    CurveSource
	Catalog   Catalog
	MealRules MealRuleRepository
	// Dynamic may be nil, in which case rates are not adjusted.
	Dynamic DynamicPricer
}

type Calculator struct {
	deps        Dependencies
	parallelism int
}

func NewCalculator(deps Dependencies) *Calculator {
	return &Calculator{deps: deps, parallelism: 8}
}

// plan holds what stays constant across the nights of one quote.
type plan struct {
	hotelID  uint
	roomType *inventory.RoomType
	target   inventory.ServiceType
	// chain lists the non-base services to apply, root first.
	chain []inventory.ServiceType

	rulesOnce sync.Once
	rules     map[uint]MealRule
	rulesErr  error

	curveOnce sync.Once
	curve     curve.Curve
	curveErr  error
}

// NightlyRate prices one night of room under the given service plan
// (0 selects the base service).
func (c *Calculator) NightlyRate(ctx context.Context, room *inventory.Room, serviceTypeID uint, date time.Time) (NightlyRate, error) {
	return c.NightlyRateForType(ctx, room.HotelID, room.RoomTypeID, serviceTypeID, date)
}

func (c *Calculator) NightlyRateForType(ctx context.Context, hotelID, roomTypeID, serviceTypeID uint, date time.Time) (NightlyRate, error) {
	p, err := c.prepare(ctx, hotelID, roomTypeID, serviceTypeID)
	if err != nil {
		return NightlyRate{}, err
	}
	return c.rate(ctx, p, dates.Normalize(date))
}

// StayQuote prices every night of [checkIn, checkOut). Nights are computed
// concurrently; any failing night fails the whole quote.
func (c *Calculator) StayQuote(ctx context.Context, hotelID, roomTypeID, serviceTypeID uint, checkIn, checkOut time.Time) (*Quote, error) {
	checkIn, checkOut = dates.Normalize(checkIn), dates.Normalize(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, apperr.Validation("check-in must be before check-out").With("checkOut", "gtfield")
	}

	p, err := c.prepare(ctx, hotelID, roomTypeID, serviceTypeID)
	if err != nil {
		return nil, err
	}

	nights := dates.Nights(checkIn, checkOut)
	rates := make([]NightlyRate, len(nights))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, night := range nights {
		g.Go(func() error {
			r, err := c.rate(gctx, p, night)
			if err != nil {
				return err
			}
			rates[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := &Quote{
		RoomTypeID:    roomTypeID,
		ServiceTypeID: p.target.ID,
		CheckIn:       dates.Format(checkIn),
		CheckOut:      dates.Format(checkOut),
		Nights:        rates,
	}
	for _, r := range rates {
		q.Total += r.Rate
	}
	return q, nil
}

func (c *Calculator) prepare(ctx context.Context, hotelID, roomTypeID, serviceTypeID uint) (*plan, error) {
	rt, err := c.deps.Catalog.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if rt.HotelID != hotelID {
		return nil, fmt.Errorf("room type %d: %w", roomTypeID, apperr.ErrNotFound)
	}

	services, err := c.deps.Catalog.ListServiceTypes(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	target, chain, err := serviceChain(services, serviceTypeID)
	if err != nil {
		return nil, err
	}
	return &plan{hotelID: hotelID, roomType: rt, target: target, chain: chain}, nil
}

// serviceChain resolves the requested service and the non-base services it builds
// on, root first. serviceTypeID 0 selects the base service.
func serviceChain(services []inventory.ServiceType, serviceTypeID uint) (inventory.ServiceType, []inventory.ServiceType, error) {
	byID := make(map[uint]inventory.ServiceType, len(services))
	var base *inventory.ServiceType
	for i := range services {
		byID[services[i].ID] = services[i]
		if services[i].IsBase && base == nil {
			base = &services[i]
		}
	}

	if serviceTypeID == 0 {
		if base == nil {
			return inventory.ServiceType{}, nil, apperr.Validation(ErrUnknownService.Error()).With("servicePlan", "base_missing")
		}
		return *base, nil, nil
	}

	target, ok := byID[serviceTypeID]
	if !ok {
		return inventory.ServiceType{}, nil, apperr.Validation(ErrUnknownService.Error()).With("servicePlan", "exists")
	}

	var chain []inventory.ServiceType
	seen := map[uint]bool{}
	for cur, ok := target, true; ok && !cur.IsBase; {
		if seen[cur.ID] {
			return inventory.ServiceType{}, nil, fmt.Errorf("service type %d: parent cycle", cur.ID)
		}
		seen[cur.ID] = true
		chain = append([]inventory.ServiceType{cur}, chain...)
		if cur.ParentID == nil {
			break
		}
		cur, ok = byID[*cur.ParentID]
	}
	return target, chain, nil
}

func (c *Calculator) rate(ctx context.Context, p *plan, date time.Time) (NightlyRate, error) {
	out := NightlyRate{Date: dates.Format(date), RoomTypeID: p.roomType.ID, ServiceTypeID: p.target.ID}

	override, err := c.deps.Overrides.Get(ctx, p.hotelID, date)
	if err != nil {
		return NightlyRate{}, err
	}
	if override != nil && override.IsClosed {
		return NightlyRate{}, &DateClosedError{Date: date}
	}
	if override.HasFixedPrice() {
		out.Source = SourceFixedPrice
		out.BasePrice, out.ServicePrice, out.Rate = *override.FixedPrice, *override.FixedPrice, *override.FixedPrice
		return out, nil
	}

	noData := func(reason string) error {
		return &NoPriceDataError{Date: date, RoomTypeID: p.roomType.ID, ServiceTypeID: p.target.ID, Reason: reason}
	}

	block, err := c.deps.Seasons.Resolve(ctx, p.hotelID, date)
	if err != nil {
		return NightlyRate{}, err
	}
	if block != nil {
		base, ok := block.PriceFor(p.roomType.ID)
		if !ok {
			return NightlyRate{}, noData(fmt.Sprintf("season block %q has no price for the room type", block.Name))
		}
		if !p.target.IsBase && !block.ServiceEnabled(p.target.ID) {
			return NightlyRate{}, fmt.Errorf("%s on %s: %w", p.target.Name, out.Date, ErrServiceNotOffered)
		}
		out.Source = SourceSeasonBlock
		out.SeasonBlockID = &block.ID
		out.BasePrice = base
	} else {
		cv, err := p.loadCurve(ctx, c.deps.Curves)
		if err != nil {
			return NightlyRate{}, err
		}
		v, ok := cv.PriceAt(date)
		if !ok {
			return NightlyRate{}, noData("no season block and no seasonal curve")
		}
		out.Source = SourceSeasonalCurve
		out.BasePrice = money.ScaleFloat(v, p.roomType.PriceCoefficient)
	}

	price := out.BasePrice
	for _, svc := range p.chain {
		mode, value, ok := season.AdjustmentMode(""), 0.0, false
		if block != nil {
			if a, found := block.AdjustmentFor(p.roomType.ID, svc.ID); found {
				mode, value, ok = a.Mode, a.Value, true
			}
		}
		if !ok {
			rules, err := p.loadRules(ctx, c.deps.MealRules)
			if err != nil {
				return NightlyRate{}, err
			}
			if r, found := rules[svc.ID]; found {
				mode, value, ok = r.Mode, r.Value, true
			}
		}
		if !ok {
			return NightlyRate{}, noData(fmt.Sprintf("no adjustment for service %q", svc.Name))
		}
		price = applyAdjustment(price, mode, value)
	}
	out.ServicePrice = price
	out.Rate = price

	if c.deps.Dynamic != nil {
		adjusted, err := c.deps.Dynamic.Apply(ctx, p.hotelID, date, price)
		if err != nil {
			return NightlyRate{}, fmt.Errorf("dynamic pricing: %w", err)
		}
		out.Rate = adjusted
	}
	return out, nil
}

func applyAdjustment(price int64, mode season.AdjustmentMode, value float64) int64 {
	if mode == season.ModePercentage {
		return money.ApplyPercent(price, value)
	}
	return money.AddFixed(price, value)
}

func (p *plan) loadCurve(ctx context.Context, src CurveSource) (curve.Curve, error) {
	p.curveOnce.Do(func() {
		p.curve, p.curveErr = src.Load(ctx, p.hotelID)
	})
	return p.curve, p.curveErr
}

func (p *plan) loadRules(ctx context.Context, repo MealRuleRepository) (map[uint]MealRule, error) {
	p.rulesOnce.Do(func() {
		p.rules = map[uint]MealRule{}
		if repo == nil {
			return
		}
		rules, err := repo.List(ctx, p.hotelID)
		if err != nil {
			p.rulesErr = fmt.Errorf("list meal rules: %w", err)
			return
		}
		for _, r := range rules {
			p.rules[r.ServiceTypeID] = r
		}
	})
	return p.rules, p.rulesErr
}

// IsPricingError reports whether err is one of the calculator's business errors.
func IsPricingError(err error) bool {
	var closed *DateClosedError
	var noData *NoPriceDataError
	return errors.As(err, &closed) || errors.As(err, &noData) || errors.Is(err, ErrServiceNotOffered)
}
