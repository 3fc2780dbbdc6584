package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/tariff"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/logger"
)

type RoomSource interface {
	GetRoom(ctx context.Context, id uint) (*inventory.Room, error)
	ListRooms(ctx context.Context, hotelID uint, status inventory.RoomStatus) ([]inventory.Room, error)
	ListReservationSegments(ctx context.Context, roomID uint, from, to time.Time) ([]inventory.ReservationSegment, error)
}

type ClosedDateSource interface {
	ClosedDates(ctx context.Context, hotelID uint, from, to time.Time) ([]time.Time, error)
}

type Quoter interface {
	StayQuote(ctx context.Context, hotelID, roomTypeID, serviceTypeID uint, checkIn, checkOut time.Time) (*tariff.Quote, error)
}

type Options struct {
	MaxCombinationSize int
	CombinationLimit   int
	// SearchTimeout bounds the combination search; 0 leaves it to the caller's context.
	SearchTimeout time.Duration
}

type Resolver struct {
	rooms   RoomSource
	closed  ClosedDateSource
	quoter  Quoter
	opts    Options
	log     *zap.Logger
	fetches int
}

func NewResolver(rooms RoomSource, closed ClosedDateSource, quoter Quoter, opts Options, log *zap.Logger) *Resolver {
	if opts.MaxCombinationSize == 0 {
		opts.MaxCombinationSize = 3
	}
	opts.MaxCombinationSize = min(opts.MaxCombinationSize, MaxCombinationSize)
	if opts.CombinationLimit <= 0 {
		opts.CombinationLimit = 10
	}
	return &Resolver{rooms: rooms, closed: closed, quoter: quoter, opts: opts, log: logger.OrNop(log), fetches: 8}
}

func validate(req *StayRequest) error {
	verr := apperr.Validation("invalid stay request")
	if req.CheckIn.IsZero() {
		verr.With("checkIn", "required")
	}
	if req.CheckOut.IsZero() {
		verr.With("checkOut", "required")
	}
	if !req.CheckIn.IsZero() && !req.CheckOut.IsZero() && !req.CheckIn.Before(req.CheckOut) {
		verr.With("checkOut", "gtfield")
	}
	if req.RequiredGuests < 1 {
		verr.With("guests", "min=1")
	}
	return verr.OrNil()
}

// FindAvailableRooms answers a stay request. An empty result is a normal outcome.
func (r *Resolver) FindAvailableRooms(ctx context.Context, hotelID uint, req StayRequest) (*Result, error) {
	req.CheckIn, req.CheckOut = dates.Normalize(req.CheckIn), dates.Normalize(req.CheckOut)
	if err := validate(&req); err != nil {
		return nil, err
	}
	req.RequiredTags = cleanTags(req.RequiredTags)

	res := emptyResult()

	closed, err := r.closed.ClosedDates(ctx, hotelID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("load closed dates: %w", err)
	}
	if len(closed) > 0 {
		res.ClosedDates = make([]string, 0, len(closed))
		for _, d := range closed {
			res.ClosedDates = append(res.ClosedDates, dates.Format(d))
		}
		return res, nil
	}

	candidates, err := r.candidates(ctx, hotelID, req.RequiredRoomID)
	if err != nil {
		return nil, err
	}
	free, err := r.freeRooms(ctx, candidates, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	for _, room := range free {
		opt := RoomOption{Room: room, TagScore: tagScore(room.Tags, req.RequiredTags)}
		switch {
		case room.MaxPeople == req.RequiredGuests:
			res.ExactCapacityRooms = append(res.ExactCapacityRooms, opt)
		case room.MaxPeople > req.RequiredGuests:
			res.LargerCapacityRooms = append(res.LargerCapacityRooms, opt)
		}
	}
	rankOptions(res.ExactCapacityRooms)
	rankOptions(res.LargerCapacityRooms)

	// a larger room alone does not rule out a tighter combination
	exactFit := len(res.ExactCapacityRooms) > 0
	if req.RequiredRoomID == nil && (!exactFit || req.IncludeAlternatives) {
		searchCtx := ctx
		if r.opts.SearchTimeout > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(ctx, r.opts.SearchTimeout)
			defer cancel()
		}
		combos, complete := searchCombinations(searchCtx, free, req.RequiredGuests, req.RequiredTags,
			r.opts.MaxCombinationSize, r.opts.CombinationLimit)
		if combos != nil {
			res.AlternativeCombinations = combos
		}
		res.SearchComplete = complete
		if !complete {
			r.log.Info("combination search cut short",
				zap.Uint("hotel_id", hotelID),
				zap.Int("rooms", len(free)),
				zap.Int("guests", req.RequiredGuests))
		}
	}

	if req.ServiceTypeID != nil && r.quoter != nil {
		if err := r.attachQuotes(ctx, hotelID, *req.ServiceTypeID, req.CheckIn, req.CheckOut, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Resolver) candidates(ctx context.Context, hotelID uint, requiredRoomID *uint) ([]inventory.Room, error) {
	if requiredRoomID == nil {
		rooms, err := r.rooms.ListRooms(ctx, hotelID, inventory.RoomAvailable)
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		return rooms, nil
	}

	room, err := r.rooms.GetRoom(ctx, *requiredRoomID)
	if err != nil {
		return nil, err
	}
	if room.HotelID != hotelID {
		return nil, fmt.Errorf("room %d: %w", *requiredRoomID, apperr.ErrNotFound)
	}
	if room.Status != inventory.RoomAvailable {
		return nil, nil
	}
	return []inventory.Room{*room}, nil
}

// freeRooms keeps the rooms with no active segment overlapping [checkIn, checkOut),
// sorted by id. Segments are fetched concurrently.
func (r *Resolver) freeRooms(ctx context.Context, rooms []inventory.Room, checkIn, checkOut time.Time) ([]inventory.Room, error) {
	busy := make([]bool, len(rooms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fetches)
	for i := range rooms {
		g.Go(func() error {
			segs, err := r.rooms.ListReservationSegments(gctx, rooms[i].ID, checkIn, checkOut)
			if err != nil {
				return fmt.Errorf("list segments of room %d: %w", rooms[i].ID, err)
			}
			for _, s := range segs {
				if s.IsActive && s.Conflicts(checkIn, checkOut) {
					busy[i] = true
					break
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	free := make([]inventory.Room, 0, len(rooms))
	for i, room := range rooms {
		if !busy[i] {
			free = append(free, room)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].ID < free[j].ID })
	return free, nil
}

// attachQuotes prices every option. Rooms of one type share a quote. Pricing failures
// are reported on the option instead of failing the availability answer.
func (r *Resolver) attachQuotes(ctx context.Context, hotelID, serviceTypeID uint, checkIn, checkOut time.Time, res *Result) error {
	type outcome struct {
		quote *tariff.Quote
		err   error
	}
	var (
		mu     sync.Mutex
		byType = map[uint]outcome{}
	)

	typeIDs := map[uint]bool{}
	for _, opts := range [][]RoomOption{res.ExactCapacityRooms, res.LargerCapacityRooms} {
		for _, o := range opts {
			typeIDs[o.Room.RoomTypeID] = true
		}
	}
	for _, c := range res.AlternativeCombinations {
		for _, room := range c.Rooms {
			typeIDs[room.RoomTypeID] = true
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for id := range typeIDs {
		g.Go(func() error {
			q, err := r.quoter.StayQuote(gctx, hotelID, id, serviceTypeID, checkIn, checkOut)
			if err != nil && !tariff.IsPricingError(err) && !apperr.IsValidation(err) && !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
			mu.Lock()
			byType[id] = outcome{quote: q, err: err}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("quote rooms: %w", err)
	}

	fill := func(opts []RoomOption) {
		for i := range opts {
			o := byType[opts[i].Room.RoomTypeID]
			if o.err != nil {
				opts[i].QuoteError = o.err.Error()
				continue
			}
			opts[i].Quote = o.quote
		}
	}
	fill(res.ExactCapacityRooms)
	fill(res.LargerCapacityRooms)

	for i := range res.AlternativeCombinations {
		total, ok := int64(0), true
		for _, room := range res.AlternativeCombinations[i].Rooms {
			o := byType[room.RoomTypeID]
			if o.err != nil || o.quote == nil {
				ok = false
				break
			}
			total += o.quote.Total
		}
		if ok {
			res.AlternativeCombinations[i].TotalPrice = &total
		}
	}
	return nil
}

// rankOptions orders by tag score desc, then smaller rooms first, then id.
func rankOptions(opts []RoomOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		a, b := opts[i], opts[j]
		if a.TagScore != b.TagScore {
			return a.TagScore > b.TagScore
		}
		if a.Room.MaxPeople != b.Room.MaxPeople {
			return a.Room.MaxPeople < b.Room.MaxPeople
		}
		return a.Room.ID < b.Room.ID
	})
}

func cleanTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
