package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/tariff"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

type fakeRooms struct {
	rooms    []inventory.Room
	segments []inventory.ReservationSegment
}

func (f *fakeRooms) GetRoom(ctx context.Context, id uint) (*inventory.Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			r := f.rooms[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("room %d: %w", id, apperr.ErrNotFound)
}

func (f *fakeRooms) ListRooms(ctx context.Context, hotelID uint, status inventory.RoomStatus) ([]inventory.Room, error) {
	var out []inventory.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID && (status == "" || r.Status == status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) ListReservationSegments(ctx context.Context, roomID uint, from, to time.Time) ([]inventory.ReservationSegment, error) {
	var out []inventory.ReservationSegment
	for _, s := range f.segments {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeClosed []time.Time

func (f fakeClosed) ClosedDates(ctx context.Context, hotelID uint, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, d := range f {
		if dates.Contains(from, to, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeQuoter map[uint]int64

func (f fakeQuoter) StayQuote(ctx context.Context, hotelID, roomTypeID, serviceTypeID uint, checkIn, checkOut time.Time) (*tariff.Quote, error) {
	nightly, ok := f[roomTypeID]
	if !ok {
		return nil, &tariff.NoPriceDataError{Date: checkIn, RoomTypeID: roomTypeID, Reason: "test"}
	}
	n := int64(len(dates.Nights(checkIn, checkOut)))
	return &tariff.Quote{RoomTypeID: roomTypeID, ServiceTypeID: serviceTypeID, Total: nightly * n}, nil
}

func day(s string) time.Time {
	d, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func room(id uint, capacity int, tags ...string) inventory.Room {
	return inventory.Room{
		ID:         id,
		HotelID:    1,
		RoomTypeID: uint(capacity),
		Name:       fmt.Sprintf("%d", 100+id),
		MaxPeople:  capacity,
		Tags:       datatypes.JSONSlice[string](tags),
		Status:     inventory.RoomAvailable,
	}
}

func ids(opts []RoomOption) []uint {
	out := make([]uint, len(opts))
	for i, o := range opts {
		out[i] = o.Room.ID
	}
	return out
}

func stay(guests int) StayRequest {
	return StayRequest{CheckIn: day("2026-02-10"), CheckOut: day("2026-02-13"), RequiredGuests: guests}
}

func TestThreeGuestsOneTwoFourRooms(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{room(1, 1), room(2, 2), room(3, 4)}}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)

	res, err := r.FindAvailableRooms(context.Background(), 1, stay(3))
	require.NoError(t, err)

	assert.Empty(t, res.ExactCapacityRooms)
	assert.Equal(t, []uint{3}, ids(res.LargerCapacityRooms))
	require.Len(t, res.AlternativeCombinations, 1)
	assert.Equal(t, []uint{1, 2}, res.AlternativeCombinations[0].RoomIDs())
	assert.Equal(t, 3, res.AlternativeCombinations[0].TotalCapacity)
	assert.True(t, res.SearchComplete)
}

func TestAlternativesOnlyWithoutExactFit(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{room(1, 1), room(2, 1), room(3, 2), room(4, 4)}}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)

	req := stay(2)
	res, err := r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(res.ExactCapacityRooms))
	assert.Equal(t, []uint{4}, ids(res.LargerCapacityRooms))
	assert.Empty(t, res.AlternativeCombinations)

	req.IncludeAlternatives = true
	res, err = r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, res.AlternativeCombinations, 1)
	assert.Equal(t, []uint{1, 2}, res.AlternativeCombinations[0].RoomIDs())
}

func TestBookedRoomsAreExcluded(t *testing.T) {
	rooms := &fakeRooms{
		rooms: []inventory.Room{room(1, 2), room(2, 2), room(3, 2), room(4, 2)},
		segments: []inventory.ReservationSegment{
			// overlaps the stay
			{RoomID: 1, StartDate: day("2026-02-12"), EndDate: day("2026-02-15"), IsActive: true},
			// ends on check-in day: no conflict
			{RoomID: 2, StartDate: day("2026-02-05"), EndDate: day("2026-02-10"), IsActive: true},
			// cancelled
			{RoomID: 3, StartDate: day("2026-02-10"), EndDate: day("2026-02-13"), IsActive: false},
			// starts on check-out day: no conflict
			{RoomID: 4, StartDate: day("2026-02-13"), EndDate: day("2026-02-14"), IsActive: true},
		},
	}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)

	res, err := r.FindAvailableRooms(context.Background(), 1, stay(2))
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 4}, ids(res.ExactCapacityRooms))
}

func TestClosedDateEmptiesResult(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{room(1, 2)}}
	r := NewResolver(rooms, fakeClosed{day("2026-02-11"), day("2026-02-13")}, nil, Options{}, nil)

	res, err := r.FindAvailableRooms(context.Background(), 1, stay(2))
	require.NoError(t, err)
	assert.True(t, res.Empty())
	// check-out day is not a night of the stay
	assert.Equal(t, []string{"2026-02-11"}, res.ClosedDates)
}

func TestRankingByTagsThenSizeThenID(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{
		room(1, 4),
		room(2, 3, "vista-mar"),
		room(3, 6, "vista-mar", "balcon"),
		room(4, 3),
		room(5, 4, "balcon"),
	}}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)

	req := stay(2)
	req.RequiredTags = []string{"vista-mar", "balcon", "vista-mar", " "}
	res, err := r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)

	assert.Equal(t, []uint{3, 2, 5, 4, 1}, ids(res.LargerCapacityRooms))
	assert.Equal(t, 1.0, res.LargerCapacityRooms[0].TagScore)
	assert.Equal(t, 0.5, res.LargerCapacityRooms[1].TagScore)
}

func TestCombinationsAreValidAndMinimal(t *testing.T) {
	var list []inventory.Room
	caps := []int{1, 2, 2, 3, 1, 4, 2, 1, 3, 2}
	for i, c := range caps {
		list = append(list, room(uint(i+1), c))
	}
	rooms := &fakeRooms{
		rooms: list,
		segments: []inventory.ReservationSegment{
			{RoomID: 4, StartDate: day("2026-02-11"), EndDate: day("2026-02-12"), IsActive: true},
			{RoomID: 6, StartDate: day("2026-02-01"), EndDate: day("2026-03-01"), IsActive: true},
		},
	}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{CombinationLimit: 50}, nil)

	req := stay(5)
	res, err := r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)
	require.NotEmpty(t, res.AlternativeCombinations)

	busy := map[uint]bool{4: true, 6: true}
	size := len(res.AlternativeCombinations[0].Rooms)
	for _, c := range res.AlternativeCombinations {
		assert.Len(t, c.Rooms, size, "all combinations share the smallest size")
		sum, smallest := 0, 1<<30
		for _, m := range c.Rooms {
			assert.False(t, busy[m.ID], "room %d is booked", m.ID)
			sum += m.MaxPeople
			if m.MaxPeople < smallest {
				smallest = m.MaxPeople
			}
		}
		assert.GreaterOrEqual(t, sum, req.RequiredGuests)
		assert.Less(t, sum-smallest, req.RequiredGuests, "every member is needed")
		assert.Equal(t, sum, c.TotalCapacity)
	}
	// room 9 with any free double
	assert.Equal(t, 2, size)
	assert.Len(t, res.AlternativeCombinations, 4)

	for i := 1; i < len(res.AlternativeCombinations); i++ {
		assert.LessOrEqual(t, res.AlternativeCombinations[i-1].TotalCapacity, res.AlternativeCombinations[i].TotalCapacity)
	}
}

func TestSmallestCombinationSizeWinsAndIsCapped(t *testing.T) {
	var list []inventory.Room
	for i := 1; i <= 12; i++ {
		list = append(list, room(uint(i), 2))
	}
	r := NewResolver(&fakeRooms{rooms: list}, fakeClosed{}, nil, Options{}, nil)

	res, err := r.FindAvailableRooms(context.Background(), 1, stay(4))
	require.NoError(t, err)
	require.Len(t, res.AlternativeCombinations, 10)
	for _, c := range res.AlternativeCombinations {
		assert.Len(t, c.Rooms, 2)
	}
	assert.Equal(t, []uint{1, 2}, res.AlternativeCombinations[0].RoomIDs())
	assert.Equal(t, []uint{1, 3}, res.AlternativeCombinations[1].RoomIDs())
}

func TestCombinationTagMatchBreaksTies(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{
		room(1, 1), room(2, 1), room(3, 1, "cuna"),
	}}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)

	req := stay(2)
	req.RequiredTags = []string{"cuna"}
	res, err := r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, res.AlternativeCombinations, 3)
	assert.Equal(t, []uint{1, 3}, res.AlternativeCombinations[0].RoomIDs())
	assert.Equal(t, []uint{2, 3}, res.AlternativeCombinations[1].RoomIDs())
	assert.Equal(t, []uint{1, 2}, res.AlternativeCombinations[2].RoomIDs())
}

func TestCancelledSearchIsMarkedIncomplete(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{room(1, 1), room(2, 2), room(3, 1)}}

	combos, complete := searchCombinations(cancelledCtx(), rooms.rooms, 3, nil, 3, 10)
	assert.False(t, complete)
	assert.Empty(t, combos)

	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)
	res, err := r.FindAvailableRooms(cancelledCtx(), 1, stay(3))
	require.NoError(t, err)
	assert.False(t, res.SearchComplete)
}

func cancelledCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestRequiredRoom(t *testing.T) {
	other := room(9, 4)
	other.HotelID = 2
	maint := room(8, 4)
	maint.Status = inventory.RoomMaintenance
	rooms := &fakeRooms{rooms: []inventory.Room{room(1, 1), room(2, 2), room(3, 4), other, maint}}
	r := NewResolver(rooms, fakeClosed{}, nil, Options{}, nil)

	req := stay(3)
	id := uint(3)
	req.RequiredRoomID = &id
	res, err := r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(res.LargerCapacityRooms))
	assert.Empty(t, res.AlternativeCombinations)

	id = 8
	res, err = r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)
	assert.True(t, res.Empty())

	id = 9
	_, err = r.FindAvailableRooms(context.Background(), 1, req)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestQuotesAttached(t *testing.T) {
	rooms := &fakeRooms{rooms: []inventory.Room{room(1, 1), room(2, 2), room(3, 4)}}
	quoter := fakeQuoter{1: 20000, 2: 30000}
	r := NewResolver(rooms, fakeClosed{}, quoter, Options{}, nil)

	req := stay(3)
	svc := uint(11)
	req.ServiceTypeID = &svc
	res, err := r.FindAvailableRooms(context.Background(), 1, req)
	require.NoError(t, err)

	require.Len(t, res.LargerCapacityRooms, 1)
	assert.Nil(t, res.LargerCapacityRooms[0].Quote)
	assert.Contains(t, res.LargerCapacityRooms[0].QuoteError, "no price data")

	require.Len(t, res.AlternativeCombinations, 1)
	require.NotNil(t, res.AlternativeCombinations[0].TotalPrice)
	// three nights of 20000 + 30000
	assert.Equal(t, int64(150000), *res.AlternativeCombinations[0].TotalPrice)
}

func TestInvalidRequests(t *testing.T) {
	r := NewResolver(&fakeRooms{}, fakeClosed{}, nil, Options{}, nil)

	_, err := r.FindAvailableRooms(context.Background(), 1, StayRequest{CheckIn: day("2026-02-10"), CheckOut: day("2026-02-10"), RequiredGuests: 1})
	assert.True(t, apperr.IsValidation(err))

	_, err = r.FindAvailableRooms(context.Background(), 1, StayRequest{CheckIn: day("2026-02-10"), CheckOut: day("2026-02-11")})
	assert.True(t, apperr.IsValidation(err))
}

func TestEmptyHotelIsNotAnError(t *testing.T) {
	r := NewResolver(&fakeRooms{}, fakeClosed{}, nil, Options{}, nil)

	res, err := r.FindAvailableRooms(context.Background(), 1, stay(2))
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.NotNil(t, res.ExactCapacityRooms)
	assert.True(t, res.SearchComplete)
}
