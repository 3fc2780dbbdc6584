package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

// Repository is the read side of room management the pricing engine depends on.
type Repository interface {
	GetRoom(ctx context.Context, id uint) (*Room, error)
	ListRooms(ctx context.Context, hotelID uint, status RoomStatus) ([]Room, error)
	ListReservationSegments(ctx context.Context, roomID uint, from, to time.Time) ([]ReservationSegment, error)
	CountOccupiedRooms(ctx context.Context, hotelID uint, date time.Time) (int64, error)
	GetRoomType(ctx context.Context, id uint) (*RoomType, error)
	ListRoomTypes(ctx context.Context, hotelID uint) ([]RoomType, error)
	GetServiceType(ctx context.Context, id uint) (*ServiceType, error)
	ListServiceTypes(ctx context.Context, hotelID uint) ([]ServiceType, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetRoom(ctx context.Context, id uint) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, notFound(err, "room", id)
	}
	return &room, nil
}

// ListRooms returns the hotel's rooms, optionally filtered by status (empty = all).
func (r *GormRepository) ListRooms(ctx context.Context, hotelID uint, status RoomStatus) ([]Room, error) {
	q := r.db.WithContext(ctx).Preload("RoomType").Where("hotel_id = ?", hotelID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rooms []Room
	if err := q.Order("id").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListReservationSegments returns active segments of roomID overlapping [from, to).
func (r *GormRepository) ListReservationSegments(ctx context.Context, roomID uint, from, to time.Time) ([]ReservationSegment, error) {
	var segs []ReservationSegment
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Where("start_date < ? AND end_date > ?", dates.Normalize(to), dates.Normalize(from)).
		Order("start_date").
		Find(&segs).Error
	if err != nil {
		return nil, err
	}
	return segs, nil
}

// CountOccupiedRooms counts distinct rooms of the hotel holding an active segment on date.
func (r *GormRepository) CountOccupiedRooms(ctx context.Context, hotelID uint, date time.Time) (int64, error) {
	day := dates.Normalize(date)
	var n int64
	err := r.db.WithContext(ctx).
		Model(&ReservationSegment{}).
		Joins("JOIN rooms ON rooms.id = reservation_segments.room_id").
		Where("rooms.hotel_id = ? AND reservation_segments.is_active = ?", hotelID, true).
		Where("reservation_segments.start_date <= ? AND reservation_segments.end_date > ?", day, day).
		Distinct("reservation_segments.room_id").
		Count(&n).Error
	return n, err
}

func (r *GormRepository) GetRoomType(ctx context.Context, id uint) (*RoomType, error) {
	var rt RoomType
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, notFound(err, "room type", id)
	}
	return &rt, nil
}

func (r *GormRepository) ListRoomTypes(ctx context.Context, hotelID uint) ([]RoomType, error) {
	var types []RoomType
	if err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormRepository) GetServiceType(ctx context.Context, id uint) (*ServiceType, error) {
	var st ServiceType
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, notFound(err, "service type", id)
	}
	return &st, nil
}

func (r *GormRepository) ListServiceTypes(ctx context.Context, hotelID uint) ([]ServiceType, error) {
	var types []ServiceType
	if err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("position, id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, apperr.ErrNotFound)
	}
	return err
}
