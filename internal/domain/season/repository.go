package season

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

// exclusion_violation, raised by the season_blocks_no_overlap constraint on PostgreSQL.
const pgExclusionViolation = "23P01"

type Repository interface {
	Get(ctx context.Context, id uint) (*Block, error)
	List(ctx context.Context, hotelID uint) ([]Block, error)
	// ListConfirmedForDate returns confirmed blocks containing date, most recently confirmed first.
	ListConfirmedForDate(ctx context.Context, hotelID uint, date time.Time) ([]Block, error)
	ListConfirmedOverlapping(ctx context.Context, hotelID uint, start, end time.Time, excludeID uint) ([]Block, error)
	// Save writes the block and replaces its child rows. With enforceNonOverlap the
	// hotel's confirmed blocks are locked and a *ConflictError is returned on overlap.
	Save(ctx context.Context, b *Block, enforceNonOverlap bool) error
	Delete(ctx context.Context, id uint) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("Prices").Preload("Adjustments").Preload("Services")
}

func (r *GormRepository) Get(ctx context.Context, id uint) (*Block, error) {
	var b Block
	err := withChildren(r.db.WithContext(ctx)).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("season block %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepository) List(ctx context.Context, hotelID uint) ([]Block, error) {
	var out []Block
	err := withChildren(r.db.WithContext(ctx)).
		Where("hotel_id = ?", hotelID).
		Order("start_date").Order("id").
		Find(&out).Error
	return out, err
}

func (r *GormRepository) ListConfirmedForDate(ctx context.Context, hotelID uint, date time.Time) ([]Block, error) {
	date = dates.Normalize(date)
	var out []Block
	err := withChildren(r.db.WithContext(ctx)).
		Where("hotel_id = ? AND is_draft = ? AND start_date <= ? AND end_date > ?", hotelID, false, date, date).
		Order("confirmed_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *GormRepository) ListConfirmedOverlapping(ctx context.Context, hotelID uint, start, end time.Time, excludeID uint) ([]Block, error) {
	return confirmedOverlapping(r.db.WithContext(ctx), hotelID, start, end, excludeID)
}

func confirmedOverlapping(db *gorm.DB, hotelID uint, start, end time.Time, excludeID uint) ([]Block, error) {
	var out []Block
	err := db.
		Where("hotel_id = ? AND is_draft = ? AND id <> ?", hotelID, false, excludeID).
		Where("start_date < ? AND end_date > ?", dates.Normalize(end), dates.Normalize(start)).
		Order("start_date").
		Find(&out).Error
	return out, err
}

func (r *GormRepository) Save(ctx context.Context, b *Block, enforceNonOverlap bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if enforceNonOverlap && b.HasRange() {
			// lock every confirmed block of the hotel, then test overlap in the same tx
			var locked []Block
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("hotel_id = ? AND is_draft = ?", b.HotelID, false).
				Find(&locked).Error; err != nil {
				return err
			}
			conflicts := make([]Block, 0)
			for i := range locked {
				o := locked[i]
				if o.ID == b.ID || !o.HasRange() {
					continue
				}
				if dates.Overlaps(*b.StartDate, *b.EndDate, *o.StartDate, *o.EndDate) {
					conflicts = append(conflicts, o)
				}
			}
			if len(conflicts) > 0 {
				return &ConflictError{Conflicts: summaries(conflicts)}
			}
		}

		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return err
		}
		return replaceChildren(tx, b)
	})
	return mapWriteError(err)
}

func replaceChildren(tx *gorm.DB, b *Block) error {
	for _, model := range []any{&Price{}, &ServiceAdjustment{}, &ServiceSelection{}} {
		if err := tx.Where("block_id = ?", b.ID).Delete(model).Error; err != nil {
			return err
		}
	}
	for i := range b.Prices {
		b.Prices[i].ID, b.Prices[i].BlockID = 0, b.ID
	}
	for i := range b.Adjustments {
		b.Adjustments[i].ID, b.Adjustments[i].BlockID = 0, b.ID
	}
	for i := range b.Services {
		b.Services[i].ID, b.Services[i].BlockID = 0, b.ID
	}
	if len(b.Prices) > 0 {
		if err := tx.Create(&b.Prices).Error; err != nil {
			return err
		}
	}
	if len(b.Adjustments) > 0 {
		if err := tx.Create(&b.Adjustments).Error; err != nil {
			return err
		}
	}
	if len(b.Services) > 0 {
		if err := tx.Create(&b.Services).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&Price{}, &ServiceAdjustment{}, &ServiceSelection{}} {
			if err := tx.Where("block_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Block{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("season block %d: %w", id, apperr.ErrNotFound)
		}
		return nil
	})
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return &ConflictError{}
	}
	return err
}
