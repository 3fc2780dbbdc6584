package season

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hotelpms/internal/domain/events"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/logger"
	"hotelpms/internal/pkg/validator"
)

// Catalog lists what a block must price. inventory.Repository satisfies it.
type Catalog interface {
	ListRoomTypes(ctx context.Context, hotelID uint) ([]inventory.RoomType, error)
	ListServiceTypes(ctx context.Context, hotelID uint) ([]inventory.ServiceType, error)
}

type PriceInput struct {
	RoomTypeID uint  `json:"room_type_id" validate:"required"`
	BasePrice  int64 `json:"base_price" validate:"gte=0"`
}

type AdjustmentInput struct {
	RoomTypeID    uint           `json:"room_type_id" validate:"required"`
	ServiceTypeID uint           `json:"service_type_id" validate:"required"`
	Mode          AdjustmentMode `json:"mode" validate:"required,oneof=FIXED PERCENTAGE"`
	Value         float64        `json:"value"`
}

type SelectionInput struct {
	ServiceTypeID uint `json:"service_type_id" validate:"required"`
	IsEnabled     bool `json:"is_enabled"`
}

// BlockInput is the body of POST/PUT /season-blocks. IsDraft defaults to true;
// false saves through the confirmation path.
type BlockInput struct {
	Name        string            `json:"name" validate:"max=120"`
	StartDate   *string           `json:"start_date"`
	EndDate     *string           `json:"end_date"`
	IsDraft     *bool             `json:"is_draft"`
	Prices      []PriceInput      `json:"prices" validate:"dive"`
	Adjustments []AdjustmentInput `json:"adjustments" validate:"dive"`
	Services    []SelectionInput  `json:"services" validate:"dive"`
}

type Service struct {
	repo    Repository
	catalog Catalog
	events  events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		events:  publisher,
		log:     logger.OrNop(log),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Resolve returns the confirmed block governing date, or nil.
func (s *Service) Resolve(ctx context.Context, hotelID uint, date time.Time) (*Block, error) {
	blocks, err := s.repo.ListConfirmedForDate(ctx, hotelID, date)
	if err != nil {
		return nil, fmt.Errorf("resolve season block: %w", err)
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	if len(blocks) > 1 {
		ids := make([]uint, 0, len(blocks))
		for _, b := range blocks {
			ids = append(ids, b.ID)
		}
		s.log.Warn("overlapping confirmed season blocks, most recently confirmed wins",
			zap.Uint("hotel_id", hotelID),
			zap.String("date", dates.Format(date)),
			zap.Uints("block_ids", ids),
			zap.Uint("chosen", blocks[0].ID),
		)
	}
	return &blocks[0], nil
}

func (s *Service) Get(ctx context.Context, hotelID, id uint) (*Block, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.HotelID != hotelID {
		return nil, fmt.Errorf("season block %d: %w", id, apperr.ErrNotFound)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, hotelID uint) ([]Block, error) {
	return s.repo.List(ctx, hotelID)
}

func (s *Service) CheckOverlap(ctx context.Context, hotelID uint, start, end time.Time, excludeID uint) (OverlapResult, error) {
	if !start.Before(end) {
		return OverlapResult{}, apperr.Validation("start date must be before end date").With("end_date", "gtfield")
	}
	blocks, err := s.repo.ListConfirmedOverlapping(ctx, hotelID, start, end, excludeID)
	if err != nil {
		return OverlapResult{}, fmt.Errorf("check season overlap: %w", err)
	}
	return OverlapResult{Overlaps: len(blocks) > 0, ConflictingBlocks: summaries(blocks)}, nil
}

// Save creates (id == 0) or replaces a block. Any edit of a confirmed block returns it
// to draft unless the input asks to confirm again.
func (s *Service) Save(ctx context.Context, hotelID, id uint, in BlockInput, force bool) (*Block, error) {
	b, err := s.fromInput(hotelID, in)
	if err != nil {
		return nil, err
	}
	if id != 0 {
		existing, err := s.Get(ctx, hotelID, id)
		if err != nil {
			return nil, err
		}
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
	}

	if in.IsDraft == nil || *in.IsDraft {
		return s.saveDraft(ctx, b)
	}
	return s.confirm(ctx, b, force)
}

func (s *Service) Confirm(ctx context.Context, hotelID, id uint, force bool) (*Block, error) {
	b, err := s.Get(ctx, hotelID, id)
	if err != nil {
		return nil, err
	}
	return s.confirm(ctx, b, force)
}

func (s *Service) Delete(ctx context.Context, hotelID, id uint) error {
	if _, err := s.Get(ctx, hotelID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete season block: %w", err)
	}
	events.Publish(s.events, events.TypeSeasonBlockDeleted, hotelID, map[string]uint{"id": id})
	return nil
}

// Clone copies prices, adjustments and service selections into a new draft with
// blank dates.
func (s *Service) Clone(ctx context.Context, hotelID, id uint) (*Block, error) {
	src, err := s.Get(ctx, hotelID, id)
	if err != nil {
		return nil, err
	}

	b := &Block{
		HotelID:     hotelID,
		Name:        strings.TrimSpace(src.Name + " (copy)"),
		Prices:      append([]Price(nil), src.Prices...),
		Adjustments: append([]ServiceAdjustment(nil), src.Adjustments...),
		Services:    append([]ServiceSelection(nil), src.Services...),
	}
	return s.saveDraft(ctx, b)
}

// BulkEditAdjustments applies edit over the hotel's room type x service grid and saves
// the block as a draft.
func (s *Service) BulkEditAdjustments(ctx context.Context, hotelID, id uint, edit BulkEdit) (*Block, error) {
	if err := validator.Struct(edit, "invalid bulk edit"); err != nil {
		return nil, err
	}
	b, err := s.Get(ctx, hotelID, id)
	if err != nil {
		return nil, err
	}

	roomTypes, err := s.catalog.ListRoomTypes(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	services, err := s.catalog.ListServiceTypes(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}

	rtIDs := make([]uint, 0, len(roomTypes))
	for _, rt := range roomTypes {
		rtIDs = append(rtIDs, rt.ID)
	}
	stIDs := make([]uint, 0, len(services))
	for _, st := range services {
		if !st.IsBase {
			stIDs = append(stIDs, st.ID)
		}
	}

	adjustments, err := ApplyBulkEdit(b.Adjustments, rtIDs, stIDs, edit)
	if err != nil {
		return nil, err
	}
	b.Adjustments = adjustments
	return s.saveDraft(ctx, b)
}

// SetServiceSelection enables or disables a service plan for the block. The base
// service cannot be toggled.
func (s *Service) SetServiceSelection(ctx context.Context, hotelID, id, serviceTypeID uint, enabled bool) (*Block, error) {
	b, err := s.Get(ctx, hotelID, id)
	if err != nil {
		return nil, err
	}

	services, err := s.catalog.ListServiceTypes(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	var target *inventory.ServiceType
	for i := range services {
		if services[i].ID == serviceTypeID {
			target = &services[i]
			break
		}
	}
	if target == nil {
		return nil, apperr.Validation(ErrUnknownService.Error()).With("service_type_id", "exists")
	}
	if target.IsBase {
		return nil, apperr.Validation(ErrBaseServiceLocked.Error()).With("service_type_id", "base_service")
	}

	found := false
	for i := range b.Services {
		if b.Services[i].ServiceTypeID == serviceTypeID {
			b.Services[i].IsEnabled = enabled
			found = true
		}
	}
	if !found {
		b.Services = append(b.Services, ServiceSelection{ServiceTypeID: serviceTypeID, IsEnabled: enabled})
	}
	return s.saveDraft(ctx, b)
}

func (s *Service) saveDraft(ctx context.Context, b *Block) (*Block, error) {
	b.IsDraft = true
	b.AllowOverlap = false
	b.ConfirmedAt = nil
	b.LastSavedAt = s.now()

	if err := s.repo.Save(ctx, b, false); err != nil {
		return nil, fmt.Errorf("save season block: %w", err)
	}
	events.Publish(s.events, events.TypeSeasonBlockSaved, b.HotelID, b.Summary())
	return b, nil
}

func (s *Service) confirm(ctx context.Context, b *Block, force bool) (*Block, error) {
	if err := s.validateForConfirm(ctx, b); err != nil {
		return nil, err
	}

	now := s.now()
	b.IsDraft = false
	b.AllowOverlap = force
	b.ConfirmedAt = &now
	b.LastSavedAt = now

	err := s.repo.Save(ctx, b, !force)
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		if len(conflict.Conflicts) == 0 {
			if res, lerr := s.repo.ListConfirmedOverlapping(ctx, b.HotelID, *b.StartDate, *b.EndDate, b.ID); lerr == nil {
				conflict.Conflicts = summaries(res)
			}
		}
		return nil, conflict
	}
	if err != nil {
		return nil, fmt.Errorf("confirm season block: %w", err)
	}

	if force {
		s.log.Info("season block confirmed with overlap allowed",
			zap.Uint("hotel_id", b.HotelID), zap.Uint("block_id", b.ID))
	}
	events.Publish(s.events, events.TypeSeasonBlockConfirmed, b.HotelID, b.Summary())
	return b, nil
}

func (s *Service) validateForConfirm(ctx context.Context, b *Block) error {
	verr := apperr.Validation("season block cannot be confirmed")

	if strings.TrimSpace(b.Name) == "" {
		verr.With("name", "required")
	}
	switch {
	case b.StartDate == nil:
		verr.With("start_date", "required")
	case b.EndDate == nil:
		verr.With("end_date", "required")
	case !b.StartDate.Before(*b.EndDate):
		verr.With("end_date", "gtfield")
	}

	roomTypes, err := s.catalog.ListRoomTypes(ctx, b.HotelID)
	if err != nil {
		return fmt.Errorf("list room types: %w", err)
	}
	for _, rt := range roomTypes {
		price, ok := b.PriceFor(rt.ID)
		if !ok {
			verr.With(fmt.Sprintf("prices[%d]", rt.ID), "required")
		} else if price <= 0 {
			verr.With(fmt.Sprintf("prices[%d]", rt.ID), "gt=0")
		}
	}
	for _, a := range b.Adjustments {
		if rule := checkAdjustment(a.Mode, a.Value); rule != "" {
			verr.With(fmt.Sprintf("adjustments[%d,%d]", a.RoomTypeID, a.ServiceTypeID), rule)
		}
	}
	return verr.OrNil()
}

// fromInput maps the request body. Only malformed values are rejected here; drafts
// may be incomplete.
func (s *Service) fromInput(hotelID uint, in BlockInput) (*Block, error) {
	if err := validator.Struct(in, "invalid season block"); err != nil {
		return nil, err
	}

	b := &Block{HotelID: hotelID, Name: strings.TrimSpace(in.Name)}
	verr := apperr.Validation("invalid season block")
	if d, ok := parseOptionalDate(in.StartDate, "start_date", verr); ok {
		b.StartDate = d
	}
	if d, ok := parseOptionalDate(in.EndDate, "end_date", verr); ok {
		b.EndDate = d
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	for _, p := range in.Prices {
		b.Prices = append(b.Prices, Price{RoomTypeID: p.RoomTypeID, BasePrice: p.BasePrice})
	}
	for _, a := range in.Adjustments {
		b.Adjustments = append(b.Adjustments, ServiceAdjustment{
			RoomTypeID:    a.RoomTypeID,
			ServiceTypeID: a.ServiceTypeID,
			Mode:          a.Mode,
			Value:         a.Value,
		})
	}
	for _, sel := range in.Services {
		b.Services = append(b.Services, ServiceSelection{ServiceTypeID: sel.ServiceTypeID, IsEnabled: sel.IsEnabled})
	}
	return b, nil
}

func parseOptionalDate(raw *string, field string, verr *apperr.ValidationError) (*time.Time, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	d, err := dates.Parse(*raw)
	if err != nil {
		verr.With(field, "date")
		return nil, false
	}
	return &d, true
}
