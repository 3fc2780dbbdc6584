package dynamicpricing

import (
	"context"
	"fmt"
	"time"

	"hotelpms/internal/domain/events"
	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/dates"
)

// IndexInput is one row of PUT /external-indices.
type IndexInput struct {
	Date    string   `json:"date" binding:"required"`
	Demand  *float64 `json:"demand"`
	Weather *float64 `json:"weather"`
	Events  *float64 `json:"events"`
}

type Service struct {
	configs            ConfigRepository
	indices            IndexRepository
	engine             *ScoreEngine
	events             events.Publisher
	defaultMinimumRate int64
}

func NewService(configs ConfigRepository, indices IndexRepository, engine *ScoreEngine, publisher events.Publisher, defaultMinimumRate int64) *Service {
	return &Service{
		configs:            configs,
		indices:            indices,
		engine:             engine,
		events:             publisher,
		defaultMinimumRate: defaultMinimumRate,
	}
}

// GetConfig returns the saved configuration or the defaults.
func (s *Service) GetConfig(ctx context.Context, hotelID uint) (*Config, error) {
	cfg, err := s.configs.Get(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("load dynamic pricing config: %w", err)
	}
	if cfg == nil {
		return DefaultConfig(hotelID, s.defaultMinimumRate), nil
	}
	return cfg, nil
}

// UpdateConfig validates and stores in. With normalize the enabled weights are first
// rescaled to sum to 1.
func (s *Service) UpdateConfig(ctx context.Context, hotelID uint, in Config, normalize bool) (*Config, error) {
	cfg := in
	cfg.ID = 0
	cfg.HotelID = hotelID
	if normalize {
		if err := cfg.NormalizeWeights(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.AnticipationSteps = sortedSteps(cfg.AnticipationSteps)

	if err := s.configs.Save(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("save dynamic pricing config: %w", err)
	}
	events.Publish(s.events, events.TypeDynamicPricingUpdated, hotelID, &cfg)
	return &cfg, nil
}

func (s *Service) Score(ctx context.Context, hotelID uint, date time.Time) (Score, error) {
	cfg, err := s.GetConfig(ctx, hotelID)
	if err != nil {
		return Score{}, err
	}
	return s.engine.Score(ctx, cfg, hotelID, date)
}

// Apply adjusts a computed nightly rate for date. Disabled configurations return the
// rate unchanged without scoring.
func (s *Service) Apply(ctx context.Context, hotelID uint, date time.Time, rate int64) (int64, error) {
	cfg, err := s.GetConfig(ctx, hotelID)
	if err != nil {
		return 0, err
	}
	if !cfg.Enabled {
		return rate, nil
	}
	score, err := s.engine.Score(ctx, cfg, hotelID, date)
	if err != nil {
		return 0, err
	}
	return NewAdjuster(cfg).Adjust(rate, score.Value), nil
}

// IngestIndices stores externally computed indices and reports how many rows were written.
func (s *Service) IngestIndices(ctx context.Context, hotelID uint, in []IndexInput) (int, error) {
	verr := apperr.Validation("invalid market indices")
	rows := make([]MarketIndex, 0, len(in))
	for i, item := range in {
		field := fmt.Sprintf("indices[%d]", i)
		d, err := dates.Parse(item.Date)
		if err != nil {
			verr.With(field+".date", "date")
			continue
		}
		for name, v := range map[string]*float64{"demand": item.Demand, "weather": item.Weather, "events": item.Events} {
			if v != nil && (*v < 0 || *v > 1) {
				verr.With(field+"."+name, ErrIndexOutOfRange.Error())
			}
		}
		rows = append(rows, MarketIndex{HotelID: hotelID, Date: d, Demand: item.Demand, Weather: item.Weather, Events: item.Events})
	}
	if err := verr.OrNil(); err != nil {
		return 0, err
	}
	if err := s.indices.Upsert(ctx, rows); err != nil {
		return 0, fmt.Errorf("save market indices: %w", err)
	}
	return len(rows), nil
}
