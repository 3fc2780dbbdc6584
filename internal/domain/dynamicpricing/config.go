package dynamicpricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"

	"hotelpms/internal/pkg/apperr"
	"hotelpms/internal/pkg/validator"
)

const weightTolerance = 1e-6

// DefaultConfig is used for hotels that never saved a configuration. Dynamic pricing
// starts disabled.
func DefaultConfig(hotelID uint, minimumRate int64) *Config {
	if minimumRate < 1 {
		minimumRate = 100
	}
	return &Config{
		HotelID: hotelID,
		Weights: Weights{
			Occupancy:    0.30,
			Anticipation: 0.20,
			Weekend:      0.10,
			Holiday:      0.10,
			Demand:       0.10,
			Weather:      0.10,
			Events:       0.10,
		},
		Factors: Factors{
			Occupancy: true, Anticipation: true, Weekend: true, Holiday: true,
			Demand: true, Weather: true, Events: true,
		},
		MaxAdjustmentPercentage: 20,
		MinimumRate:             minimumRate,
		AnticipationMode:        ModeContinuo,
		AnticipationMaxDays:     60,
		AnticipationSteps: datatypes.JSONSlice[Step]{
			{DaysThreshold: 21, Weight: 1.0},
			{DaysThreshold: 14, Weight: 0.7},
			{DaysThreshold: 7, Weight: 0.4},
			{DaysThreshold: 3, Weight: 0.2},
		},
		WeekendDays: datatypes.JSONSlice[int]{int(time.Friday), int(time.Saturday)},
	}
}

type factorSpec struct {
	name    string
	enabled bool
	weight  float64
}

// factors lists the seven factors in display order.
func (c *Config) factors() []factorSpec {
	return []factorSpec{
		{FactorOccupancy, c.Factors.Occupancy, c.Weights.Occupancy},
		{FactorAnticipation, c.Factors.Anticipation, c.Weights.Anticipation},
		{FactorWeekend, c.Factors.Weekend, c.Weights.Weekend},
		{FactorHoliday, c.Factors.Holiday, c.Weights.Holiday},
		{FactorDemand, c.Factors.Demand, c.Weights.Demand},
		{FactorWeather, c.Factors.Weather, c.Weights.Weather},
		{FactorEvents, c.Factors.Events, c.Weights.Events},
	}
}

// ActiveWeightSum adds the weights of enabled factors.
func (c *Config) ActiveWeightSum() float64 {
	sum := 0.0
	for _, f := range c.factors() {
		if f.enabled {
			sum += f.weight
		}
	}
	return sum
}

// NormalizeWeights rescales the enabled weights to sum to 1 and zeroes the disabled ones.
func (c *Config) NormalizeWeights() error {
	sum := c.ActiveWeightSum()
	if sum <= 0 {
		return apperr.Validation(ErrNoActiveWeight.Error()).With("weights", "active_sum")
	}
	scale := func(enabled bool, w float64) float64 {
		if !enabled {
			return 0
		}
		return w / sum
	}
	c.Weights = Weights{
		Occupancy:    scale(c.Factors.Occupancy, c.Weights.Occupancy),
		Anticipation: scale(c.Factors.Anticipation, c.Weights.Anticipation),
		Weekend:      scale(c.Factors.Weekend, c.Weights.Weekend),
		Holiday:      scale(c.Factors.Holiday, c.Weights.Holiday),
		Demand:       scale(c.Factors.Demand, c.Weights.Demand),
		Weather:      scale(c.Factors.Weather, c.Weights.Weather),
		Events:       scale(c.Factors.Events, c.Weights.Events),
	}
	return nil
}

// Validate checks the struct rules and the cross-field invariants.
func (c *Config) Validate() error {
	if err := validator.Struct(c, "invalid dynamic pricing config"); err != nil {
		return err
	}

	verr := apperr.Validation("invalid dynamic pricing config")
	sum := c.ActiveWeightSum()
	switch {
	case sum <= 0:
		verr.With("weights", ErrNoActiveWeight.Error())
	case math.Abs(sum-1) > weightTolerance:
		verr.With("weights", fmt.Sprintf("%s (got %.6f)", ErrWeightsSum.Error(), sum))
	}

	switch c.AnticipationMode {
	case ModeContinuo:
		if c.AnticipationMaxDays <= 0 {
			verr.With("anticipation_max_days", ErrMaxDaysRequired.Error())
		}
	case ModeEscalonado:
		if len(c.AnticipationSteps) < 2 {
			verr.With("anticipation_steps", ErrTooFewSteps.Error())
		}
		seen := map[int]bool{}
		for _, s := range c.AnticipationSteps {
			if seen[s.DaysThreshold] {
				verr.With("anticipation_steps", ErrDuplicateStep.Error())
				break
			}
			seen[s.DaysThreshold] = true
		}
	}
	return verr.OrNil()
}

// sortedSteps returns the steps by descending threshold, the order they are edited in.
func sortedSteps(steps []Step) []Step {
	out := append([]Step(nil), steps...)
	sort.Slice(out, func(i, j int) bool { return out[i].DaysThreshold > out[j].DaysThreshold })
	return out
}
