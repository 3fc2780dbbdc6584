package dynamicpricing

import "hotelpms/internal/pkg/money"

// Adjuster maps a score in [0,1] onto a bounded percentage change of a rate.
type Adjuster struct {
	Enabled                 bool
	MaxAdjustmentPercentage float64
	MinimumRate             int64
}

func NewAdjuster(cfg *Config) Adjuster {
	return Adjuster{
		Enabled:                 cfg.Enabled,
		MaxAdjustmentPercentage: cfg.MaxAdjustmentPercentage,
		MinimumRate:             cfg.MinimumRate,
	}
}

// Percentage is the adjustment for score: a neutral 0.5 gives 0, 0 and 1 give the
// configured bounds.
func (a Adjuster) Percentage(score float64) float64 {
	if !a.Enabled {
		return 0
	}
	limit := a.MaxAdjustmentPercentage
	return clamp((score-0.5)*2*limit, -limit, limit)
}

// Adjust applies Percentage(score) to rate. The result is never below the minimum
// rate, except that the floor never lifts a positive rate above its unadjusted
// value. A rate of zero or less is not a price and always comes back as the
// minimum, whatever the score, so Adjust(x, 0.5) == x holds only for x >= 1.
func (a Adjuster) Adjust(rate int64, score float64) int64 {
	minimum := a.MinimumRate
	if minimum < 1 {
		minimum = 1
	}
	if rate <= 0 {
		return minimum
	}
	if !a.Enabled {
		return rate
	}

	floor := minimum
	if floor > rate {
		floor = rate
	}
	out := money.ApplyPercent(rate, a.Percentage(score))
	if out < floor {
		return floor
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
