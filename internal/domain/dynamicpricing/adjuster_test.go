package dynamicpricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func enabledAdjuster() Adjuster {
	return Adjuster{Enabled: true, MaxAdjustmentPercentage: 20, MinimumRate: 100}
}

func TestNeutralScoreLeavesRateUnchanged(t *testing.T) {
	a := enabledAdjuster()
	for _, x := range []int64{1, 50, 99, 100, 101, 57500, 1234567} {
		assert.Equal(t, x, a.Adjust(x, 0.5), "rate %d", x)
	}
}

func TestAdjustBounds(t *testing.T) {
	a := enabledAdjuster()
	assert.Equal(t, int64(60000), a.Adjust(50000, 1))
	assert.Equal(t, int64(40000), a.Adjust(50000, 0))
	assert.Equal(t, int64(55000), a.Adjust(50000, 0.75))
	// out-of-range scores are clamped by the percentage bound
	assert.Equal(t, int64(60000), a.Adjust(50000, 3))
	assert.Equal(t, int64(40000), a.Adjust(50000, -2))
}

func TestNonPositiveRateIsLiftedToMinimumEvenWhenNeutral(t *testing.T) {
	a := enabledAdjuster()
	assert.Equal(t, int64(100), a.Adjust(0, 0.5))
	assert.Equal(t, int64(100), a.Adjust(0, 0))
	assert.Equal(t, int64(100), a.Adjust(0, 1))

	disabled := Adjuster{Enabled: false, MinimumRate: 100}
	assert.Equal(t, int64(100), disabled.Adjust(0, 0.5))

	unset := Adjuster{Enabled: true, MaxAdjustmentPercentage: 20}
	assert.Equal(t, int64(1), unset.Adjust(0, 0.5))
}

func TestAdjustIsMonotonicInScore(t *testing.T) {
	a := enabledAdjuster()
	for _, rate := range []int64{1, 120, 999, 50000} {
		prev := a.Adjust(rate, 0)
		for i := 1; i <= 100; i++ {
			cur := a.Adjust(rate, float64(i)/100)
			assert.GreaterOrEqual(t, cur, prev, "rate %d score %.2f", rate, float64(i)/100)
			prev = cur
		}
	}
}

func TestAdjustNeverBelowMinimum(t *testing.T) {
	a := Adjuster{Enabled: true, MaxAdjustmentPercentage: 100, MinimumRate: 100}
	assert.Equal(t, int64(100), a.Adjust(500, 0))
	// the floor does not raise a rate that was already below it
	assert.Equal(t, int64(80), a.Adjust(80, 0))
	assert.Equal(t, int64(100), a.Adjust(0, 0.9))
	assert.Equal(t, int64(100), a.Adjust(-5, 0.9))
}

func TestDisabledAdjusterIsIdentity(t *testing.T) {
	a := Adjuster{Enabled: false, MaxAdjustmentPercentage: 20, MinimumRate: 100}
	assert.Equal(t, int64(50000), a.Adjust(50000, 1))
	assert.Equal(t, 0.0, a.Percentage(1))
}
