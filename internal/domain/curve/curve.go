package curve

import (
	"sort"
	"time"

	"hotelpms/internal/pkg/dates"
)

// Curve interpolates linearly between sorted keyframes.
type Curve struct {
	points []Keyframe
}

// New sorts a copy of keyframes by date.
func New(keyframes []Keyframe) Curve {
	points := make([]Keyframe, len(keyframes))
	copy(points, keyframes)
	for i := range points {
		points[i].Date = dates.Normalize(points[i].Date)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return Curve{points: points}
}

func (c Curve) Empty() bool { return len(c.points) == 0 }

// PriceAt returns the curve value on date. Outside the keyframe span the nearest end
// value is held. ok is false when the curve has no keyframes.
func (c Curve) PriceAt(date time.Time) (value float64, ok bool) {
	if len(c.points) == 0 {
		return 0, false
	}
	date = dates.Normalize(date)

	first, last := c.points[0], c.points[len(c.points)-1]
	if !date.After(first.Date) {
		return float64(first.Value), true
	}
	if !date.Before(last.Date) {
		return float64(last.Value), true
	}

	// first index whose date is >= date; guaranteed in (0, len)
	i := sort.Search(len(c.points), func(i int) bool { return !c.points[i].Date.Before(date) })
	hi := c.points[i]
	if hi.Date.Equal(date) {
		return float64(hi.Value), true
	}
	lo := c.points[i-1]

	span := dates.DaysBetween(lo.Date, hi.Date)
	elapsed := dates.DaysBetween(lo.Date, date)
	v0, v1 := float64(lo.Value), float64(hi.Value)
	return v0 + (v1-v0)*float64(elapsed)/float64(span), true
}

func (c Curve) Keyframes() []Keyframe {
	out := make([]Keyframe, len(c.points))
	copy(out, c.points)
	return out
}
