package curve

import "errors"

var (
	ErrDuplicateDate = errors.New("two keyframes share the same date")
	ErrNegativeValue = errors.New("keyframe value must not be negative")
)
