package dynamicpricing

import "errors"

var (
	ErrWeightsSum      = errors.New("active weights must sum to 1")
	ErrNoActiveWeight  = errors.New("at least one factor with a positive weight must be enabled")
	ErrTooFewSteps     = errors.New("ESCALONADO needs at least two anticipation steps")
	ErrDuplicateStep   = errors.New("anticipation steps must have distinct thresholds")
	ErrMaxDaysRequired = errors.New("CONTINUO needs anticipation_max_days > 0")
	ErrIndexOutOfRange = errors.New("index values must be within [0, 1]")
)
