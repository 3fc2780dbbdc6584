package calendar

import "errors"

var ErrInvalidFixedPrice = errors.New("fixed price must be positive")
