package season

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBaseServiceLocked = errors.New("the base service is always offered")
	ErrUnknownService    = errors.New("service type does not belong to this hotel")
)

// ConflictError is returned when a non-forced confirmation would overlap other
// confirmed blocks. Conflicts may be empty when the database constraint fired first.
type ConflictError struct {
	Conflicts []Summary
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "season block overlaps a confirmed block"
	}
	names := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names = append(names, fmt.Sprintf("%q [%s, %s)", c.Name, c.StartDate, c.EndDate))
	}
	return "season block overlaps confirmed blocks: " + strings.Join(names, ", ")
}
