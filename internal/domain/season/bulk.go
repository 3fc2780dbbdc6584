package season

import (
	"fmt"
	"sort"

	"hotelpms/internal/pkg/apperr"
)

type BulkScope string

const (
	ScopeRow    BulkScope = "row"
	ScopeColumn BulkScope = "column"
	ScopeAll    BulkScope = "all"
)

// BulkEdit copies one adjustment into a row (every service of a room type), a column
// (one service across room types) or the whole grid.
type BulkEdit struct {
	Scope         BulkScope      `json:"scope" validate:"required,oneof=row column all"`
	RoomTypeID    uint           `json:"room_type_id"`
	ServiceTypeID uint           `json:"service_type_id"`
	Mode          AdjustmentMode `json:"mode" validate:"required,oneof=FIXED PERCENTAGE"`
	Value         float64        `json:"value"`
}

func (e BulkEdit) validate() error {
	verr := apperr.Validation("invalid bulk edit")
	switch e.Scope {
	case ScopeRow:
		if e.RoomTypeID == 0 {
			verr.With("room_type_id", "required")
		}
	case ScopeColumn:
		if e.ServiceTypeID == 0 {
			verr.With("service_type_id", "required")
		}
	case ScopeAll:
	default:
		verr.With("scope", "oneof")
	}
	if rule := checkAdjustment(e.Mode, e.Value); rule != "" {
		verr.With("value", rule)
	}
	return verr.OrNil()
}

// ApplyBulkEdit returns a new adjustment set with edit applied over the grid
// roomTypeIDs x serviceTypeIDs. Missing cells are created; cells outside the edit
// are kept untouched. The input slice is not modified.
func ApplyBulkEdit(current []ServiceAdjustment, roomTypeIDs, serviceTypeIDs []uint, edit BulkEdit) ([]ServiceAdjustment, error) {
	if err := edit.validate(); err != nil {
		return nil, err
	}

	type cell struct{ roomType, service uint }
	grid := make(map[cell]ServiceAdjustment, len(current))
	for _, a := range current {
		grid[cell{a.RoomTypeID, a.ServiceTypeID}] = a
	}

	inRow := func(rt uint) bool { return edit.Scope != ScopeRow || rt == edit.RoomTypeID }
	inColumn := func(st uint) bool { return edit.Scope != ScopeColumn || st == edit.ServiceTypeID }

	touched := 0
	for _, rt := range roomTypeIDs {
		if !inRow(rt) {
			continue
		}
		for _, st := range serviceTypeIDs {
			if !inColumn(st) {
				continue
			}
			k := cell{rt, st}
			a := grid[k]
			a.RoomTypeID, a.ServiceTypeID = rt, st
			a.Mode, a.Value = edit.Mode, edit.Value
			grid[k] = a
			touched++
		}
	}
	if touched == 0 {
		return nil, apperr.Validation(fmt.Sprintf("bulk edit %s matched no cell", edit.Scope)).
			With("scope", "no_match")
	}

	out := make([]ServiceAdjustment, 0, len(grid))
	for _, a := range grid {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomTypeID != out[j].RoomTypeID {
			return out[i].RoomTypeID < out[j].RoomTypeID
		}
		return out[i].ServiceTypeID < out[j].ServiceTypeID
	})
	return out, nil
}

// checkAdjustment returns the broken rule name, or "" when the pair is valid.
func checkAdjustment(mode AdjustmentMode, value float64) string {
	switch mode {
	case ModePercentage:
		if value < MinPercentage || value > MaxPercentage {
			return "percentage_range"
		}
	case ModeFixed:
		if value < 0 {
			return "gte=0"
		}
	default:
		return "oneof"
	}
	return ""
}
