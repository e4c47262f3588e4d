package schedule

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidGrid = errors.New("invalid schedule grid")

// Grid describes the vertical day timeline the schedule view draws.
type Grid struct {
	DayStartHour int     `json:"day_start_hour"`
	DayEndHour   int     `json:"day_end_hour"`
	PxPerHour    float64 `json:"px_per_hour"`
}

var DefaultGrid = Grid{DayStartHour: 6, DayEndHour: 22, PxPerHour: 60}

func (g Grid) Validate() error {
	if g.PxPerHour <= 0 || g.DayStartHour < 0 || g.DayEndHour > 24 || g.DayEndHour <= g.DayStartHour {
		return ErrInvalidGrid
	}
	return nil
}

type Slot struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// SlotFromDrag converts a drag selection between two pixel offsets into a
// time range on day. The top edge snaps down to an hour boundary and the
// bottom edge snaps up; the range is at least one hour and stays on the grid.
func (g Grid) SlotFromDrag(day time.Time, startY, endY float64) (Slot, error) {
	if err := g.Validate(); err != nil {
		return Slot{}, err
	}

	lo, hi := math.Min(startY, endY), math.Max(startY, endY)
	gridHours := g.DayEndHour - g.DayStartHour
	maxY := float64(gridHours) * g.PxPerHour
	lo = clamp(lo, 0, maxY)
	hi = clamp(hi, 0, maxY)

	startHour := int(math.Floor(lo / g.PxPerHour))
	endHour := int(math.Ceil(hi / g.PxPerHour))
	if endHour-startHour < 1 {
		endHour = startHour + 1
	}
	if endHour > gridHours {
		endHour = gridHours
		startHour = endHour - 1
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	base := midnight.Add(time.Duration(g.DayStartHour) * time.Hour)
	return Slot{
		StartsAt: base.Add(time.Duration(startHour) * time.Hour),
		EndsAt:   base.Add(time.Duration(endHour) * time.Hour),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
