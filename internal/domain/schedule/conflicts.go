package schedule

import (
	"sort"
	"time"
)

type Conflict struct {
	StaffID uint `json:"staff_id"`
	ShiftA  uint `json:"shift_a"`
	ShiftB  uint `json:"shift_b"`
}

// Conflicts compares every pair of shifts belonging to the same staff
// member. A week holds a handful of shifts per person, so quadratic is fine.
func Conflicts(shifts []StaffShift) []Conflict {
	out := []Conflict{}
	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			a, b := shifts[i], shifts[j]
			if a.StaffID != b.StaffID || !a.Overlaps(b) {
				continue
			}
			out = append(out, Conflict{StaffID: a.StaffID, ShiftA: a.ID, ShiftB: b.ID})
		}
	}
	return out
}

// FirstOverlap returns the first existing shift of the same staff member
// overlapping candidate, ignoring the candidate's own id.
func FirstOverlap(candidate StaffShift, existing []StaffShift) (StaffShift, bool) {
	for _, s := range existing {
		if s.ID != 0 && s.ID == candidate.ID {
			continue
		}
		if s.StaffID == candidate.StaffID && s.Overlaps(candidate) {
			return s, true
		}
	}
	return StaffShift{}, false
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

type StaffHours struct {
	StaffID uint    `json:"staff_id"`
	Name    string  `json:"name"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
}

// HoursByStaff totals scheduled hours and cost for each staff member that
// has at least one shift, ordered by staff id.
func HoursByStaff(staff []Staff, shifts []StaffShift) []StaffHours {
	byID := make(map[uint]Staff, len(staff))
	for _, s := range staff {
		byID[s.ID] = s
	}

	totals := map[uint]*StaffHours{}
	for _, sh := range shifts {
		h, ok := totals[sh.StaffID]
		if !ok {
			h = &StaffHours{StaffID: sh.StaffID, Name: byID[sh.StaffID].Name}
			totals[sh.StaffID] = h
		}
		hours := sh.Duration().Hours()
		h.Hours += hours
		h.Cost += hours * byID[sh.StaffID].HourlyRate
	}

	out := make([]StaffHours, 0, len(totals))
	for _, h := range totals {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out
}
