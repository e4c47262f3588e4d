package ask

import (
	"strings"
	"time"
)

type Period struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// Contains reports whether t falls in [From, To).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// ParsePeriod picks the time window a question refers to, defaulting to the
// current month.
func ParsePeriod(question string, now time.Time) Period {
	q := strings.ToLower(question)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	year := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	switch {
	case strings.Contains(q, "today"):
		return Period{"today", "today", today, today.AddDate(0, 0, 1)}
	case strings.Contains(q, "last week"):
		return Period{"last_week", "last week", monday.AddDate(0, 0, -7), monday}
	case strings.Contains(q, "this week"):
		return Period{"this_week", "this week", monday, monday.AddDate(0, 0, 7)}
	case strings.Contains(q, "last month"):
		return Period{"last_month", "last month", month.AddDate(0, -1, 0), month}
	case strings.Contains(q, "last year"):
		return Period{"last_year", "last year", year.AddDate(-1, 0, 0), year}
	case strings.Contains(q, "this year"), strings.Contains(q, "year to date"), strings.Contains(q, "ytd"):
		return Period{"this_year", "this year", year, year.AddDate(1, 0, 0)}
	default:
		return Period{"this_month", "this month", month, month.AddDate(0, 1, 0)}
	}
}
