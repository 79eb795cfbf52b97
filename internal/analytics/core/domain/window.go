package domain

import "time"

// Window is the half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// MonthWindow spans the calendar month in UTC. December rolls over into
// January of the following year.
func MonthWindow(year int, month time.Month) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

// TrailingWindow ends at now and reaches back days*24h. It is not aligned
// to calendar days.
func TrailingWindow(now time.Time, days int) Window {
	now = now.UTC()
	return Window{From: now.Add(-time.Duration(days) * 24 * time.Hour), To: now}
}
