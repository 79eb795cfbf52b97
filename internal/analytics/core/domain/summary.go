package domain

import "time"

type EventKind string

const (
	KindScan  EventKind = "scan"
	KindClick EventKind = "click"
)

// ItemClicks is one group of the click breakdown. A nil ItemIndex is the
// group of generic clicks not tied to a menu item.
type ItemClicks struct {
	ItemIndex *int
	Clicks    int64
}

type MonthlySummary struct {
	TenantSlug string
	Year       int
	Month      time.Month
	From       time.Time
	To         time.Time
	Scans      int64
	Clicks     int64
	TopItems   []ItemClicks // at most MonthlyTopItemsLimit
}

type TopItemsReport struct {
	TenantSlug string
	SinceDays  int
	From       time.Time
	To         time.Time
	Items      []ItemClicks // at most TrailingTopItemsLimit
}
