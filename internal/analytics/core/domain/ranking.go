package domain

import "sort"

const (
	MonthlyTopItemsLimit  = 10
	TrailingTopItemsLimit = 20
)

// RankItems orders click groups by clicks descending. Equal counts are
// ordered by ascending item index with the generic (nil) group last, so
// the result does not depend on the order the store returned rows in.
// At most limit groups are returned; the result is never nil.
func RankItems(groups []ItemClicks, limit int) []ItemClicks {
	ranked := make([]ItemClicks, len(groups))
	copy(ranked, groups)

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankBefore(ranked[i], ranked[j])
	})

	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func rankBefore(a, b ItemClicks) bool {
	if a.Clicks != b.Clicks {
		return a.Clicks > b.Clicks
	}
	switch {
	case a.ItemIndex == nil:
		return false
	case b.ItemIndex == nil:
		return true
	default:
		return *a.ItemIndex < *b.ItemIndex
	}
}
