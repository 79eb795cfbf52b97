package domain

import "time"

type Kind string

const (
	KindScan  Kind = "scan"
	KindClick Kind = "click"
)

func (k Kind) Valid() bool {
	return k == KindScan || k == KindClick
}

// Event is one immutable row of the interaction log.
// ID and Timestamp are assigned by the store on insert.
type Event struct {
	ID         int64
	TenantSlug string
	Kind       Kind
	ItemIndex  *int // nil = generic click, only set for KindClick
	Timestamp  time.Time
}
