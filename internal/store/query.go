package store

import (
	"time"

	"finflio/internal/core"
)

// Predicate selects transactions by owner, type set, and timestamp window.
// The zero value matches everything; build one with ForUser and narrow it.
type Predicate struct {
	UserID       string
	Types        []core.TransactionType
	ExcludeTypes []core.TransactionType
	Window       *core.Window
}

// ForUser starts a predicate scoped to one owner. Every service query is
// user-scoped.
func ForUser(userID string) Predicate {
	return Predicate{UserID: userID}
}

// WithTypes narrows the predicate to the given types.
func (p Predicate) WithTypes(types ...core.TransactionType) Predicate {
	p.Types = types
	return p
}

// WithoutTypes excludes the given types.
func (p Predicate) WithoutTypes(types ...core.TransactionType) Predicate {
	p.ExcludeTypes = types
	return p
}

// Within restricts matches to timestamps inside the window, boundaries
// inclusive.
func (p Predicate) Within(w core.Window) Predicate {
	p.Window = &w
	return p
}

// Matches evaluates the predicate against a transaction. The memory
// adapter runs on this; the sqlite adapter compiles the same predicate to
// SQL, so this is also the reference semantics.
func (p Predicate) Matches(txn core.Transaction) bool {
	if p.UserID != "" && txn.UserID != p.UserID {
		return false
	}
	if len(p.Types) > 0 {
		found := false
		for _, t := range p.Types {
			if txn.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, t := range p.ExcludeTypes {
		if txn.Type == t {
			return false
		}
	}
	if p.Window != nil && !p.Window.Contains(txn.Timestamp) {
		return false
	}
	return true
}

// Sort is the timestamp ordering of a listing.
type Sort int

const (
	SortTimestampAsc Sort = iota
	SortTimestampDesc
)

// Bucket is the date granularity of a grouped aggregation.
type Bucket int

const (
	BucketDaily Bucket = iota
	BucketMonthly
)

// Key formats an epoch-millisecond timestamp as the bucket's date key,
// zero-padded so lexicographic order is date order.
func (b Bucket) Key(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	if b == BucketMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}
