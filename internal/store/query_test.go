package store

import (
	"testing"
	"time"

	"finflio/internal/core"
)

func TestPredicateMatches(t *testing.T) {
	w := core.MonthWindow(2024, 3)
	txn := core.Transaction{
		UserID:    "u1",
		Type:      core.Expense,
		Timestamp: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli(),
	}

	cases := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"user match", ForUser("u1"), true},
		{"user mismatch", ForUser("u2"), false},
		{"type include hit", ForUser("u1").WithTypes(core.Expense, core.Income), true},
		{"type include miss", ForUser("u1").WithTypes(core.Income), false},
		{"type exclude hit", ForUser("u1").WithoutTypes(core.Expense), false},
		{"type exclude miss", ForUser("u1").WithoutTypes(core.Unsettled), true},
		{"inside window", ForUser("u1").Within(w), true},
		{"outside window", ForUser("u1").Within(core.MonthWindow(2024, 4)), false},
	}
	for _, tc := range cases {
		if got := tc.p.Matches(txn); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPredicateWindowBoundariesInclusive(t *testing.T) {
	w := core.MonthWindow(2024, 3)
	p := ForUser("u1").Within(w)
	for _, ms := range []int64{w.Start, w.End} {
		if !p.Matches(core.Transaction{UserID: "u1", Timestamp: ms}) {
			t.Fatalf("boundary %d should match", ms)
		}
	}
}

func TestBucketKey(t *testing.T) {
	ms := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC).UnixMilli()
	if got := BucketDaily.Key(ms); got != "2024-03-05" {
		t.Fatalf("daily key = %q", got)
	}
	if got := BucketMonthly.Key(ms); got != "2024-03" {
		t.Fatalf("monthly key = %q", got)
	}
}
