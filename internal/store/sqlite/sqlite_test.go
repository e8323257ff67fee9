package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finflio/internal/core"
	"finflio/internal/store"
)

func TestCompilePredicate(t *testing.T) {
	w := core.MonthWindow(2024, 3)
	cases := []struct {
		name     string
		p        store.Predicate
		where    string
		argCount int
	}{
		{"empty", store.Predicate{}, "1=1", 0},
		{"user only", store.ForUser("u1"), "user_id = ?", 1},
		{"types", store.ForUser("u1").WithTypes(core.Expense, core.Income), "user_id = ? AND type IN (?, ?)", 3},
		{"exclude", store.ForUser("u1").WithoutTypes(core.Unsettled), "user_id = ? AND type NOT IN (?)", 2},
		{"window", store.ForUser("u1").Within(w), "user_id = ? AND timestamp BETWEEN ? AND ?", 3},
	}
	for _, tc := range cases {
		where, args := compilePredicate(tc.p)
		if where != tc.where {
			t.Fatalf("%s: where = %q, want %q", tc.name, where, tc.where)
		}
		if len(args) != tc.argCount {
			t.Fatalf("%s: got %d args, want %d", tc.name, len(args), tc.argCount)
		}
	}
}

func TestBucketFormat(t *testing.T) {
	if got := bucketFormat(store.BucketDaily); got != "%Y-%m-%d" {
		t.Fatalf("daily format = %q", got)
	}
	if got := bucketFormat(store.BucketMonthly); got != "%Y-%m" {
		t.Fatalf("monthly format = %q", got)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "finflio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	txn, err := s.InsertOne(ctx, core.Transaction{
		UserID:        "u1",
		Timestamp:     time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC).UnixMilli(),
		Type:          core.Expense,
		Category:      "Food",
		PaymentMethod: "Cash",
		Description:   "lunch",
		Amount:        12.5,
		Counterparty:  core.To("cafe"),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if txn.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := s.FindByID(ctx, txn.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Amount != 12.5 || !got.Counterparty.IsTo() || got.Counterparty.Name() != "cafe" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	got.Description = "late lunch"
	if err := s.UpdateByID(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.DeleteByID(ctx, got.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.FindByID(ctx, got.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestAggregateQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	day := func(d int) int64 { return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC).UnixMilli() }
	batch := []core.Transaction{
		{UserID: "u1", Timestamp: day(1), Type: core.Expense, Category: "c", PaymentMethod: "m", Description: "d", Amount: 10, Counterparty: core.To("x")},
		{UserID: "u1", Timestamp: day(1), Type: core.Income, Category: "c", PaymentMethod: "m", Description: "d", Amount: 100, Counterparty: core.From("y")},
		{UserID: "u1", Timestamp: day(3), Type: core.Expense, Category: "c", PaymentMethod: "m", Description: "d", Amount: 5, Counterparty: core.To("x")},
		{UserID: "u1", Timestamp: day(3), Type: core.Unsettled, Category: "c", PaymentMethod: "m", Description: "d", Amount: 7, Counterparty: core.To("z")},
	}
	inserted, err := s.InsertMany(ctx, batch)
	if err != nil {
		t.Fatalf("insert many: %v", err)
	}
	for i, txn := range inserted {
		if txn.ID == "" {
			t.Fatalf("batch entry %d has no id", i)
		}
	}

	p := store.ForUser("u1").Within(core.MonthWindow(2024, 3)).WithoutTypes(core.Unsettled)
	if n, err := s.Count(ctx, p); err != nil || n != 3 {
		t.Fatalf("count = %d (%v), want 3", n, err)
	}
	if sum, err := s.SumAmount(ctx, p.WithTypes(core.Expense)); err != nil || sum != 15 {
		t.Fatalf("sum = %v (%v), want 15", sum, err)
	}

	buckets, err := s.BucketedAggregate(ctx,
		store.ForUser("u1").WithTypes(core.Expense, core.Income).Within(core.MonthWindow(2024, 3)),
		store.BucketDaily)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := []core.StatsBucket{
		{Date: "2024-03-01", TotalDailyIncome: 100, TotalDailyExpense: 10},
		{Date: "2024-03-03", TotalDailyExpense: 5},
	}
	if len(buckets) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(buckets), len(want), buckets)
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, buckets[i], want[i])
		}
	}
}
