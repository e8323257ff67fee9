package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finflio/internal/core"
	"finflio/internal/store/memory"
)

type recordingPublisher struct {
	actions []string
	ids     []string
	err     error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, transactionID, _, action string) error {
	p.actions = append(p.actions, action)
	p.ids = append(p.ids, transactionID)
	return p.err
}

func validInput(ts int64, typ string, amount float64) core.TransactionInput {
	in := core.TransactionInput{
		Timestamp:     ts,
		Type:          typ,
		Category:      "Food",
		PaymentMethod: "Cash",
		Description:   "weekly groceries",
		Amount:        amount,
	}
	if typ == string(core.Income) {
		in.From = "employer"
	} else {
		in.To = "shop"
	}
	return in
}

func marchMillis(day, hour int) int64 {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func newTestService(t *testing.T, pub EventPublisher, pageSize int) *TransactionService {
	t.Helper()
	return NewTransactionService(memory.New(), pub, pageSize)
}

func TestCreatePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub, 10)
	ctx := context.Background()

	txn, err := svc.Create(ctx, "u1", validInput(marchMillis(1, 10), string(core.Expense), 12))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if len(pub.actions) != 1 || pub.actions[0] != "created" {
		t.Fatalf("published actions = %v", pub.actions)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub, 10)

	in := validInput(marchMillis(1, 10), string(core.Expense), 0)
	_, err := svc.Create(context.Background(), "u1", in)
	if !core.IsConflict(err) {
		t.Fatalf("want conflict error, got %v", err)
	}
	if err.Error() != "Amount must be greater than 0" {
		t.Fatalf("message = %q", err.Error())
	}
	if len(pub.actions) != 0 {
		t.Fatalf("no event expected, got %v", pub.actions)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub, 10)

	if _, err := svc.Create(context.Background(), "u1", validInput(marchMillis(1, 10), string(core.Expense), 12)); err != nil {
		t.Fatalf("create must not fail on publish error: %v", err)
	}
}

func TestCreateBatchAllOrNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub, 10)
	ctx := context.Background()

	ins := []core.TransactionInput{
		validInput(marchMillis(1, 10), string(core.Expense), 10),
		validInput(marchMillis(2, 10), string(core.Income), 0), // invalid
	}
	if err := svc.CreateBatch(ctx, "u1", ins); !core.IsConflict(err) {
		t.Fatalf("want conflict error, got %v", err)
	}
	if _, err := svc.ListAll(ctx, "u1", 1); !errors.Is(err, core.ErrNoTransactions) {
		t.Fatalf("store must stay empty, got %v", err)
	}
	if len(pub.actions) != 0 {
		t.Fatalf("rejected batch must not publish, got %v", pub.actions)
	}

	ins[1] = validInput(marchMillis(2, 10), string(core.Income), 100)
	if err := svc.CreateBatch(ctx, "u1", ins); err != nil {
		t.Fatalf("create batch: %v", err)
	}

	// One created event per inserted transaction, each with its id.
	if len(pub.actions) != 2 {
		t.Fatalf("got %d events, want 2", len(pub.actions))
	}
	for i, action := range pub.actions {
		if action != "created" {
			t.Fatalf("event %d action = %q, want created", i, action)
		}
		if pub.ids[i] == "" {
			t.Fatalf("event %d has no transaction id", i)
		}
	}
	all, err := svc.ListAll(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("got %d transactions, want 2", len(all.Items))
	}
	if all.TotalPages != 1 {
		t.Fatalf("total pages = %d, want 1", all.TotalPages)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub, 10)
	ctx := context.Background()

	txn, err := svc.Create(ctx, "u1", validInput(marchMillis(1, 10), string(core.Expense), 12))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput(marchMillis(1, 12), string(core.Expense), 15)
	if err := svc.Update(ctx, "u1", txn.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(ctx, txn.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 15 {
		t.Fatalf("amount = %v, want 15", got.Amount)
	}

	if err := svc.Delete(ctx, "u1", txn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, txn.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	want := []string{"created", "updated", "deleted"}
	if len(pub.actions) != len(want) {
		t.Fatalf("actions = %v", pub.actions)
	}
	for i := range want {
		if pub.actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", pub.actions, want)
		}
	}
}

func TestUpdateUnknownIDNotFound(t *testing.T) {
	svc := newTestService(t, nil, 10)
	in := validInput(marchMillis(1, 10), string(core.Expense), 12)
	if err := svc.Update(context.Background(), "u1", "missing", in); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestListFiltered(t *testing.T) {
	svc := newTestService(t, nil, 2)
	ctx := context.Background()

	seed := []core.TransactionInput{
		validInput(marchMillis(1, 10), string(core.Expense), 10),
		validInput(marchMillis(2, 10), string(core.Income), 100),
		validInput(marchMillis(3, 10), string(core.Expense), 5),
		validInput(marchMillis(4, 10), string(core.Unsettled), 7),
		validInput(time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), string(core.Expense), 99),
	}
	if err := svc.CreateBatch(ctx, "u1", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	page, err := svc.ListFiltered(ctx, "u1", 2024, 3, 1)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	// Three settled transactions in March across page size 2.
	if page.TotalPages != 2 {
		t.Fatalf("total pages = %d, want 2", page.TotalPages)
	}
	// Expense-only sum, the April expense and the unsettled one are out.
	if page.MonthTotal != 15 {
		t.Fatalf("month total = %v, want 15", page.MonthTotal)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}
	if page.Items[0].Timestamp > page.Items[1].Timestamp {
		t.Fatalf("page must be ascending by timestamp")
	}
	for _, txn := range page.Items {
		if txn.Type == core.Unsettled {
			t.Fatalf("unsettled transaction leaked into page: %+v", txn)
		}
	}

	second, err := svc.ListFiltered(ctx, "u1", 2024, 3, 2)
	if err != nil {
		t.Fatalf("list filtered page 2: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("got %d items on page 2, want 1", len(second.Items))
	}
}

func TestListFilteredInvalidPage(t *testing.T) {
	svc := newTestService(t, nil, 10)
	if _, err := svc.ListFiltered(context.Background(), "u1", 2024, 3, 0); !errors.Is(err, core.ErrInvalidPage) {
		t.Fatalf("want invalid page, got %v", err)
	}
}

func TestListFilteredEmptyMonth(t *testing.T) {
	svc := newTestService(t, nil, 10)
	if _, err := svc.ListFiltered(context.Background(), "u1", 2024, 3, 1); !errors.Is(err, core.ErrNoTransactions) {
		t.Fatalf("want no transactions, got %v", err)
	}
}

func TestListUnsettledNewestFirst(t *testing.T) {
	svc := newTestService(t, nil, 10)
	ctx := context.Background()

	seed := []core.TransactionInput{
		validInput(marchMillis(1, 10), string(core.Unsettled), 7),
		validInput(marchMillis(5, 10), string(core.Unsettled), 9),
		validInput(marchMillis(3, 10), string(core.Expense), 10),
	}
	if err := svc.CreateBatch(ctx, "u1", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	unsettled, err := svc.ListUnsettled(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("list unsettled: %v", err)
	}
	if len(unsettled.Items) != 2 {
		t.Fatalf("got %d unsettled, want 2", len(unsettled.Items))
	}
	if unsettled.Items[0].Timestamp < unsettled.Items[1].Timestamp {
		t.Fatalf("unsettled list must be descending by timestamp")
	}
	if unsettled.TotalPages != 1 {
		t.Fatalf("total pages = %d, want 1", unsettled.TotalPages)
	}

	if _, err := svc.ListUnsettled(ctx, "u2", 1); !errors.Is(err, core.ErrNoTransactions) {
		t.Fatalf("want no transactions, got %v", err)
	}
}

func TestGetStatsGapFilled(t *testing.T) {
	svc := newTestService(t, nil, 10)
	ctx := context.Background()

	// 2024-03-06 is a Wednesday, its week runs Mon 2024-03-04 to Sun 2024-03-10.
	ref := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)
	seed := []core.TransactionInput{
		validInput(marchMillis(5, 10), string(core.Expense), 10),
		validInput(marchMillis(5, 12), string(core.Income), 100),
		validInput(marchMillis(20, 10), string(core.Expense), 5),
		validInput(marchMillis(6, 10), string(core.Unsettled), 7),
		validInput(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC).UnixMilli(), string(core.Income), 50),
	}
	if err := svc.CreateBatch(ctx, "u1", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.GetStats(ctx, "u1", ref)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}

	if len(got.WeeklyData) != 7 {
		t.Fatalf("weekly buckets = %d, want 7", len(got.WeeklyData))
	}
	if got.WeeklyData[0].Date != "2024-03-04" || got.WeeklyData[6].Date != "2024-03-10" {
		t.Fatalf("weekly range = %s..%s", got.WeeklyData[0].Date, got.WeeklyData[6].Date)
	}
	if got.WeeklyData[1].TotalDailyExpense != 10 || got.WeeklyData[1].TotalDailyIncome != 100 {
		t.Fatalf("2024-03-05 bucket = %+v", got.WeeklyData[1])
	}
	// The unsettled transaction on the 6th must not count.
	if got.WeeklyData[2].TotalDailyExpense != 0 || got.WeeklyData[2].TotalDailyIncome != 0 {
		t.Fatalf("2024-03-06 bucket = %+v", got.WeeklyData[2])
	}

	if len(got.MonthlyData) != 31 {
		t.Fatalf("monthly buckets = %d, want 31", len(got.MonthlyData))
	}
	if got.MonthlyData[19].Date != "2024-03-20" || got.MonthlyData[19].TotalDailyExpense != 5 {
		t.Fatalf("2024-03-20 bucket = %+v", got.MonthlyData[19])
	}

	if len(got.YearlyData) != 12 {
		t.Fatalf("yearly buckets = %d, want 12", len(got.YearlyData))
	}
	if got.YearlyData[0].Date != "2024-01" || got.YearlyData[0].TotalDailyIncome != 50 {
		t.Fatalf("2024-01 bucket = %+v", got.YearlyData[0])
	}
	if got.YearlyData[2].TotalDailyExpense != 15 || got.YearlyData[2].TotalDailyIncome != 100 {
		t.Fatalf("2024-03 bucket = %+v", got.YearlyData[2])
	}
}
