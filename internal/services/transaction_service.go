package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finflio/internal/core"
	"finflio/internal/events"
	"finflio/internal/log"
	"finflio/internal/stats"
	"finflio/internal/store"
)

// EventPublisher notifies downstream consumers about transaction writes.
// *events.Client satisfies it; a nil publisher disables notifications.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, transactionID, userID, action string) error
}

// TransactionService orchestrates transaction operations across the store
// and the event publisher.
type TransactionService struct {
	store    store.TransactionStore
	eventPub EventPublisher
	pageSize int
}

func NewTransactionService(s store.TransactionStore, pub EventPublisher, pageSize int) *TransactionService {
	if pageSize <= 0 {
		pageSize = core.DefaultPageSize
	}
	return &TransactionService{
		store:    s,
		eventPub: pub,
		pageSize: pageSize,
	}
}

// Create validates and stores a single transaction, then publishes a
// created event.
func (s *TransactionService) Create(ctx context.Context, userID string, in core.TransactionInput) (core.Transaction, error) {
	txn, err := in.Transaction(userID)
	if err != nil {
		return core.Transaction{}, err
	}

	txn, err = s.store.InsertOne(ctx, txn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	s.logWrite(ctx, log.OpCreate, txn)
	s.publish(ctx, txn.ID, userID, events.ActionCreated)
	return txn, nil
}

// CreateBatch validates every transaction up front, then stores them as a
// single acknowledged unit. Either all transactions land or none do. Every
// inserted transaction gets its own created event, same as single creates.
func (s *TransactionService) CreateBatch(ctx context.Context, userID string, ins []core.TransactionInput) error {
	txns := make([]core.Transaction, 0, len(ins))
	for _, in := range ins {
		txn, err := in.Transaction(userID)
		if err != nil {
			return err
		}
		txns = append(txns, txn)
	}

	inserted, err := s.store.InsertMany(ctx, txns)
	if err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}

	for _, txn := range inserted {
		s.publish(ctx, txn.ID, userID, events.ActionCreated)
	}
	return nil
}

// Get fetches one transaction by id.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.FindByID(ctx, id)
}

// Update validates and replaces the transaction stored under id.
func (s *TransactionService) Update(ctx context.Context, userID, id string, in core.TransactionInput) error {
	txn, err := in.Transaction(userID)
	if err != nil {
		return err
	}

	txn.ID = id
	if err := s.store.UpdateByID(ctx, txn); err != nil {
		return err
	}

	s.logWrite(ctx, log.OpUpdate, txn)
	s.publish(ctx, id, userID, events.ActionUpdated)
	return nil
}

// Delete removes one transaction by id.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction write completed",
		log.NewFields().
			WithComponent(log.ComponentService).
			WithOperation(log.OpDelete).
			WithUser(userID).
			Args()...)
	s.publish(ctx, id, userID, events.ActionDeleted)
	return nil
}

// ListAll returns one page of every transaction of the user, all types,
// ordered by timestamp ascending.
func (s *TransactionService) ListAll(ctx context.Context, userID string, page int) (core.Page, error) {
	return s.listPaged(ctx, store.ForUser(userID), store.SortTimestampAsc, page)
}

// ListFiltered returns one page of the user's settled transactions for the
// given month, ordered by timestamp ascending, along with the total page
// count and the month's expense total. Unsettled transactions are excluded
// from the page, the count and the total.
func (s *TransactionService) ListFiltered(ctx context.Context, userID string, year, month, page int) (core.Page, error) {
	offset, err := core.PageOffset(page, s.pageSize)
	if err != nil {
		return core.Page{}, err
	}

	w := core.MonthWindow(year, month)
	pred := store.ForUser(userID).Within(w).WithoutTypes(core.Unsettled)

	count, err := s.store.Count(ctx, pred)
	if err != nil {
		return core.Page{}, fmt.Errorf("count transactions: %w", err)
	}
	if count == 0 {
		return core.Page{}, core.ErrNoTransactions
	}

	txns, err := s.store.ListPage(ctx, pred, store.SortTimestampAsc, offset, s.pageSize)
	if err != nil {
		return core.Page{}, fmt.Errorf("list transactions: %w", err)
	}

	monthTotal, err := s.store.SumAmount(ctx, pred.WithTypes(core.Expense))
	if err != nil {
		return core.Page{}, fmt.Errorf("sum expenses: %w", err)
	}

	return core.Page{
		Items:      txns,
		TotalPages: core.TotalPages(count, s.pageSize),
		MonthTotal: monthTotal,
	}, nil
}

// ListUnsettled returns one page of the user's unsettled transactions
// ordered by timestamp descending, newest first.
func (s *TransactionService) ListUnsettled(ctx context.Context, userID string, page int) (core.Page, error) {
	pred := store.ForUser(userID).WithTypes(core.Unsettled)
	return s.listPaged(ctx, pred, store.SortTimestampDesc, page)
}

// listPaged runs the shared count-then-page sequence for the unfiltered
// listings. An empty result set is a not-found outcome.
func (s *TransactionService) listPaged(ctx context.Context, pred store.Predicate, order store.Sort, page int) (core.Page, error) {
	offset, err := core.PageOffset(page, s.pageSize)
	if err != nil {
		return core.Page{}, err
	}

	count, err := s.store.Count(ctx, pred)
	if err != nil {
		return core.Page{}, fmt.Errorf("count transactions: %w", err)
	}
	if count == 0 {
		return core.Page{}, core.ErrNoTransactions
	}

	txns, err := s.store.ListPage(ctx, pred, order, offset, s.pageSize)
	if err != nil {
		return core.Page{}, fmt.Errorf("list transactions: %w", err)
	}

	return core.Page{
		Items:      txns,
		TotalPages: core.TotalPages(count, s.pageSize),
	}, nil
}

// GetStats aggregates the user's settled income and expense totals over the
// week, month and year containing ref. The three aggregations run
// concurrently; every series is gap-filled so missing days and months show
// up as zero buckets.
func (s *TransactionService) GetStats(ctx context.Context, userID string, ref time.Time) (core.Stats, error) {
	week := core.WeekWindow(ref)
	month := core.MonthWindow(ref.Year(), int(ref.Month()))
	year := core.YearWindow(ref.Year())

	settled := store.ForUser(userID).WithTypes(core.Expense, core.Income)

	var weekly, monthly, yearly []core.StatsBucket
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekly, err = s.store.BucketedAggregate(gctx, settled.Within(week), store.BucketDaily)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.store.BucketedAggregate(gctx, settled.Within(month), store.BucketDaily)
		return err
	})
	g.Go(func() error {
		var err error
		yearly, err = s.store.BucketedAggregate(gctx, settled.Within(year), store.BucketMonthly)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}

	slog.DebugContext(ctx, "Stats aggregated",
		log.NewFields().
			WithComponent(log.ComponentService).
			WithOperation(log.OpStats).
			WithUser(userID).
			Args()...)
	return stats.Assemble(weekly, monthly, yearly, week, month, year), nil
}

func (s *TransactionService) logWrite(ctx context.Context, op string, txn core.Transaction) {
	slog.InfoContext(ctx, "Transaction write completed",
		log.NewFields().
			WithComponent(log.ComponentService).
			WithOperation(op).
			WithUser(txn.UserID).
			WithTransaction(txn.ID, string(txn.Type), txn.Amount).
			Args()...)
}

func (s *TransactionService) publish(ctx context.Context, transactionID, userID, action string) {
	if s.eventPub == nil {
		return
	}
	if err := s.eventPub.PublishTransactionEvent(ctx, transactionID, userID, action); err != nil {
		// Don't fail the request - the write already landed in the store.
		args := log.NewFields().
			WithComponent(log.ComponentEvents).
			WithError(err).
			WithUser(userID).
			Args()
		args = append(args, log.FieldTransactionID, transactionID, "action", action)
		slog.ErrorContext(ctx, "Failed to publish transaction event", args...)
	}
}
