// Package store defines the ports the query service speaks to a document
// store through, plus the typed predicate that replaces hand-written
// aggregation pipelines.
package store

import (
	"context"

	"finflio/internal/core"
)

type (
	// TransactionStore is the storage contract for transaction documents.
	// Implementations assign an id on insert when one is absent, and
	// return core.ErrTransactionNotFound for lookups of unknown ids.
	TransactionStore interface {
		InsertOne(ctx context.Context, txn core.Transaction) (core.Transaction, error)

		// InsertMany inserts the batch as a single acknowledged unit and
		// returns it with ids assigned.
		InsertMany(ctx context.Context, txns []core.Transaction) ([]core.Transaction, error)

		FindByID(ctx context.Context, id string) (core.Transaction, error)
		UpdateByID(ctx context.Context, txn core.Transaction) error
		DeleteByID(ctx context.Context, id string) error

		Count(ctx context.Context, p Predicate) (int, error)

		// SumAmount sums the amount field over every matching transaction.
		SumAmount(ctx context.Context, p Predicate) (float64, error)

		// ListPage returns matching transactions ordered by timestamp,
		// skipping skip records and returning at most limit. A negative
		// limit returns everything after skip.
		ListPage(ctx context.Context, p Predicate, sort Sort, skip, limit int) ([]core.Transaction, error)

		// BucketedAggregate groups matching transactions by the bucket key
		// of their timestamp and sums income and expense amounts per
		// bucket. Buckets with no matches are absent from the result.
		BucketedAggregate(ctx context.Context, p Predicate, b Bucket) ([]core.StatsBucket, error)
	}

	// UserStore is the storage contract for user accounts. FindUserByEmail
	// returns core.ErrUserNotFound for unknown emails.
	UserStore interface {
		InsertUser(ctx context.Context, u core.User) error
		FindUserByEmail(ctx context.Context, email string) (core.User, error)
	}
)
