// Package export defines the outbound port for mirroring transactions to
// an external ledger.
package export

import (
	"context"

	"finflio/internal/core"
)

// LedgerWriter appends a transaction to the external ledger.
type LedgerWriter interface {
	Append(ctx context.Context, txn core.Transaction) error
}
