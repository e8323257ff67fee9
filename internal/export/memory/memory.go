// Package memory implements the ledger export port in memory, for local
// runs and tests.
package memory

import (
	"context"
	"sync"

	"finflio/internal/core"
	"finflio/internal/export"
)

type Writer struct {
	mu   sync.Mutex
	rows []core.Transaction
}

var _ export.LedgerWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(_ context.Context, txn core.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, txn)
	return nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []core.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.Transaction(nil), w.rows...)
}
