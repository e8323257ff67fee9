// Package worker mirrors transaction writes to the external ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finflio/internal/core"
	"finflio/internal/events"
	"finflio/internal/export"
	"finflio/internal/store"
)

// ExportWorker consumes transaction events and appends the affected
// transactions to the ledger.
type ExportWorker struct {
	store  store.TransactionStore
	ledger export.LedgerWriter
}

func NewExportWorker(s store.TransactionStore, ledger export.LedgerWriter) *ExportWorker {
	return &ExportWorker{
		store:  s,
		ledger: ledger,
	}
}

// HandleEvent processes a single transaction event. Only created events
// produce a ledger row, updates and deletes are acknowledged and skipped.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *events.TransactionEventMessage) error {
	if msg.Action != events.ActionCreated {
		slog.DebugContext(ctx, "Skipping non-create event",
			"transaction_id", msg.TransactionID,
			"action", msg.Action)
		return nil
	}

	txn, err := w.store.FindByID(ctx, msg.TransactionID)
	if err != nil {
		// The transaction may have been deleted before we got here. There
		// is nothing to export, requeueing would loop forever.
		if errors.Is(err, core.ErrTransactionNotFound) {
			slog.WarnContext(ctx, "Transaction gone before export",
				"transaction_id", msg.TransactionID)
			return nil
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	if err := w.ledger.Append(ctx, txn); err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction to ledger",
		"transaction_id", txn.ID,
		"type", string(txn.Type),
		"amount", txn.Amount)
	return nil
}

// Run consumes events from the client until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *events.Client) error {
	return client.ConsumeTransactionEvents(ctx, func(msg *events.TransactionEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
}
