// Package google implements the ledger export port on the Google Sheets API
// with service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finflio/internal/core"
	"finflio/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.LedgerWriter = (*Client)(nil)

// Options configures the sheets client. Exactly one of CredentialsFile and
// CredentialsJSON must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if opts.SheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	var credentialsJSON []byte
	switch {
	case opts.CredentialsJSON != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case opts.CredentialsFile != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

// Append adds the transaction as a new row at the bottom of the sheet.
func (c *Client) Append(ctx context.Context, txn core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{ledgerRow(txn)}}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// ledgerRow shapes a transaction into the A:G sheet columns.
func ledgerRow(txn core.Transaction) []any {
	return []any{
		time.UnixMilli(txn.Timestamp).UTC().Format("2006-01-02 15:04"),
		string(txn.Type),
		txn.Category,
		txn.PaymentMethod,
		txn.Description,
		txn.Amount,
		counterpartyCell(txn.Counterparty),
	}
}

func counterpartyCell(cp core.Counterparty) string {
	if cp.IsZero() {
		return ""
	}
	if cp.IsTo() {
		return "to " + cp.Name()
	}
	return "from " + cp.Name()
}
