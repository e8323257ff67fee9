package google

import (
	"context"
	"strings"
	"testing"
	"time"

	"finflio/internal/core"
)

func TestNewRejectsIncompleteOptions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"missing spreadsheet", Options{SheetName: "Ledger"}, "missing spreadsheet id"},
		{"missing sheet name", Options{SpreadsheetID: "sheet-id"}, "missing sheet name"},
		{
			"missing credentials",
			Options{SpreadsheetID: "sheet-id", SheetName: "Ledger"},
			"missing service account credentials",
		},
		{
			"unreadable credentials file",
			Options{SpreadsheetID: "sheet-id", SheetName: "Ledger", CredentialsFile: "/nonexistent/creds.json"},
			"read credentials file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestAppendRequiresService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", sheetName: "Ledger"} // svc is nil

	err := c.Append(context.Background(), core.Transaction{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "sheets service not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLedgerRow(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC).UnixMilli()
	txn := core.Transaction{
		Timestamp:     ts,
		Type:          core.Expense,
		Category:      "Food",
		PaymentMethod: "Cash",
		Description:   "lunch",
		Amount:        12.5,
		Counterparty:  core.To("cafe"),
	}

	row := ledgerRow(txn)
	want := []any{"2024-03-05 14:30", "Expense", "Food", "Cash", "lunch", 12.5, "to cafe"}
	if len(row) != len(want) {
		t.Fatalf("row has %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestCounterpartyCell(t *testing.T) {
	tests := []struct {
		name string
		cp   core.Counterparty
		want string
	}{
		{"to party", core.To("shop"), "to shop"},
		{"from party", core.From("employer"), "from employer"},
		{"no party", core.Counterparty{}, ""},
	}
	for _, tt := range tests {
		if got := counterpartyCell(tt.cp); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
