package core

import (
	"errors"
	"strings"
)

const (
	Expense   TransactionType = "Expense"
	Income    TransactionType = "Income"
	Unsettled TransactionType = "Unsettled"
)

// attachmentPrefix is the approved external storage host for receipt images.
const attachmentPrefix = "https://res.cloudinary.com/"

type (
	TransactionType string

	// Counterparty is the single "from" or "to" party of a transaction.
	// The zero value means no party set; construct via From or To so that
	// the illegal "both set" state cannot be represented.
	Counterparty struct {
		name string
		to   bool
	}

	// Transaction is a financial record owned by exactly one user.
	// Timestamp is epoch milliseconds.
	Transaction struct {
		ID            string
		UserID        string
		Timestamp     int64
		Type          TransactionType
		Category      string
		PaymentMethod string
		Description   string
		Amount        float64
		Attachment    string
		Counterparty  Counterparty
	}
)

// ConflictError is a business-rule rejection with a caller-facing message.
type ConflictError string

func (e ConflictError) Error() string { return string(e) }

const (
	ErrEmptyTimestamp     ConflictError = "Timestamp cannot be empty"
	ErrEmptyType          ConflictError = "Type cannot be empty"
	ErrInvalidType        ConflictError = "Type must be one of the following: Expense, Income, Unsettled"
	ErrEmptyCategory      ConflictError = "Category cannot be empty"
	ErrEmptyPaymentMethod ConflictError = "PaymentMethod cannot be empty"
	ErrEmptyDescription   ConflictError = "Description cannot be empty"
	ErrInvalidAmount      ConflictError = "Amount must be greater than 0"
	ErrInvalidAttachment  ConflictError = "Attachment must be a cloudinary url"
	ErrBothParties        ConflictError = "From and to fields are mutually exclusive"
	ErrNoParty            ConflictError = "One of the from and to fields must be filled"
	ErrExpenseNeedsTo     ConflictError = "To field must be filled for expense transactions"
	ErrIncomeNeedsFrom    ConflictError = "From field must be filled for income transactions"
)

var (
	// ErrTransactionNotFound signals a lookup by an id that does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNoTransactions is the not-found outcome of a listing with zero matches.
	// It is a typed empty result, not a failure.
	ErrNoTransactions = errors.New("no transactions")
)

// IsConflict reports whether err is a business-rule rejection.
func IsConflict(err error) bool {
	var c ConflictError
	return errors.As(err, &c)
}

// From builds the counterparty a transaction was received from.
func From(name string) Counterparty { return Counterparty{name: name} }

// To builds the counterparty a transaction was paid to.
func To(name string) Counterparty { return Counterparty{name: name, to: true} }

func (c Counterparty) Name() string { return c.name }
func (c Counterparty) IsTo() bool   { return c.to }
func (c Counterparty) IsZero() bool { return c.name == "" }

// TransactionInput is the not-yet-validated shape of a create/update request,
// with from/to still as two optional fields.
type TransactionInput struct {
	Timestamp     int64
	Type          string
	Category      string
	PaymentMethod string
	Description   string
	Amount        float64
	Attachment    string
	From          string
	To            string
}

// Validate applies the business rules for create and update. Every violation
// is a ConflictError with a deterministic message.
func (in TransactionInput) Validate() error {
	if in.Timestamp == 0 {
		return ErrEmptyTimestamp
	}
	switch TransactionType(in.Type) {
	case "":
		return ErrEmptyType
	case Expense, Income, Unsettled:
	default:
		return ErrInvalidType
	}
	if in.Category == "" {
		return ErrEmptyCategory
	}
	if in.PaymentMethod == "" {
		return ErrEmptyPaymentMethod
	}
	if in.Description == "" {
		return ErrEmptyDescription
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if in.Attachment != "" && !strings.HasPrefix(in.Attachment, attachmentPrefix) {
		return ErrInvalidAttachment
	}
	from := strings.TrimSpace(in.From)
	to := strings.TrimSpace(in.To)
	switch {
	case from != "" && to != "":
		return ErrBothParties
	case from == "" && to == "":
		return ErrNoParty
	}
	if TransactionType(in.Type) == Expense && to == "" {
		return ErrExpenseNeedsTo
	}
	if TransactionType(in.Type) == Income && from == "" {
		return ErrIncomeNeedsFrom
	}
	return nil
}

// Transaction validates the input and binds it to a user. The id is left
// empty; the store assigns one on insert.
func (in TransactionInput) Transaction(userID string) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	cp := From(strings.TrimSpace(in.From))
	if to := strings.TrimSpace(in.To); to != "" {
		cp = To(to)
	}
	return Transaction{
		UserID:        userID,
		Timestamp:     in.Timestamp,
		Type:          TransactionType(in.Type),
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
		Description:   in.Description,
		Amount:        in.Amount,
		Attachment:    in.Attachment,
		Counterparty:  cp,
	}, nil
}
