package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"finflio/internal/core"
)

// Every payload carries the status code and a human message alongside its
// data, so clients can render outcomes without inspecting transport codes.

type failureResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type authResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type transactionResponse struct {
	Status      int             `json:"status"`
	Message     string          `json:"message"`
	Transaction *transactionDTO `json:"transaction,omitempty"`
}

type transactionsResponse struct {
	Status       int              `json:"status"`
	Message      string           `json:"message"`
	MonthTotal   float64          `json:"monthTotal"`
	Transactions []transactionDTO `json:"transactions"`
	TotalPages   int              `json:"totalPages"`
}

type statsResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Stats   *core.Stats `json:"stats,omitempty"`
}

// transactionDTO is the wire shape of a transaction. The Counterparty
// variant flattens to the from/to pair clients expect.
type transactionDTO struct {
	ID            string  `json:"id,omitempty"`
	Timestamp     int64   `json:"timestamp"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Attachment    string  `json:"attachment,omitempty"`
	From          string  `json:"from,omitempty"`
	To            string  `json:"to,omitempty"`
}

func toDTO(txn core.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:            txn.ID,
		Timestamp:     txn.Timestamp,
		Type:          string(txn.Type),
		Category:      txn.Category,
		PaymentMethod: txn.PaymentMethod,
		Description:   txn.Description,
		Amount:        txn.Amount,
		Attachment:    txn.Attachment,
	}
	if txn.Counterparty.IsTo() {
		dto.To = txn.Counterparty.Name()
	} else {
		dto.From = txn.Counterparty.Name()
	}
	return dto
}

func toDTOs(txns []core.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, 0, len(txns))
	for _, txn := range txns {
		dtos = append(dtos, toDTO(txn))
	}
	return dtos
}

func (dto transactionDTO) input() core.TransactionInput {
	return core.TransactionInput{
		Timestamp:     dto.Timestamp,
		Type:          dto.Type,
		Category:      dto.Category,
		PaymentMethod: dto.PaymentMethod,
		Description:   dto.Description,
		Amount:        dto.Amount,
		Attachment:    dto.Attachment,
		From:          dto.From,
		To:            dto.To,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, r, statusCode, failureResponse{Status: statusCode, Message: message})
}
