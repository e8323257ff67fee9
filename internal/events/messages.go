package events

import (
	"encoding/json"
	"time"
)

// Actions carried by TransactionEventMessage.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEventMessage is a lightweight notification about a transaction
// write. It carries only identifiers, the worker fetches the full transaction
// from the store.
type TransactionEventMessage struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(transactionID, userID, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
