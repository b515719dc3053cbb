package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
)

type Kind string

const (
	TransactionCreated Kind = "transaction.created"
	TransactionUpdated Kind = "transaction.updated"
	TransactionDeleted Kind = "transaction.deleted"
)

// TransactionEvent announces a committed change to a transaction. Consumers
// fetch the row themselves; the event only identifies it.
type TransactionEvent struct {
	Kind          Kind      `json:"kind"`
	TransactionID uuid.UUID `json:"transactionID"`
	UserID        uuid.UUID `json:"userID"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(kind Kind, transactionID, userID uuid.UUID) TransactionEvent {
	return TransactionEvent{
		Kind:          kind,
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now().UTC(),
	}
}

func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to whoever listens.
type Publisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TransactionEvent) error {
	return nil
}
