// Package events announces ledger changes to other systems.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type names a ledger change. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseRecorded    Type = "expense.recorded"
	ExpenseDeleted     Type = "expense.deleted"
	SettlementRecorded Type = "settlement.recorded"
	SettlementDeleted  Type = "settlement.deleted"
)

// Event is the message published after a ledger write.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	GroupID    string          `json:"group_id"`
	RecordID   string          `json:"record_id"`
	ActorID    string          `json:"actor_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds an event with a fresh ID and the current time.
func New(typ Type, groupID, recordID, actorID string, amount decimal.Decimal) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       typ,
		GroupID:    groupID,
		RecordID:   recordID,
		ActorID:    actorID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON encodes the event for the wire.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event published by ToJSON.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// Publisher delivers ledger change events.
//
//go:generate mockgen -destination=mocks/mock_events.go -source=events.go Publisher
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
