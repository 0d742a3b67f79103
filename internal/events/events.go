// Package events publishes ledger changes (new expenses, settlements) so
// other systems can follow a household without polling the API.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Event types.
const (
	ExpenseCreated     = "expense.created"
	ExpenseUpdated     = "expense.updated"
	ExpenseDeleted     = "expense.deleted"
	SettlementRecorded = "settlement.recorded"
)

// Event describes one change to a household ledger.
type Event struct {
	Type        string          `json:"type"`
	HouseholdID string          `json:"household_id,omitempty"`
	EntityID    string          `json:"entity_id"`
	ActorID     string          `json:"actor_id"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// ToJSON encodes the event as a message body.
func (e Event) ToJSON() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return body, nil
}

// EventFromJSON decodes a message body.
func EventFromJSON(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
