package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"dompetku/internal/core"
)

// TransactionEventMessage is the wire form of a change event. It carries only
// the record ID; consumers fetch the current record from the store.
type TransactionEventMessage struct {
	Kind      core.EventKind `json:"kind"`
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewTransactionEventMessage wraps ev, stamping the current time when ev has none.
func NewTransactionEventMessage(ev core.TransactionEvent) *TransactionEventMessage {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &TransactionEventMessage{Kind: ev.Kind, ID: ev.ID, Timestamp: ts}
}

// Event converts the message back to the domain event.
func (m *TransactionEventMessage) Event() core.TransactionEvent {
	return core.TransactionEvent{Kind: m.Kind, ID: m.ID, Timestamp: m.Timestamp}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON decodes and validates a message.
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Kind {
	case core.EventCreated, core.EventUpdated, core.EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("event without id")
	}
	return &msg, nil
}
