package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"expbook/internal/core"
)

// EventType names a change to the expense collection.
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventUpdated EventType = "expense.updated"
	EventDeleted EventType = "expense.deleted"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	default:
		return false
	}
}

// ExpenseEvent carries the state of an expense right after a change.
// For deletions the fields hold the values the record had when removed.
type ExpenseEvent struct {
	Type      EventType       `json:"type"`
	ExpenseID string          `json:"expense_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Comment   string          `json:"comment"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewExpenseEvent(t EventType, e core.ExpenseView) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      t,
		ExpenseID: e.ID,
		Name:      e.Name,
		Amount:    e.Amount,
		Date:      e.Date,
		Comment:   e.Comment,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event and rejects unknown types or a
// missing expense id.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ExpenseID == "" {
		return nil, fmt.Errorf("event without expense id")
	}
	return &msg, nil
}
