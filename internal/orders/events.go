package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// Decimal amounts travel as strings so consumers never touch floats.

type ItemSnapshot struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type OrderPlacedPayload struct {
	OrderID string         `json:"order_id"`
	UserID  string         `json:"user_id"`
	Items   []ItemSnapshot `json:"items"`
	Total   string         `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}
