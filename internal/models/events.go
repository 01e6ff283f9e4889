package models

import "time"

// Journal event type constants
const (
	EventTradeRecorded       = "TRADE_RECORDED"
	EventTradeUpdated        = "TRADE_UPDATED"
	EventTradeDeleted        = "TRADE_DELETED"
	EventTransactionRecorded = "TRANSACTION_RECORDED"
)

// JournalEvent is published to Kafka whenever a journal entity changes.
type JournalEvent struct {
	EventType   string       `json:"event_type"`
	Trade       *Trade       `json:"trade,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
	AccountID   string       `json:"account_id"`
	Timestamp   time.Time    `json:"timestamp"`
}

// ExecutionEvent is an inbound broker event describing a closed position.
// The import consumer turns these into direct-P/L journal trades.
type ExecutionEvent struct {
	EventType string        `json:"event_type"`
	Source    string        `json:"source"`
	Data      ExecutionData `json:"data"`
}

// ExecutionData carries the broker's fields. Numeric values arrive as strings
// because brokers disagree on precision; they are parsed with decimal.
type ExecutionData struct {
	OrderID     string  `json:"order_id"`
	AccountID   string  `json:"account_id"`
	Symbol      string  `json:"symbol"`
	Side        string  `json:"side"`
	RealizedPnl string  `json:"realized_pnl"`
	Fees        string  `json:"fees,omitempty"`
	OpenedAt    *string `json:"opened_at,omitempty"`
	ClosedAt    *string `json:"closed_at,omitempty"`
}
