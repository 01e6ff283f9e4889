package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument type constants
const (
	InstrumentStock    = "STOCK"
	InstrumentForex    = "FOREX"
	InstrumentCrypto   = "CRYPTO"
	InstrumentIndexCFD = "INDEX-CFD"
)

// Trade direction constants
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

// Entry mode constants. The mode is fixed when a trade is created: a trade
// recorded as a direct P/L figure never gains entry/exit prices later, and a
// detailed trade never collapses into a bare P/L figure.
const (
	EntryModeDetailed = "detailed"
	EntryModeDirect   = "direct"
)

// Emotional state constants
const (
	EmotionNeutral   = "NEUTRAL"
	EmotionConfident = "CONFIDENT"
	EmotionFearful   = "FEARFUL"
	EmotionGreedy    = "GREEDY"
)

// Trade represents a closed position or a direct P/L journal entry.
//
// Exactly one financial representation is populated, selected by EntryMode:
// detailed trades carry EntryPrice/ExitPrice/Quantity, direct trades carry
// RealizedPL. Commission applies to both. Dates and times are kept as the
// local strings the journal UI submits ("2006-01-02" and "15:04").
type Trade struct {
	ID              string           `json:"id"`
	AccountID       string           `json:"account_id"`
	InstrumentType  string           `json:"instrument_type"`
	Direction       string           `json:"direction"`
	Symbol          string           `json:"symbol"`
	Timeframe       string           `json:"timeframe,omitempty"`
	EmotionalState  string           `json:"emotional_state,omitempty"`
	Strategy        string           `json:"strategy,omitempty"`
	Setup           string           `json:"setup,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	EntryDate       string           `json:"entry_date"`
	EntryTime       string           `json:"entry_time"`
	ExitDate        string           `json:"exit_date"`
	ExitTime        string           `json:"exit_time"`
	EntryMode       string           `json:"entry_mode"`
	EntryPrice      *decimal.Decimal `json:"entry_price,omitempty"`
	ExitPrice       *decimal.Decimal `json:"exit_price,omitempty"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	RealizedPL      *decimal.Decimal `json:"realized_pl,omitempty"`
	Commission      decimal.Decimal  `json:"commission"`
	EntryScreenshot string           `json:"entry_screenshot,omitempty"`
	ExitScreenshot  string           `json:"exit_screenshot,omitempty"`
	ImportRef       string           `json:"import_ref,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
