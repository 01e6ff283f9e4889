package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type constants
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
)

// Account is a named, currency-denominated balance container. Balance is the
// authoritative current balance: every trade and transaction adjusts it
// incrementally, and historical balances are reconstructed only for display.
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Number    string          `json:"number,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is a deposit into or withdrawal from one account.
// Amount is always positive; the type carries the sign.
type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	CreatedAt time.Time       `json:"created_at"`
}

// SignedAmount returns the transaction's effect on its account balance:
// positive for deposits, negative for withdrawals.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Strategy is a playbook entry. Trades reference it by name only; no
// referential integrity is enforced.
type Strategy struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
