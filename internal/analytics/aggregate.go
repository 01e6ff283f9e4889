package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/models"
)

// TransactionTotals holds the summed deposit and withdrawal amounts for an
// account. Both are non-negative because transaction amounts are positive by
// construction.
type TransactionTotals struct {
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
}

// SumTransactions totals deposits and withdrawals separately.
func SumTransactions(transactions []models.Transaction) TransactionTotals {
	totals := TransactionTotals{Deposits: decimal.Zero, Withdrawals: decimal.Zero}
	for _, tx := range transactions {
		if tx.Type == models.TransactionDeposit {
			totals.Deposits = totals.Deposits.Add(tx.Amount)
		} else {
			totals.Withdrawals = totals.Withdrawals.Add(tx.Amount)
		}
	}
	return totals
}

// CurrentBalance applies a set of transactions to an initial balance. The
// signed sum is commutative, so transaction order does not matter here.
func CurrentBalance(initial decimal.Decimal, transactions []models.Transaction) decimal.Decimal {
	balance := initial
	for _, tx := range transactions {
		balance = balance.Add(tx.SignedAmount())
	}
	return balance
}
