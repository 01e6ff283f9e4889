package analytics

import (
	"sort"

	"github.com/calebmorris/trade-journal/internal/models"
)

// AccountAll selects every account when passed as an account filter.
const AccountAll = "all"

// FilterTradesByAccount returns the trades belonging to the given account,
// or all trades when accountID is AccountAll.
func FilterTradesByAccount(trades []models.Trade, accountID string) []models.Trade {
	if accountID == AccountAll {
		return trades
	}
	filtered := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.AccountID == accountID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// FilterTransactionsByAccount returns the transactions belonging to the given
// account, or all of them when accountID is AccountAll.
func FilterTransactionsByAccount(transactions []models.Transaction, accountID string) []models.Transaction {
	if accountID == AccountAll {
		return transactions
	}
	filtered := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.AccountID == accountID {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// SortTradesByExitDate returns a copy of trades ordered by exit timestamp,
// ascending. Trades whose exit date or time cannot be parsed sort after all
// dated trades, keeping their input order, so a single bad entry cannot
// scramble the rest of the series.
func SortTradesByExitDate(trades []models.Trade) []models.Trade {
	type keyed struct {
		trade models.Trade
		ts    int64
		dated bool
	}
	sorted := make([]keyed, len(trades))
	for i, t := range trades {
		sorted[i] = keyed{trade: t}
		if ts, err := combineDateTime(t.ExitDate, t.ExitTime); err == nil {
			sorted[i].ts = ts.UnixNano()
			sorted[i].dated = true
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.dated != b.dated {
			return a.dated
		}
		return a.ts < b.ts
	})

	out := make([]models.Trade, len(sorted))
	for i, k := range sorted {
		out[i] = k.trade
	}
	return out
}
