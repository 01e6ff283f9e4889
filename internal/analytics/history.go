package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/calebmorris/trade-journal/internal/models"
)

const (
	eventKindTrade = iota
	eventKindTransaction
)

// balanceEvent is one balance-affecting entry in an account's history: a
// trade closing (amount = its P/L) or a transaction (signed amount).
type balanceEvent struct {
	timestamp time.Time
	kind      int
	amount    decimal.Decimal
	accountID string
	tradeID   string
	seq       int
}

// HistoricalBalances answers, for each trade, "what was the account balance
// immediately before this trade closed?", the denominator for percentage
// returns. The current stored balance already reflects every later event, so
// the history has to be rebuilt from the full event stream.
//
// Each account's walk is seeded with its reconstructed starting balance
// (current balance minus the net effect of every known event) and replayed
// forward; the running balance just before each trade event is that trade's
// balance-before. Events with identical timestamps order trades before
// transactions and otherwise keep input order, so the walk is deterministic.
//
// Trades without a parseable exit timestamp cannot be placed in the stream;
// they are skipped and get no entry in the result. Malformed transactions are
// skipped the same way. Skipped events are logged and never abort the walk.
func HistoricalBalances(trades []models.Trade, transactions []models.Transaction, accounts []models.Account) map[string]decimal.Decimal {
	events := buildEventStream(trades, transactions)

	// Net effect of the recorded history per account.
	netByAccount := make(map[string]decimal.Decimal)
	for _, ev := range events {
		netByAccount[ev.accountID] = netByAccount[ev.accountID].Add(ev.amount)
	}

	// Seed each account at its reconstructed starting balance. Accounts that
	// appear only in events start from zero.
	running := make(map[string]decimal.Decimal)
	for _, acc := range accounts {
		running[acc.ID] = acc.Balance.Sub(netByAccount[acc.ID])
	}
	for accountID, net := range netByAccount {
		if _, ok := running[accountID]; !ok {
			running[accountID] = net.Neg()
		}
	}

	balancesByTrade := make(map[string]decimal.Decimal)
	for _, ev := range events {
		if ev.kind == eventKindTrade {
			balancesByTrade[ev.tradeID] = running[ev.accountID]
		}
		running[ev.accountID] = running[ev.accountID].Add(ev.amount)
	}

	return balancesByTrade
}

// BalancePoint is one step of an account's reconstructed balance history.
type BalancePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSeries replays the same event stream as HistoricalBalances and
// returns the running balance after each event, for charting. With
// accountID == AccountAll the series tracks the combined balance of all
// accounts.
func BalanceSeries(trades []models.Trade, transactions []models.Transaction, accounts []models.Account, accountID string) []BalancePoint {
	trades = FilterTradesByAccount(trades, accountID)
	transactions = FilterTransactionsByAccount(transactions, accountID)
	events := buildEventStream(trades, transactions)

	net := decimal.Zero
	for _, ev := range events {
		net = net.Add(ev.amount)
	}

	current := decimal.Zero
	for _, acc := range accounts {
		if accountID == AccountAll || acc.ID == accountID {
			current = current.Add(acc.Balance)
		}
	}

	running := current.Sub(net)
	series := make([]BalancePoint, 0, len(events))
	for _, ev := range events {
		running = running.Add(ev.amount)
		series = append(series, BalancePoint{Timestamp: ev.timestamp, Balance: running})
	}
	return series
}

// buildEventStream merges trades and transactions into one chronological
// stream. Unparseable entries are dropped with a warning.
func buildEventStream(trades []models.Trade, transactions []models.Transaction) []balanceEvent {
	events := make([]balanceEvent, 0, len(trades)+len(transactions))

	for i, t := range trades {
		ts, err := combineDateTime(t.ExitDate, t.ExitTime)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"trade_id":  t.ID,
				"exit_date": t.ExitDate,
				"exit_time": t.ExitTime,
			}).Warn("skipping trade with unparseable exit timestamp")
			continue
		}
		events = append(events, balanceEvent{
			timestamp: ts,
			kind:      eventKindTrade,
			amount:    TradePL(t),
			accountID: t.AccountID,
			tradeID:   t.ID,
			seq:       i,
		})
	}

	for i, tx := range transactions {
		ts, err := combineDateTime(tx.Date, tx.Time)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"transaction_id": tx.ID,
				"date":           tx.Date,
				"time":           tx.Time,
			}).Warn("skipping transaction with unparseable timestamp")
			continue
		}
		events = append(events, balanceEvent{
			timestamp: ts,
			kind:      eventKindTransaction,
			amount:    tx.SignedAmount(),
			accountID: tx.AccountID,
			seq:       i,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.timestamp.Equal(b.timestamp) {
			return a.timestamp.Before(b.timestamp)
		}
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		return a.seq < b.seq
	})

	return events
}
