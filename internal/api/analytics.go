package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/analytics"
	"github.com/calebmorris/trade-journal/internal/models"
)

// Number of trades shown by the recent-trades chart
const recentTradesChartSize = 30

type metricValue struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	DefaultEnabled bool   `json:"default_enabled"`
	Value          string `json:"value"`
}

type chartInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	DefaultEnabled bool   `json:"default_enabled"`
}

// GetMetrics handles GET /analytics/metrics?user_id=&account_id=
// It computes every metric in the catalog over the user's current journal.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	accountID := accountFilter(r)

	trades, _, accounts, err := h.loadJournal(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	definitions := analytics.DefaultMetrics()
	values := make([]metricValue, 0, len(definitions))
	for _, def := range definitions {
		values = append(values, metricValue{
			ID:             def.ID,
			Title:          def.Title,
			DefaultEnabled: def.DefaultEnabled,
			Value:          def.Compute(trades, accounts, accountID),
		})
	}

	respondJSON(w, http.StatusOK, values)
}

// GetCharts handles GET /analytics/charts?user_id=&account_id=&chart_id=
// Without chart_id it returns the chart catalog; with one, that chart's
// series data.
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	chartID := r.URL.Query().Get("chart_id")
	if chartID == "" {
		definitions := analytics.DefaultCharts()
		catalog := make([]chartInfo, 0, len(definitions))
		for _, def := range definitions {
			catalog = append(catalog, chartInfo{ID: def.ID, Title: def.Title, DefaultEnabled: def.DefaultEnabled})
		}
		respondJSON(w, http.StatusOK, catalog)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	accountID := accountFilter(r)

	trades, transactions, accounts, err := h.loadJournal(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filtered := analytics.FilterTradesByAccount(trades, accountID)

	switch chartID {
	case "account-balance-chart":
		respondJSON(w, http.StatusOK, analytics.BalanceSeries(trades, transactions, accounts, accountID))
	case "pl-chart":
		respondJSON(w, http.StatusOK, analytics.CumulativePL(filtered))
	case "recent-trades-chart":
		respondJSON(w, http.StatusOK, analytics.RecentTradesPL(filtered, recentTradesChartSize))
	case "monthly-pl-chart":
		respondJSON(w, http.StatusOK, analytics.MonthlyPL(filtered))
	case "drawdown-chart":
		respondJSON(w, http.StatusOK, analytics.DrawdownHistory(filtered, balanceSeed(accounts, accountID)))
	case "weekday-pl-chart":
		respondJSON(w, http.StatusOK, analytics.WeekdayPL(filtered))
	case "symbol-pl-chart":
		respondJSON(w, http.StatusOK, analytics.SymbolPL(filtered))
	default:
		http.Error(w, "unknown chart_id: "+chartID, http.StatusBadRequest)
	}
}

// GetRiskReward handles GET /analytics/risk-reward?user_id=&account_id=
func (h *Handler) GetRiskReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	trades, _, _, err := h.loadJournal(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filtered := analytics.FilterTradesByAccount(trades, accountFilter(r))
	respondJSON(w, http.StatusOK, analytics.RiskReward(filtered))
}

// GetDrawdown handles GET /analytics/drawdown?user_id=&account_id=
func (h *Handler) GetDrawdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	accountID := accountFilter(r)

	trades, _, accounts, err := h.loadJournal(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filtered := analytics.FilterTradesByAccount(trades, accountID)
	respondJSON(w, http.StatusOK, analytics.Drawdown(filtered, balanceSeed(accounts, accountID)))
}

type balanceHistoryEntry struct {
	BalanceBefore decimal.Decimal `json:"balance_before"`
	PL            decimal.Decimal `json:"pl"`
	PLPercentage  float64         `json:"pl_percentage"`
}

// GetBalanceHistory handles GET /analytics/balance-history?user_id=
// For each trade it returns the reconstructed account balance just before the
// trade closed, the trade's P/L, and the percentage return against that
// balance, keyed by trade id.
func (h *Handler) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	trades, transactions, accounts, err := h.loadJournal(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	balances := analytics.HistoricalBalances(trades, transactions, accounts)
	entries := make(map[string]balanceHistoryEntry, len(balances))
	for _, trade := range trades {
		before, ok := balances[trade.ID]
		if !ok {
			continue
		}
		pl := analytics.TradePL(trade)
		entries[trade.ID] = balanceHistoryEntry{
			BalanceBefore: before,
			PL:            pl,
			PLPercentage:  analytics.PLPercentage(pl, before),
		}
	}

	respondJSON(w, http.StatusOK, entries)
}

type accountSummary struct {
	AccountID       string          `json:"account_id"`
	Currency        string          `json:"currency"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Deposits        decimal.Decimal `json:"deposits"`
	Withdrawals     decimal.Decimal `json:"withdrawals"`
	TradePL         decimal.Decimal `json:"trade_pl"`
	Balance         decimal.Decimal `json:"balance"`
}

// GetAccountSummary handles GET /accounts/{id}/summary
// The balance is recomputed from the journal rather than echoed from the
// accounts row; the two agree while the bookkeeping holds.
func (h *Handler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	account, err := h.db.GetAccountByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	tradeRows, err := h.db.GetTradesByAccount(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	txRows, err := h.db.GetTransactionsByAccount(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	trades := tradeValues(tradeRows)
	transactions := transactionValues(txRows)

	totals := analytics.SumTransactions(transactions)
	tradePL := analytics.TotalPL(trades)
	starting := account.Balance.Sub(tradePL).Sub(totals.Deposits).Add(totals.Withdrawals)

	respondJSON(w, http.StatusOK, accountSummary{
		AccountID:       account.ID,
		Currency:        account.Currency,
		StartingBalance: starting,
		Deposits:        totals.Deposits,
		Withdrawals:     totals.Withdrawals,
		TradePL:         tradePL,
		Balance:         analytics.CurrentBalance(starting.Add(tradePL), transactions),
	})
}

// GetCumulativePL handles GET /analytics/cumulative-pl?user_id=&account_id=
func (h *Handler) GetCumulativePL(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	trades, _, _, err := h.loadJournal(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filtered := analytics.FilterTradesByAccount(trades, accountFilter(r))
	respondJSON(w, http.StatusOK, analytics.CumulativePL(filtered))
}

// loadJournal fetches a user's full journal as the value slices the
// analytics engine works over.
func (h *Handler) loadJournal(userID string) ([]models.Trade, []models.Transaction, []models.Account, error) {
	trades, err := h.db.GetTradesByUser(userID)
	if err != nil {
		return nil, nil, nil, err
	}
	transactions, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		return nil, nil, nil, err
	}
	accounts, err := h.db.GetAccountsByUser(userID)
	if err != nil {
		return nil, nil, nil, err
	}

	accountValues := make([]models.Account, len(accounts))
	for i, a := range accounts {
		accountValues[i] = *a
	}

	return tradeValues(trades), transactionValues(transactions), accountValues, nil
}

func tradeValues(rows []*models.Trade) []models.Trade {
	values := make([]models.Trade, len(rows))
	for i, t := range rows {
		values[i] = *t
	}
	return values
}

func transactionValues(rows []*models.Transaction) []models.Transaction {
	values := make([]models.Transaction, len(rows))
	for i, t := range rows {
		values[i] = *t
	}
	return values
}

func accountFilter(r *http.Request) string {
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		return accountID
	}
	return analytics.AccountAll
}

// balanceSeed approximates an initial balance for drawdown figures from the
// current stored balances, matching the dashboard's behaviour.
func balanceSeed(accounts []models.Account, accountID string) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		if accountID == analytics.AccountAll || acc.ID == accountID {
			total = total.Add(acc.Balance)
		}
	}
	return total
}
