package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/calebmorris/trade-journal/internal/database"
	"github.com/calebmorris/trade-journal/internal/models"
)

// setupTestServer starts a PostgreSQL container, migrates it, and serves the
// full router against it. Kafka and Redis are left nil; handlers treat both
// as optional.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(connStr)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { db.Close() })

	_, filename, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(filename), "..", "..", "db", "migrations")
	require.NoError(t, db.Migrate(migrationsPath), "failed to run migrations")

	server := httptest.NewServer(SetupRoutes(NewHandler(db, nil, nil)))
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func createAccountViaAPI(t *testing.T, base, userID, balance string) models.Account {
	t.Helper()

	bal, err := decimal.NewFromString(balance)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, base+"/api/v1/accounts", models.Account{
		UserID:  userID,
		Name:    "Test Account",
		Balance: bal,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var account models.Account
	decode(t, resp, &account)
	return account
}

func fetchAccount(t *testing.T, base, id string) models.Account {
	t.Helper()

	resp := doJSON(t, http.MethodGet, base+"/api/v1/accounts/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var account models.Account
	decode(t, resp, &account)
	return account
}

func directTradeBody(accountID, realizedPL string) map[string]interface{} {
	return map[string]interface{}{
		"account_id":      accountID,
		"instrument_type": "stock",
		"direction":       "LONG",
		"symbol":          "AAPL",
		"entry_date":      "2024-03-01",
		"entry_time":      "09:30",
		"exit_date":       "2024-03-01",
		"exit_time":       "15:30",
		"entry_mode":      "direct",
		"realized_pl":     realizedPL,
	}
}

func TestAccountEndpoints(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL

	account := createAccountViaAPI(t, base, "user-accounts", "5000")
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "USD", account.Currency)

	t.Run("list by user", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/accounts?user_id=user-accounts", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var accounts []models.Account
		decode(t, resp, &accounts)
		require.Len(t, accounts, 1)
		assert.Equal(t, account.ID, accounts[0].ID)
	})

	t.Run("list requires user_id", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/accounts", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update keeps balance", func(t *testing.T) {
		updated := account
		updated.Name = "Renamed"
		updated.Balance = decimal.NewFromInt(999999)

		resp := doJSON(t, http.MethodPut, base+"/api/v1/accounts/"+account.ID, updated)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Account
		decode(t, resp, &got)
		assert.Equal(t, "Renamed", got.Name)
		assert.True(t, decimal.NewFromInt(5000).Equal(got.Balance))
	})

	t.Run("update requires a name", func(t *testing.T) {
		updated := account
		updated.Name = ""

		resp := doJSON(t, http.MethodPut, base+"/api/v1/accounts/"+account.ID, updated)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get missing account is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/accounts/nope", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, base+"/api/v1/accounts/"+account.ID, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, base+"/api/v1/accounts/"+account.ID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStrategyEndpoints(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL

	resp := doJSON(t, http.MethodPost, base+"/api/v1/strategies", models.Strategy{
		UserID:      "user-strategies",
		Name:        "Breakout",
		Description: "Break of the opening range",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var strategy models.Strategy
	decode(t, resp, &strategy)
	require.NotEmpty(t, strategy.ID)

	t.Run("list by user", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/strategies?user_id=user-strategies", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var strategies []models.Strategy
		decode(t, resp, &strategies)
		require.Len(t, strategies, 1)
	})

	t.Run("create requires a name", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, base+"/api/v1/strategies", models.Strategy{UserID: "user-strategies"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update requires a name", func(t *testing.T) {
		updated := strategy
		updated.Name = ""

		resp := doJSON(t, http.MethodPut, base+"/api/v1/strategies/"+strategy.ID, updated)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		updated := strategy
		updated.Description = "Break and retest of the opening range"

		resp := doJSON(t, http.MethodPut, base+"/api/v1/strategies/"+strategy.ID, updated)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Strategy
		decode(t, resp, &got)
		assert.Equal(t, "Break and retest of the opening range", got.Description)
	})

	t.Run("delete", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, base+"/api/v1/strategies/"+strategy.ID, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, base+"/api/v1/strategies/"+strategy.ID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTradeEndpoints(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL

	account := createAccountViaAPI(t, base, "user-trades", "1000")

	var trade models.Trade

	t.Run("create applies P/L to the account", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, base+"/api/v1/trades", directTradeBody(account.ID, "150"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(t, resp, &trade)
		require.NotEmpty(t, trade.ID)

		after := fetchAccount(t, base, account.ID)
		assert.True(t, decimal.NewFromInt(1150).Equal(after.Balance), "balance is %s", after.Balance)
	})

	t.Run("entry mode switch is rejected", func(t *testing.T) {
		body := directTradeBody(account.ID, "150")
		body["entry_mode"] = "detailed"
		body["entry_price"] = "10"
		body["exit_price"] = "11"
		body["quantity"] = "5"
		delete(body, "realized_pl")

		resp := doJSON(t, http.MethodPut, base+"/api/v1/trades/"+trade.ID, body)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("field-level mode conversion is rejected", func(t *testing.T) {
		// Flag still says direct, but the payload carries prices instead of
		// a realized P/L.
		body := directTradeBody(account.ID, "150")
		body["entry_price"] = "10"
		body["exit_price"] = "11"
		body["quantity"] = "5"
		delete(body, "realized_pl")

		resp := doJSON(t, http.MethodPut, base+"/api/v1/trades/"+trade.ID, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var payload map[string][]string
		decode(t, resp, &payload)
		assert.NotEmpty(t, payload["errors"])

		after := fetchAccount(t, base, account.ID)
		assert.True(t, decimal.NewFromInt(1150).Equal(after.Balance), "balance is %s", after.Balance)
	})

	t.Run("update moves the P/L difference", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, base+"/api/v1/trades/"+trade.ID, directTradeBody(account.ID, "50"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		after := fetchAccount(t, base, account.ID)
		assert.True(t, decimal.NewFromInt(1050).Equal(after.Balance), "balance is %s", after.Balance)
	})

	t.Run("delete reverses the P/L", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, base+"/api/v1/trades/"+trade.ID, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		after := fetchAccount(t, base, account.ID)
		assert.True(t, decimal.NewFromInt(1000).Equal(after.Balance), "balance is %s", after.Balance)
	})

	t.Run("invalid trade is rejected with field errors", func(t *testing.T) {
		body := directTradeBody(account.ID, "150")
		delete(body, "symbol")

		resp := doJSON(t, http.MethodPost, base+"/api/v1/trades", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var payload map[string][]string
		decode(t, resp, &payload)
		assert.NotEmpty(t, payload["errors"])
	})
}

func TestTransactionEndpoints(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL

	account := createAccountViaAPI(t, base, "user-txs", "1000")

	resp := doJSON(t, http.MethodPost, base+"/api/v1/transactions", map[string]interface{}{
		"account_id": account.ID,
		"type":       "deposit",
		"amount":     "500",
		"date":       "2024-03-01",
		"time":       "09:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tx models.Transaction
	decode(t, resp, &tx)
	require.NotEmpty(t, tx.ID)

	after := fetchAccount(t, base, account.ID)
	assert.True(t, decimal.NewFromInt(1500).Equal(after.Balance), "balance is %s", after.Balance)

	t.Run("list by account", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/transactions?account_id=%s", base, account.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var transactions []models.Transaction
		decode(t, resp, &transactions)
		require.Len(t, transactions, 1)
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, base+"/api/v1/transactions", map[string]interface{}{
			"account_id": account.ID,
			"type":       "loan",
			"amount":     "500",
			"date":       "2024-03-01",
			"time":       "09:00",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("summary reflects deposits", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/accounts/"+account.ID+"/summary", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var summary struct {
			StartingBalance decimal.Decimal `json:"starting_balance"`
			Deposits        decimal.Decimal `json:"deposits"`
			Balance         decimal.Decimal `json:"balance"`
		}
		decode(t, resp, &summary)
		assert.True(t, decimal.NewFromInt(1000).Equal(summary.StartingBalance), "starting balance is %s", summary.StartingBalance)
		assert.True(t, decimal.NewFromInt(500).Equal(summary.Deposits))
		assert.True(t, decimal.NewFromInt(1500).Equal(summary.Balance))
	})

	t.Run("delete restores the balance", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, base+"/api/v1/transactions/"+tx.ID, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		after := fetchAccount(t, base, account.ID)
		assert.True(t, decimal.NewFromInt(1000).Equal(after.Balance), "balance is %s", after.Balance)
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL

	const userID = "user-analytics"
	account := createAccountViaAPI(t, base, userID, "1000")

	pls := []string{"100", "-50", "200", "-100"}
	tradeIDs := make([]string, len(pls))
	for i, pl := range pls {
		body := directTradeBody(account.ID, pl)
		body["exit_time"] = fmt.Sprintf("15:%02d", 30+i)
		resp := doJSON(t, http.MethodPost, base+"/api/v1/trades", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var trade models.Trade
		decode(t, resp, &trade)
		tradeIDs[i] = trade.ID
	}

	t.Run("metrics", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/metrics?user_id="+userID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var metrics []metricValue
		decode(t, resp, &metrics)

		byID := make(map[string]string, len(metrics))
		for _, m := range metrics {
			byID[m.ID] = m.Value
		}
		assert.Equal(t, "4", byID["total-trades"])
		assert.Equal(t, "50.0%", byID["win-rate"])
		assert.Equal(t, "$150.00", byID["total-pl"])
		assert.Equal(t, "1:2.00", byID["risk-reward"])
	})

	t.Run("risk reward", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/risk-reward?user_id="+userID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats struct {
			AverageWin      decimal.Decimal `json:"average_win"`
			AverageLoss     decimal.Decimal `json:"average_loss"`
			RiskRewardRatio float64         `json:"risk_reward_ratio"`
			WinRate         float64         `json:"win_rate"`
		}
		decode(t, resp, &stats)
		assert.True(t, decimal.NewFromInt(150).Equal(stats.AverageWin))
		assert.True(t, decimal.NewFromInt(75).Equal(stats.AverageLoss))
		assert.InDelta(t, 2.0, stats.RiskRewardRatio, 0.001)
		assert.InDelta(t, 0.5, stats.WinRate, 0.001)
	})

	t.Run("cumulative pl", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/cumulative-pl?user_id="+userID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var series struct {
			Points []struct {
				Label string  `json:"label"`
				Value float64 `json:"value"`
			} `json:"points"`
		}
		decode(t, resp, &series)
		require.Len(t, series.Points, 5) // Start point plus four trades
		assert.InDelta(t, 150, series.Points[4].Value, 0.001)
	})

	t.Run("balance history", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/balance-history?user_id="+userID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var entries map[string]struct {
			BalanceBefore decimal.Decimal `json:"balance_before"`
			PL            decimal.Decimal `json:"pl"`
			PLPercentage  float64         `json:"pl_percentage"`
		}
		decode(t, resp, &entries)
		require.Len(t, entries, 4)

		first := entries[tradeIDs[0]]
		assert.True(t, decimal.NewFromInt(1000).Equal(first.BalanceBefore), "balance before is %s", first.BalanceBefore)
		assert.True(t, decimal.NewFromInt(100).Equal(first.PL))
		assert.InDelta(t, 10.0, first.PLPercentage, 0.001)

		last := entries[tradeIDs[3]]
		assert.True(t, decimal.NewFromInt(1250).Equal(last.BalanceBefore), "balance before is %s", last.BalanceBefore)
		assert.InDelta(t, -8.0, last.PLPercentage, 0.001)
	})

	t.Run("account summary", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/accounts/"+account.ID+"/summary", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var summary struct {
			StartingBalance decimal.Decimal `json:"starting_balance"`
			Deposits        decimal.Decimal `json:"deposits"`
			Withdrawals     decimal.Decimal `json:"withdrawals"`
			TradePL         decimal.Decimal `json:"trade_pl"`
			Balance         decimal.Decimal `json:"balance"`
		}
		decode(t, resp, &summary)
		assert.True(t, decimal.NewFromInt(1000).Equal(summary.StartingBalance), "starting balance is %s", summary.StartingBalance)
		assert.True(t, summary.Deposits.IsZero())
		assert.True(t, summary.Withdrawals.IsZero())
		assert.True(t, decimal.NewFromInt(150).Equal(summary.TradePL))
		assert.True(t, decimal.NewFromInt(1150).Equal(summary.Balance))
	})

	t.Run("drawdown", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/drawdown?user_id="+userID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats struct {
			Current float64 `json:"current_drawdown"`
			Max     float64 `json:"max_drawdown"`
		}
		decode(t, resp, &stats)
		assert.GreaterOrEqual(t, stats.Max, 0.0)
	})

	t.Run("chart series", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/charts?user_id="+userID+"&chart_id=symbol-pl-chart", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var points []struct {
			Label string  `json:"label"`
			Value float64 `json:"value"`
		}
		decode(t, resp, &points)
		require.Len(t, points, 1)
		assert.Equal(t, "AAPL", points[0].Label)
		assert.InDelta(t, 150, points[0].Value, 0.001)
	})

	t.Run("unknown chart id", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/api/v1/analytics/charts?user_id="+userID+"&chart_id=pie-chart", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealthCheck(t *testing.T) {
	handler := NewHandler(nil, nil, nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestChartCatalog(t *testing.T) {
	handler := NewHandler(nil, nil, nil)
	rec := httptest.NewRecorder()

	handler.GetCharts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/charts", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var catalog []chartInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog, 7)
}

func TestPreferencesUnavailable(t *testing.T) {
	handler := NewHandler(nil, nil, nil)
	rec := httptest.NewRecorder()

	handler.GetPreferences(rec, httptest.NewRequest(http.MethodGet, "/api/v1/preferences/dashboard_metrics?user_id=u", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
