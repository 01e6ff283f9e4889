package analytics

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/format"
	"github.com/calebmorris/trade-journal/internal/models"
)

// MetricCompute derives one dashboard value from the current collections.
// accountID is either a single account id or AccountAll.
type MetricCompute func(trades []models.Trade, accounts []models.Account, accountID string) string

// MetricDefinition is one entry in the dashboard metric catalog. The catalog
// is fixed; which metrics a user sees and in what order is preference state
// held elsewhere. Values are recomputed on every call, never cached.
type MetricDefinition struct {
	ID             string
	Title          string
	DefaultEnabled bool
	Compute        MetricCompute
}

// ChartDefinition is one entry in the dashboard chart catalog. Series data
// comes from the chart reducers; the definition only names the chart.
type ChartDefinition struct {
	ID             string
	Title          string
	DefaultEnabled bool
}

// DefaultMetrics returns the dashboard metric catalog.
func DefaultMetrics() []MetricDefinition {
	return []MetricDefinition{
		{
			ID:             "account-balance",
			Title:          "Account Balance",
			DefaultEnabled: true,
			Compute: func(_ []models.Trade, accounts []models.Account, accountID string) string {
				if accountID == AccountAll {
					total := decimal.Zero
					for _, acc := range accounts {
						total = total.Add(acc.Balance)
					}
					return format.Currency(total, "USD")
				}
				for _, acc := range accounts {
					if acc.ID == accountID {
						return format.Currency(acc.Balance, acc.Currency)
					}
				}
				return format.Currency(decimal.Zero, "USD")
			},
		},
		{
			ID:             "total-trades",
			Title:          "Total Trades",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return strconv.Itoa(len(FilterTradesByAccount(trades, accountID)))
			},
		},
		{
			ID:             "win-rate",
			Title:          "Win Rate",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				filtered := FilterTradesByAccount(trades, accountID)
				if len(filtered) == 0 {
					return "0%"
				}
				var winners int
				for _, t := range filtered {
					if TradePL(t).Sign() > 0 {
						winners++
					}
				}
				return format.Percent(float64(winners)/float64(len(filtered))*100, 1)
			},
		},
		{
			ID:             "avg-holding-time",
			Title:          "Avg Holding Time",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return AverageHoldingTime(FilterTradesByAccount(trades, accountID))
			},
		},
		{
			ID:             "avg-trades-per-day",
			Title:          "Avg Trades/Day",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return AverageTradesPerDay(FilterTradesByAccount(trades, accountID))
			},
		},
		{
			ID:             "total-pl",
			Title:          "Total P/L",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return format.Currency(TotalPL(FilterTradesByAccount(trades, accountID)), "USD")
			},
		},
		{
			ID:             "profit-factor",
			Title:          "Profit Factor",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				profits, losses := decimal.Zero, decimal.Zero
				for _, t := range FilterTradesByAccount(trades, accountID) {
					pl := TradePL(t)
					if pl.Sign() > 0 {
						profits = profits.Add(pl)
					} else if pl.Sign() < 0 {
						losses = losses.Add(pl.Abs())
					}
				}
				if losses.IsZero() {
					if profits.Sign() > 0 {
						return "∞"
					}
					return "0"
				}
				return profits.Div(losses).StringFixed(2)
			},
		},
		{
			ID:             "current-drawdown",
			Title:          "Current Drawdown",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, accounts []models.Account, accountID string) string {
				stats := Drawdown(FilterTradesByAccount(trades, accountID), drawdownSeed(accounts, accountID))
				return format.Percent(stats.Current, 2)
			},
		},
		{
			ID:             "max-drawdown",
			Title:          "Maximum Drawdown",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, accounts []models.Account, accountID string) string {
				stats := Drawdown(FilterTradesByAccount(trades, accountID), drawdownSeed(accounts, accountID))
				return format.Percent(stats.Max, 2)
			},
		},
		{
			ID:             "average-win",
			Title:          "Average Win",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return format.Currency(RiskReward(FilterTradesByAccount(trades, accountID)).AverageWin, "USD")
			},
		},
		{
			ID:             "average-loss",
			Title:          "Average Loss",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return format.Currency(RiskReward(FilterTradesByAccount(trades, accountID)).AverageLoss, "USD")
			},
		},
		{
			ID:             "largest-win",
			Title:          "Largest Win",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return format.Currency(RiskReward(FilterTradesByAccount(trades, accountID)).LargestWin, "USD")
			},
		},
		{
			ID:             "largest-loss",
			Title:          "Largest Loss",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				return format.Currency(RiskReward(FilterTradesByAccount(trades, accountID)).LargestLoss, "USD")
			},
		},
		{
			ID:             "risk-reward",
			Title:          "Risk/Reward Ratio",
			DefaultEnabled: true,
			Compute: func(trades []models.Trade, _ []models.Account, accountID string) string {
				stats := RiskReward(FilterTradesByAccount(trades, accountID))
				if stats.AverageLoss.IsZero() {
					if stats.AverageWin.Sign() > 0 {
						return "∞"
					}
					return "0"
				}
				return fmt.Sprintf("1:%.2f", stats.RiskRewardRatio)
			},
		},
	}
}

// DefaultCharts returns the dashboard chart catalog.
func DefaultCharts() []ChartDefinition {
	return []ChartDefinition{
		{ID: "account-balance-chart", Title: "Account Balance History", DefaultEnabled: true},
		{ID: "pl-chart", Title: "Cumulative P/L", DefaultEnabled: true},
		{ID: "recent-trades-chart", Title: "Last 30 Trades", DefaultEnabled: true},
		{ID: "monthly-pl-chart", Title: "Monthly P/L", DefaultEnabled: true},
		{ID: "drawdown-chart", Title: "Drawdown History", DefaultEnabled: true},
		{ID: "weekday-pl-chart", Title: "P/L by Weekday", DefaultEnabled: true},
		{ID: "symbol-pl-chart", Title: "P/L by Symbol", DefaultEnabled: true},
	}
}

// drawdownSeed approximates an initial balance from the accounts' current
// stored balances. It ignores when deposits and withdrawals happened, which
// skews the percentages on accounts with transaction history; it matches the
// dashboard's long-standing behaviour and is kept intentionally.
func drawdownSeed(accounts []models.Account, accountID string) decimal.Decimal {
	if accountID == AccountAll {
		total := decimal.Zero
		for _, acc := range accounts {
			total = total.Add(acc.Balance)
		}
		return total
	}
	for _, acc := range accounts {
		if acc.ID == accountID {
			return acc.Balance
		}
	}
	return decimal.Zero
}
