package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/models"
)

// DrawdownStats holds drawdown percentages, 0 meaning no drawdown.
type DrawdownStats struct {
	Current float64 `json:"current_drawdown"`
	Max     float64 `json:"max_drawdown"`
}

// Drawdown walks the trades in exit-date order and tracks the running balance
// against two peaks: a local peak that resets on every new high (for the
// maximum drawdown) and an all-time peak that never resets (for the current
// drawdown). Both figures describe the state after the last trade in the
// set, not the wall-clock present.
//
// A non-positive peak contributes no drawdown; dividing by it would produce
// nonsense percentages.
func Drawdown(trades []models.Trade, initialBalance decimal.Decimal) DrawdownStats {
	sorted := SortTradesByExitDate(trades)

	balance := initialBalance
	peak := initialBalance
	allTimePeak := initialBalance
	var stats DrawdownStats

	for _, t := range sorted {
		balance = balance.Add(TradePL(t))

		if balance.GreaterThan(allTimePeak) {
			allTimePeak = balance
		}
		if balance.LessThan(allTimePeak) && allTimePeak.Sign() > 0 {
			stats.Current = percentOf(allTimePeak.Sub(balance), allTimePeak)
		} else {
			stats.Current = 0
		}

		if balance.GreaterThan(peak) {
			peak = balance
		} else if peak.Sign() > 0 {
			if dd := percentOf(peak.Sub(balance), peak); dd > stats.Max {
				stats.Max = dd
			}
		}
	}

	return stats
}

func percentOf(part, whole decimal.Decimal) float64 {
	return part.Div(whole).Mul(hundred).InexactFloat64()
}
