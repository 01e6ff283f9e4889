package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/models"
)

// RiskRewardStats summarizes win/loss behaviour over a set of trades.
// AverageLoss and LargestLoss are absolute values, always non-negative.
type RiskRewardStats struct {
	AverageWin      decimal.Decimal `json:"average_win"`
	AverageLoss     decimal.Decimal `json:"average_loss"`
	RiskRewardRatio float64         `json:"risk_reward_ratio"`
	WinRate         float64         `json:"win_rate"`
	LargestWin      decimal.Decimal `json:"largest_win"`
	LargestLoss     decimal.Decimal `json:"largest_loss"`
}

// RiskReward partitions trades into winners (P/L > 0) and losers (P/L < 0);
// break-even trades count toward neither side but still dilute the win rate.
// The ratio is averageWin / averageLoss, defaulting to 0 when there are no
// losses; the profit-factor metric renders that case as "∞", but here a
// conservative 0 is deliberate.
func RiskReward(trades []models.Trade) RiskRewardStats {
	stats := RiskRewardStats{
		AverageWin:  decimal.Zero,
		AverageLoss: decimal.Zero,
		LargestWin:  decimal.Zero,
		LargestLoss: decimal.Zero,
	}
	if len(trades) == 0 {
		return stats
	}

	var winners, losers int
	winSum, lossSum := decimal.Zero, decimal.Zero

	for _, t := range trades {
		pl := TradePL(t)
		switch pl.Sign() {
		case 1:
			winners++
			winSum = winSum.Add(pl)
			if pl.GreaterThan(stats.LargestWin) {
				stats.LargestWin = pl
			}
		case -1:
			losers++
			loss := pl.Abs()
			lossSum = lossSum.Add(loss)
			if loss.GreaterThan(stats.LargestLoss) {
				stats.LargestLoss = loss
			}
		}
	}

	if winners > 0 {
		stats.AverageWin = winSum.Div(decimal.NewFromInt(int64(winners)))
	}
	if losers > 0 {
		stats.AverageLoss = lossSum.Div(decimal.NewFromInt(int64(losers)))
	}
	if stats.AverageLoss.Sign() > 0 {
		stats.RiskRewardRatio = stats.AverageWin.Div(stats.AverageLoss).InexactFloat64()
	}
	stats.WinRate = float64(winners) / float64(len(trades))

	return stats
}
