// Package analytics derives performance figures from journal entries: trade
// P/L, reconstructed balances, drawdown, and risk/reward statistics. Every
// function is a pure reducer over the trade, account, and transaction
// collections the caller supplies; nothing here reads storage or caches
// results.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/models"
)

var hundred = decimal.NewFromInt(100)

// TradePL returns a trade's realized profit or loss, net of commission.
//
// A direct-mode trade is valued at its recorded P/L. A detailed trade is
// valued as (exit − entry) × quantity, sign-flipped for shorts. A trade with
// neither representation fully populated is worth zero; incomplete input is
// a degenerate case here, not an error, because rejection happens at entry
// time.
func TradePL(t models.Trade) decimal.Decimal {
	if t.RealizedPL != nil {
		return t.RealizedPL.Sub(t.Commission)
	}

	if hasDetailedFields(t) {
		raw := t.ExitPrice.Sub(*t.EntryPrice).Mul(*t.Quantity)
		if t.Direction == models.DirectionShort {
			raw = raw.Neg()
		}
		return raw.Sub(t.Commission)
	}

	return decimal.Zero
}

func hasDetailedFields(t models.Trade) bool {
	return t.EntryPrice != nil && !t.EntryPrice.IsZero() &&
		t.ExitPrice != nil && !t.ExitPrice.IsZero() &&
		t.Quantity != nil && !t.Quantity.IsZero()
}

// PLPercentage expresses a trade's P/L as a percentage of the account balance
// before the trade. A zero or negative prior balance yields 0: there is no
// meaningful return on a balance that was already gone.
func PLPercentage(pl, balanceBefore decimal.Decimal) float64 {
	if balanceBefore.Sign() <= 0 {
		return 0
	}
	return pl.Div(balanceBefore).Mul(hundred).InexactFloat64()
}

// TotalPL sums the realized P/L over a set of trades.
func TotalPL(trades []models.Trade) decimal.Decimal {
	total := decimal.Zero
	for _, t := range trades {
		total = total.Add(TradePL(t))
	}
	return total
}
