package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/models"
)

// ChartPoint is one labelled value in a dashboard chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CumulativePLSeries is the running P/L curve with its value bounds, both
// clamped to include zero so the chart baseline is always visible.
type CumulativePLSeries struct {
	Points []ChartPoint `json:"points"`
	Min    float64      `json:"min"`
	Max    float64      `json:"max"`
}

// CumulativePL builds the running P/L curve over exit-date-sorted trades,
// starting from a zero "Start" point.
func CumulativePL(trades []models.Trade) CumulativePLSeries {
	sorted := SortTradesByExitDate(trades)

	series := CumulativePLSeries{
		Points: []ChartPoint{{Label: "Start", Value: 0}},
	}

	running := decimal.Zero
	for _, t := range sorted {
		running = running.Add(TradePL(t))
		value := running.InexactFloat64()
		series.Points = append(series.Points, ChartPoint{
			Label: t.ExitDate + " " + t.ExitTime,
			Value: value,
		})
		if value < series.Min {
			series.Min = value
		}
		if value > series.Max {
			series.Max = value
		}
	}

	return series
}

// MonthlyPL groups trade P/L by exit month ("2006-01"), ascending. Trades
// without a parseable exit date are left out.
func MonthlyPL(trades []models.Trade) []ChartPoint {
	totals := make(map[string]decimal.Decimal)
	for _, t := range trades {
		ts, err := combineDateTime(t.ExitDate, t.ExitTime)
		if err != nil {
			continue
		}
		month := ts.Format("2006-01")
		totals[month] = totals[month].Add(TradePL(t))
	}
	return sortedPoints(totals)
}

// WeekdayPL totals trade P/L per weekday, Monday through Sunday.
func WeekdayPL(trades []models.Trade) []ChartPoint {
	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	totals := make(map[time.Weekday]decimal.Decimal)
	for _, t := range trades {
		ts, err := combineDateTime(t.ExitDate, t.ExitTime)
		if err != nil {
			continue
		}
		totals[ts.Weekday()] = totals[ts.Weekday()].Add(TradePL(t))
	}

	points := make([]ChartPoint, 0, len(weekdays))
	for _, wd := range weekdays {
		points = append(points, ChartPoint{Label: wd.String(), Value: totals[wd].InexactFloat64()})
	}
	return points
}

// SymbolPL totals trade P/L per symbol, sorted by symbol.
func SymbolPL(trades []models.Trade) []ChartPoint {
	totals := make(map[string]decimal.Decimal)
	for _, t := range trades {
		totals[t.Symbol] = totals[t.Symbol].Add(TradePL(t))
	}
	return sortedPoints(totals)
}

// RecentTradesPL returns the individual P/L of the last n trades by exit
// date, oldest first.
func RecentTradesPL(trades []models.Trade, n int) []ChartPoint {
	sorted := SortTradesByExitDate(trades)
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}

	points := make([]ChartPoint, 0, len(sorted))
	for _, t := range sorted {
		points = append(points, ChartPoint{
			Label: t.Symbol + " " + t.ExitDate,
			Value: TradePL(t).InexactFloat64(),
		})
	}
	return points
}

// DrawdownHistory returns the drawdown percentage from the running all-time
// peak after each trade, in exit-date order.
func DrawdownHistory(trades []models.Trade, initialBalance decimal.Decimal) []ChartPoint {
	sorted := SortTradesByExitDate(trades)

	balance := initialBalance
	peak := initialBalance
	points := make([]ChartPoint, 0, len(sorted))

	for _, t := range sorted {
		balance = balance.Add(TradePL(t))
		if balance.GreaterThan(peak) {
			peak = balance
		}
		var dd float64
		if balance.LessThan(peak) && peak.Sign() > 0 {
			dd = percentOf(peak.Sub(balance), peak)
		}
		points = append(points, ChartPoint{Label: t.ExitDate + " " + t.ExitTime, Value: dd})
	}
	return points
}

func sortedPoints(totals map[string]decimal.Decimal) []ChartPoint {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]ChartPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, ChartPoint{Label: k, Value: totals[k].InexactFloat64()})
	}
	return points
}
