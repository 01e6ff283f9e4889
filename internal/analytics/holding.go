package analytics

import (
	"fmt"
	"math"

	"github.com/calebmorris/trade-journal/internal/models"
)

// AverageHoldingTime returns the mean duration between entry and exit across
// the trades, formatted as "Xh Ym" above an hour and "Xm" below. Trades whose
// entry or exit timestamp cannot be parsed are left out of the average.
func AverageHoldingTime(trades []models.Trade) string {
	var totalMinutes float64
	var counted int

	for _, t := range trades {
		entry, err := combineDateTime(t.EntryDate, t.EntryTime)
		if err != nil {
			continue
		}
		exit, err := combineDateTime(t.ExitDate, t.ExitTime)
		if err != nil {
			continue
		}
		totalMinutes += exit.Sub(entry).Minutes()
		counted++
	}

	if counted == 0 {
		return "0m"
	}

	avg := totalMinutes / float64(counted)
	if avg >= 60 {
		hours := int(avg / 60)
		minutes := int(math.Round(math.Mod(avg, 60)))
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", int(math.Round(avg)))
}

// AverageTradesPerDay divides the trade count by the number of distinct entry
// dates, to one decimal place.
func AverageTradesPerDay(trades []models.Trade) string {
	if len(trades) == 0 {
		return "0"
	}

	days := make(map[string]struct{})
	for _, t := range trades {
		days[t.EntryDate] = struct{}{}
	}
	if len(days) == 0 {
		return "0"
	}

	return fmt.Sprintf("%.1f", float64(len(trades))/float64(len(days)))
}
