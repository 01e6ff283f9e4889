package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validDetailedTrade() Trade {
	entry := decimal.NewFromInt(10)
	exit := decimal.NewFromInt(12)
	qty := decimal.NewFromInt(100)
	return Trade{
		AccountID:      "acc-1",
		InstrumentType: "stock",
		Direction:      DirectionLong,
		Symbol:         "AAPL",
		EntryDate:      "2024-03-01",
		EntryTime:      "09:30",
		ExitDate:       "2024-03-01",
		ExitTime:       "15:30",
		EntryMode:      EntryModeDetailed,
		EntryPrice:     &entry,
		ExitPrice:      &exit,
		Quantity:       &qty,
	}
}

func TestTradeValidate(t *testing.T) {
	t.Run("valid detailed trade", func(t *testing.T) {
		trade := validDetailedTrade()
		assert.Empty(t, trade.Validate())
	})

	t.Run("valid direct trade", func(t *testing.T) {
		trade := validDetailedTrade()
		pl := decimal.NewFromInt(50)
		trade.EntryMode = EntryModeDirect
		trade.EntryPrice = nil
		trade.ExitPrice = nil
		trade.Quantity = nil
		trade.RealizedPL = &pl
		assert.Empty(t, trade.Validate())
	})

	t.Run("missing required fields", func(t *testing.T) {
		trade := Trade{}
		problems := trade.Validate()
		assert.NotEmpty(t, problems)
	})

	t.Run("negative commission", func(t *testing.T) {
		trade := validDetailedTrade()
		trade.Commission = decimal.NewFromInt(-1)
		assert.NotEmpty(t, trade.Validate())
	})

	t.Run("direct trade backed only by detailed fields", func(t *testing.T) {
		trade := validDetailedTrade()
		trade.EntryMode = EntryModeDirect
		// prices populated, no realized P/L: the flag and the fields disagree
		assert.NotEmpty(t, trade.Validate())
	})

	t.Run("detailed trade missing a price field", func(t *testing.T) {
		trade := validDetailedTrade()
		trade.ExitPrice = nil
		assert.NotEmpty(t, trade.Validate())
	})

	t.Run("detailed trade with a direct realized P/L", func(t *testing.T) {
		trade := validDetailedTrade()
		pl := decimal.NewFromInt(50)
		trade.RealizedPL = &pl
		assert.NotEmpty(t, trade.Validate())
	})

	t.Run("direct trade with price fields", func(t *testing.T) {
		trade := validDetailedTrade()
		pl := decimal.NewFromInt(50)
		trade.EntryMode = EntryModeDirect
		trade.RealizedPL = &pl
		// detailed fields left set
		assert.NotEmpty(t, trade.Validate())
	})

	t.Run("detailed trade with non-positive quantity", func(t *testing.T) {
		trade := validDetailedTrade()
		zero := decimal.Zero
		trade.Quantity = &zero
		assert.NotEmpty(t, trade.Validate())
	})

	t.Run("unknown entry mode", func(t *testing.T) {
		trade := validDetailedTrade()
		trade.EntryMode = "psychic"
		assert.NotEmpty(t, trade.Validate())
	})
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		AccountID: "acc-1",
		Type:      TransactionDeposit,
		Amount:    decimal.NewFromInt(500),
		Date:      "2024-03-01",
		Time:      "09:00",
	}

	t.Run("valid deposit", func(t *testing.T) {
		assert.Empty(t, valid.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		tx := valid
		tx.Type = "loan"
		assert.NotEmpty(t, tx.Validate())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		tx := valid
		tx.Amount = decimal.Zero
		assert.NotEmpty(t, tx.Validate())
	})

	t.Run("missing account", func(t *testing.T) {
		tx := valid
		tx.AccountID = ""
		assert.NotEmpty(t, tx.Validate())
	})
}
