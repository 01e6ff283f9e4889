package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/analytics"
	"github.com/calebmorris/trade-journal/internal/models"
)

// ErrEntryModeLocked is returned when an update tries to switch a trade
// between detailed and direct entry
var ErrEntryModeLocked = errors.New("entry mode is locked at creation and cannot be changed")

const tradeColumns = `
	id, account_id, instrument_type, direction, symbol, timeframe,
	emotional_state, strategy, setup, notes,
	entry_date, entry_time, exit_date, exit_time,
	entry_mode, entry_price, exit_price, quantity, realized_pl, commission,
	entry_screenshot, exit_screenshot, import_ref, created_at`

// CreateTrade inserts a trade and applies its realized P/L to the owning
// account's balance, atomically.
func (db *DB) CreateTrade(t *models.Trade) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trades (
			id, account_id, instrument_type, direction, symbol, timeframe,
			emotional_state, strategy, setup, notes,
			entry_date, entry_time, exit_date, exit_time,
			entry_mode, entry_price, exit_price, quantity, realized_pl, commission,
			entry_screenshot, exit_screenshot, import_ref, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`
	_, err = tx.Exec(query,
		t.ID, t.AccountID, t.InstrumentType, t.Direction, t.Symbol, t.Timeframe,
		t.EmotionalState, t.Strategy, t.Setup, t.Notes,
		t.EntryDate, t.EntryTime, t.ExitDate, t.ExitTime,
		t.EntryMode, decimalOrNil(t.EntryPrice), decimalOrNil(t.ExitPrice),
		decimalOrNil(t.Quantity), decimalOrNil(t.RealizedPL), t.Commission,
		t.EntryScreenshot, t.ExitScreenshot, t.ImportRef, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	if err := adjustBalance(tx, t.AccountID, analytics.TradePL(*t)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.CreatedAt = now
	return nil
}

// GetTradeByID retrieves a trade by id
func (db *DB) GetTradeByID(id string) (*models.Trade, error) {
	query := `SELECT` + tradeColumns + ` FROM trades WHERE id = $1`
	t, err := scanTrade(db.conn.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return t, nil
}

// GetTradesByAccount retrieves an account's trades, newest exit first
func (db *DB) GetTradesByAccount(accountID string) ([]*models.Trade, error) {
	query := `SELECT` + tradeColumns + `
		FROM trades
		WHERE account_id = $1
		ORDER BY exit_date DESC, exit_time DESC
	`
	return db.scanTrades(db.conn.Query(query, accountID))
}

// GetTradesByUser retrieves all trades across a user's accounts
func (db *DB) GetTradesByUser(userID string) ([]*models.Trade, error) {
	query := `
		SELECT t.id, t.account_id, t.instrument_type, t.direction, t.symbol, t.timeframe,
		       t.emotional_state, t.strategy, t.setup, t.notes,
		       t.entry_date, t.entry_time, t.exit_date, t.exit_time,
		       t.entry_mode, t.entry_price, t.exit_price, t.quantity, t.realized_pl, t.commission,
		       t.entry_screenshot, t.exit_screenshot, t.import_ref, t.created_at
		FROM trades t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.exit_date DESC, t.exit_time DESC
	`
	return db.scanTrades(db.conn.Query(query, userID))
}

// GetTradesByStrategy retrieves trades tagged with a strategy name
func (db *DB) GetTradesByStrategy(strategy string, limit int) ([]*models.Trade, error) {
	query := `SELECT` + tradeColumns + `
		FROM trades
		WHERE strategy = $1
		ORDER BY exit_date DESC, exit_time DESC
		LIMIT $2
	`
	return db.scanTrades(db.conn.Query(query, strategy, limit))
}

// UpdateTrade rewrites a trade's editable fields and moves the P/L difference
// on the owning account. The entry mode is locked at creation: an update that
// tries to switch modes is rejected.
func (db *DB) UpdateTrade(t *models.Trade) error {
	old, err := db.GetTradeByID(t.ID)
	if err != nil {
		return err
	}
	if t.EntryMode != "" && t.EntryMode != old.EntryMode {
		return ErrEntryModeLocked
	}
	t.EntryMode = old.EntryMode

	// The lock covers the fields, not just the flag: an update cannot swap
	// a direct trade's realized P/L for prices, or the reverse.
	switch old.EntryMode {
	case models.EntryModeDirect:
		if t.RealizedPL == nil || t.EntryPrice != nil || t.ExitPrice != nil || t.Quantity != nil {
			return ErrEntryModeLocked
		}
	case models.EntryModeDetailed:
		if t.RealizedPL != nil {
			return ErrEntryModeLocked
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE trades
		SET account_id = $2, instrument_type = $3, direction = $4, symbol = $5,
		    timeframe = $6, emotional_state = $7, strategy = $8, setup = $9, notes = $10,
		    entry_date = $11, entry_time = $12, exit_date = $13, exit_time = $14,
		    entry_price = $15, exit_price = $16, quantity = $17, realized_pl = $18,
		    commission = $19, entry_screenshot = $20, exit_screenshot = $21
		WHERE id = $1
	`
	_, err = tx.Exec(query,
		t.ID, t.AccountID, t.InstrumentType, t.Direction, t.Symbol,
		t.Timeframe, t.EmotionalState, t.Strategy, t.Setup, t.Notes,
		t.EntryDate, t.EntryTime, t.ExitDate, t.ExitTime,
		decimalOrNil(t.EntryPrice), decimalOrNil(t.ExitPrice),
		decimalOrNil(t.Quantity), decimalOrNil(t.RealizedPL),
		t.Commission, t.EntryScreenshot, t.ExitScreenshot,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	oldPL := analytics.TradePL(*old)
	newPL := analytics.TradePL(*t)
	if old.AccountID == t.AccountID {
		if err := adjustBalance(tx, t.AccountID, newPL.Sub(oldPL)); err != nil {
			return err
		}
	} else {
		if err := adjustBalance(tx, old.AccountID, oldPL.Neg()); err != nil {
			return err
		}
		if err := adjustBalance(tx, t.AccountID, newPL); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTrade removes a trade and reverses exactly the P/L it contributed to
// the owning account.
func (db *DB) DeleteTrade(id string) error {
	t, err := db.GetTradeByID(id)
	if err != nil {
		return err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	if err := adjustBalance(tx, t.AccountID, analytics.TradePL(*t).Neg()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TradeExistsByImportRef reports whether a broker import reference was
// already recorded. Used by the import consumer for idempotency.
func (db *DB) TradeExistsByImportRef(importRef string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM trades WHERE import_ref = $1)`, importRef,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check import ref: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var entryPrice, exitPrice, quantity, realizedPL sql.NullString

	err := row.Scan(
		&t.ID, &t.AccountID, &t.InstrumentType, &t.Direction, &t.Symbol, &t.Timeframe,
		&t.EmotionalState, &t.Strategy, &t.Setup, &t.Notes,
		&t.EntryDate, &t.EntryTime, &t.ExitDate, &t.ExitTime,
		&t.EntryMode, &entryPrice, &exitPrice, &quantity, &realizedPL, &t.Commission,
		&t.EntryScreenshot, &t.ExitScreenshot, &t.ImportRef, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.EntryPrice = nullDecimal(entryPrice)
	t.ExitPrice = nullDecimal(exitPrice)
	t.Quantity = nullDecimal(quantity)
	t.RealizedPL = nullDecimal(realizedPL)
	return &t, nil
}

func (db *DB) scanTrades(rows *sql.Rows, err error) ([]*models.Trade, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func nullDecimal(v sql.NullString) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil
	}
	return &d
}

func decimalOrNil(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
