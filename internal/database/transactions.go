package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmorris/trade-journal/internal/models"
)

// CreateTransaction inserts a deposit or withdrawal and applies its signed
// amount to the owning account's balance, atomically.
func (db *DB) CreateTransaction(t *models.Transaction) error {
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
		INSERT INTO transactions (id, account_id, type, amount, tx_date, tx_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.Exec(query, t.ID, t.AccountID, t.Type, t.Amount, t.Date, t.Time, now); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := adjustBalance(tx, t.AccountID, t.SignedAmount()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.CreatedAt = now
	return nil
}

// GetTransactionByID retrieves a transaction by id
func (db *DB) GetTransactionByID(id string) (*models.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, tx_date, tx_time, created_at
		FROM transactions
		WHERE id = $1
	`
	var t models.Transaction
	err := db.conn.QueryRow(query, id).Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Date, &t.Time, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

// GetTransactionsByAccount retrieves an account's transactions, newest first
func (db *DB) GetTransactionsByAccount(accountID string) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, tx_date, tx_time, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY tx_date DESC, tx_time DESC
	`
	return db.scanTransactions(db.conn.Query(query, accountID))
}

// GetTransactionsByUser retrieves all transactions across a user's accounts
func (db *DB) GetTransactionsByUser(userID string) ([]*models.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.type, t.amount, t.tx_date, t.tx_time, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.tx_date DESC, t.tx_time DESC
	`
	return db.scanTransactions(db.conn.Query(query, userID))
}

// UpdateTransaction rewrites a transaction and moves the balance difference:
// the old signed amount is reversed on the old account and the new signed
// amount applied to the new one, all in one SQL transaction.
func (db *DB) UpdateTransaction(t *models.Transaction) error {
	old, err := db.GetTransactionByID(t.ID)
	if err != nil {
		return err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE transactions
		SET account_id = $2, type = $3, amount = $4, tx_date = $5, tx_time = $6
		WHERE id = $1
	`
	if _, err := tx.Exec(query, t.ID, t.AccountID, t.Type, t.Amount, t.Date, t.Time); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if err := adjustBalance(tx, old.AccountID, old.SignedAmount().Neg()); err != nil {
		return err
	}
	if err := adjustBalance(tx, t.AccountID, t.SignedAmount()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction and reverses its balance effect
func (db *DB) DeleteTransaction(id string) error {
	t, err := db.GetTransactionByID(id)
	if err != nil {
		return err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if err := adjustBalance(tx, t.AccountID, t.SignedAmount().Neg()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) scanTransactions(rows *sql.Rows, err error) ([]*models.Transaction, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Date, &t.Time, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// adjustBalance moves an account balance by the given signed delta within an
// open SQL transaction.
func adjustBalance(tx *sql.Tx, accountID string, delta decimal.Decimal) error {
	res, err := tx.Exec(`UPDATE accounts SET balance = balance + $2 WHERE id = $1`, accountID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}
