package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calebmorris/trade-journal/internal/models"
)

// CreateAccount inserts a new account with its opening balance
func (db *DB) CreateAccount(a *models.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}
	now := time.Now()

	query := `
		INSERT INTO accounts (id, user_id, name, number, balance, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.conn.Exec(query, a.ID, a.UserID, a.Name, a.Number, a.Balance, a.Currency, now)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	a.CreatedAt = now
	return nil
}

// GetAccountByID retrieves an account by id
func (db *DB) GetAccountByID(id string) (*models.Account, error) {
	query := `
		SELECT id, user_id, name, number, balance, currency, created_at
		FROM accounts
		WHERE id = $1
	`
	var a models.Account
	err := db.conn.QueryRow(query, id).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Number, &a.Balance, &a.Currency, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

// GetAccountsByUser retrieves all accounts owned by a user
func (db *DB) GetAccountsByUser(userID string) ([]*models.Account, error) {
	query := `
		SELECT id, user_id, name, number, balance, currency, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Number, &a.Balance, &a.Currency, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// UpdateAccount updates an account's descriptive fields. The balance is not
// touched here; it only moves through trade and transaction operations.
func (db *DB) UpdateAccount(a *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, number = $3, currency = $4
		WHERE id = $1
	`
	res, err := db.conn.Exec(query, a.ID, a.Name, a.Number, a.Currency)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account not found: %s", a.ID)
	}
	return nil
}

// DeleteAccount removes an account. Its transactions go with it via the
// cascade; its trades stay in the journal as historical records.
func (db *DB) DeleteAccount(id string) error {
	res, err := db.conn.Exec(`DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}
