package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calebmorris/trade-journal/internal/models"
)

// CreateStrategy inserts a playbook entry
func (db *DB) CreateStrategy(s *models.Strategy) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()

	query := `
		INSERT INTO strategies (id, user_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.conn.Exec(query, s.ID, s.UserID, s.Name, s.Description, now); err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}
	s.CreatedAt = now
	return nil
}

// GetStrategiesByUser retrieves a user's playbook
func (db *DB) GetStrategiesByUser(userID string) ([]*models.Strategy, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM strategies
		WHERE user_id = $1
		ORDER BY name
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	var strategies []*models.Strategy
	for rows.Next() {
		var s models.Strategy
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		strategies = append(strategies, &s)
	}
	return strategies, rows.Err()
}

// GetStrategyByID retrieves a playbook entry by id
func (db *DB) GetStrategyByID(id string) (*models.Strategy, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM strategies
		WHERE id = $1
	`
	var s models.Strategy
	err := db.conn.QueryRow(query, id).Scan(&s.ID, &s.UserID, &s.Name, &s.Description, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("strategy not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}
	return &s, nil
}

// UpdateStrategy rewrites a playbook entry's name and description
func (db *DB) UpdateStrategy(s *models.Strategy) error {
	res, err := db.conn.Exec(
		`UPDATE strategies SET name = $2, description = $3 WHERE id = $1`,
		s.ID, s.Name, s.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update strategy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("strategy not found: %s", s.ID)
	}
	return nil
}

// DeleteStrategy removes a playbook entry. Trades referencing it keep their
// free-text strategy label.
func (db *DB) DeleteStrategy(id string) error {
	res, err := db.conn.Exec(`DELETE FROM strategies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("strategy not found: %s", id)
	}
	return nil
}
