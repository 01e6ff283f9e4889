// Package prefs stores per-user dashboard preferences in Redis. Preferences
// are opaque JSON documents keyed by user and category; the analytics engine
// never reads them, the API layer round-trips them for the frontend.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Preference categories accepted by the store
const (
	CategoryMetrics       = "dashboard_metrics"
	CategoryCharts        = "dashboard_charts"
	CategoryLayoutMetrics = "dashboard_layout_metrics"
	CategoryLayoutCharts  = "dashboard_layout_charts"
)

var validCategories = map[string]bool{
	CategoryMetrics:       true,
	CategoryCharts:        true,
	CategoryLayoutMetrics: true,
	CategoryLayoutCharts:  true,
}

// ErrInvalidCategory is returned for category names outside the known set
var ErrInvalidCategory = errors.New("invalid preference category")

// Store persists user preferences in Redis
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection
func New(addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

func key(userID, category string) string {
	return fmt.Sprintf("prefs:%s:%s", userID, category)
}

// Load returns the saved preference document for a user and category, or nil
// when nothing has been saved yet
func (s *Store) Load(ctx context.Context, userID, category string) (json.RawMessage, error) {
	if !validCategories[category] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}

	val, err := s.client.Get(ctx, key(userID, category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return json.RawMessage(val), nil
}

// Save stores a preference document for a user and category. The document
// must be valid JSON; the store does not inspect it beyond that.
func (s *Store) Save(ctx context.Context, userID, category string, raw json.RawMessage) error {
	if !validCategories[category] {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	if !json.Valid(raw) {
		return errors.New("preference document is not valid JSON")
	}

	if err := s.client.Set(ctx, key(userID, category), []byte(raw), 0).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return nil
}

// Close closes the underlying Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
