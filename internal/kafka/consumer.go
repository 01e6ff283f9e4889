package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/calebmorris/trade-journal/internal/models"
)

// Execution event type accepted by the import consumer
const eventPositionClosed = "POSITION_CLOSED"

// TradeRepository defines the trade persistence operations the import
// consumer needs
type TradeRepository interface {
	CreateTrade(t *models.Trade) error
	TradeExistsByImportRef(importRef string) (bool, error)
}

// ImportConsumer ingests broker position-close events and records them as
// direct-P/L journal trades, so fills land in the journal without manual
// entry. Account balances move through the same repository path as trades
// entered by hand.
type ImportConsumer struct {
	reader *kafka.Reader
	repo   TradeRepository
}

// NewImportConsumer creates a Kafka consumer for broker execution events
func NewImportConsumer(brokers []string, topic, groupID string, repo TradeRepository) *ImportConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &ImportConsumer{
		reader: reader,
		repo:   repo,
	}
}

// Start consumes messages until the context is cancelled. Bad messages are
// logged and skipped; they never stop the loop.
func (c *ImportConsumer) Start(ctx context.Context) error {
	logrus.WithField("topic", c.reader.Config().Topic).Info("starting broker import consumer")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("broker import consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				logrus.WithError(err).Error("error reading message")
				continue
			}

			if err := c.processMessage(msg); err != nil {
				logrus.WithError(err).Error("error processing message")
				// Continue processing other messages
			}
		}
	}
}

func (c *ImportConsumer) processMessage(msg kafka.Message) error {
	var event models.ExecutionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal execution event: %w", err)
	}

	if event.EventType != eventPositionClosed {
		logrus.WithField("event_type", event.EventType).Debug("ignoring event type")
		return nil
	}

	importRef := event.Source + ":" + event.Data.OrderID

	// Idempotency: replayed fills must not double-book P/L.
	exists, err := c.repo.TradeExistsByImportRef(importRef)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate import: %w", err)
	}
	if exists {
		logrus.WithField("import_ref", importRef).Info("trade already imported, skipping")
		return nil
	}

	trade, err := c.convertEventToTrade(event, importRef)
	if err != nil {
		return fmt.Errorf("failed to convert execution event: %w", err)
	}

	if err := c.repo.CreateTrade(trade); err != nil {
		return fmt.Errorf("failed to save imported trade: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"symbol":     trade.Symbol,
		"import_ref": importRef,
	}).Info("imported broker trade")

	return nil
}

func (c *ImportConsumer) convertEventToTrade(event models.ExecutionEvent, importRef string) (*models.Trade, error) {
	data := event.Data

	if data.AccountID == "" {
		return nil, fmt.Errorf("execution event missing account id")
	}

	pnl, err := decimal.NewFromString(data.RealizedPnl)
	if err != nil {
		return nil, fmt.Errorf("invalid realized pnl %q: %w", data.RealizedPnl, err)
	}

	fees := decimal.Zero
	if data.Fees != "" {
		fees, err = decimal.NewFromString(data.Fees)
		if err != nil {
			return nil, fmt.Errorf("invalid fees %q: %w", data.Fees, err)
		}
	}

	direction := strings.ToUpper(data.Side)
	if direction != models.DirectionLong && direction != models.DirectionShort {
		return nil, fmt.Errorf("invalid position side: %s", data.Side)
	}

	entryDate, entryTime := splitTimestamp(data.OpenedAt)
	exitDate, exitTime := splitTimestamp(data.ClosedAt)

	return &models.Trade{
		AccountID:      data.AccountID,
		InstrumentType: models.InstrumentStock,
		Direction:      direction,
		Symbol:         data.Symbol,
		EntryDate:      entryDate,
		EntryTime:      entryTime,
		ExitDate:       exitDate,
		ExitTime:       exitTime,
		EntryMode:      models.EntryModeDirect,
		RealizedPL:     &pnl,
		Commission:     fees,
		Notes:          "Imported from " + event.Source,
		ImportRef:      importRef,
	}, nil
}

// splitTimestamp turns a broker timestamp into the journal's local date and
// time strings. A missing or unreadable timestamp falls back to now.
func splitTimestamp(raw *string) (string, string) {
	ts := time.Now()
	if raw != nil && *raw != "" {
		parsed, err := time.Parse(time.RFC3339, *raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02T15:04:05", *raw)
		}
		if err == nil {
			ts = parsed
		}
	}
	ts = ts.Local()
	return ts.Format("2006-01-02"), ts.Format("15:04")
}

// Close closes the Kafka consumer
func (c *ImportConsumer) Close() error {
	return c.reader.Close()
}
