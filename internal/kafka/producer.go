package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/calebmorris/trade-journal/internal/models"
)

// Producer publishes journal lifecycle events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishTradeRecorded publishes a trade created event
func (p *Producer) PublishTradeRecorded(ctx context.Context, trade *models.Trade) error {
	return p.publish(ctx, trade.AccountID, models.JournalEvent{
		EventType: models.EventTradeRecorded,
		Trade:     trade,
		AccountID: trade.AccountID,
		Timestamp: time.Now(),
	})
}

// PublishTradeUpdated publishes a trade updated event
func (p *Producer) PublishTradeUpdated(ctx context.Context, trade *models.Trade) error {
	return p.publish(ctx, trade.AccountID, models.JournalEvent{
		EventType: models.EventTradeUpdated,
		Trade:     trade,
		AccountID: trade.AccountID,
		Timestamp: time.Now(),
	})
}

// PublishTradeDeleted publishes a trade deleted event
func (p *Producer) PublishTradeDeleted(ctx context.Context, trade *models.Trade) error {
	return p.publish(ctx, trade.AccountID, models.JournalEvent{
		EventType: models.EventTradeDeleted,
		Trade:     trade,
		AccountID: trade.AccountID,
		Timestamp: time.Now(),
	})
}

// PublishTransactionRecorded publishes a deposit/withdrawal event
func (p *Producer) PublishTransactionRecorded(ctx context.Context, tx *models.Transaction) error {
	return p.publish(ctx, tx.AccountID, models.JournalEvent{
		EventType:   models.EventTransactionRecorded,
		Transaction: tx,
		AccountID:   tx.AccountID,
		Timestamp:   time.Now(),
	})
}

func (p *Producer) publish(ctx context.Context, key string, event models.JournalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
