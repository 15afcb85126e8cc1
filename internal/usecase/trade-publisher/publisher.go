// Package tradepublisher streams executed trades to a Kafka topic for
// external viewers. The stream is best-effort: publish failures are logged
// and never disturb matching or settlement.
package tradepublisher

import (
	"context"
	"encoding/json"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/config"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/logger"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// Publisher writes trade events to Kafka.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for executed trades.
func NewPublisher(cfg config.PublisherConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrade publishes one executed trade, keyed by instrument so a topic
// partition preserves per-instrument ordering.
func (p *Publisher) PublishTrade(ctx context.Context, trade *marketv1.Trade) error {
	value, err := json.Marshal(trade)
	if err != nil {
		return errors.Wrap(err, "marshal trade event")
	}

	msg := kafka.Message{
		Key:   []byte(trade.Symbol),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "tradeID", Value: trade.ID},
			logger.Field{Key: "symbol", Value: trade.Symbol},
		)
		return errors.Wrap(err, "publish trade event")
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
