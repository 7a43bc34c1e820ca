package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Producer handles Kafka event emission
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	requiredAcks := kafka.RequiredAcks(cfg.RequiredAcks)

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           requiredAcks,
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// MatchEvent represents a match lifecycle event
type MatchEvent struct {
	EventType    string    `json:"event_type"` // match.created, match.status_changed
	MatchID      string    `json:"match_id"`
	StartupID    string    `json:"startup_id"`
	InvestorID   string    `json:"investor_id"`
	MatchScore   int       `json:"match_score"`
	Status       string    `json:"status"`
	InitiatedBy  string    `json:"initiated_by,omitempty"`
	MatchReasons []string  `json:"match_reasons,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// PublishMatchEvent publishes a match event keyed by match ID so events for
// the same match stay ordered within a partition.
func (p *Producer) PublishMatchEvent(ctx context.Context, event *MatchEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishMatchEvent")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to marshal match event")
		return err
	}

	message := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.MatchID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "trace_id", Value: []byte(tracing.GetTraceID(ctx))},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"match_id":   event.MatchID,
			"event_type": event.EventType,
		}).Error("Failed to publish match event")
		return err
	}

	return nil
}
