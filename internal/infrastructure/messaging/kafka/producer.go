package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radassist/report-engine/internal/config"
	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events keyed by aggregate ID so events for one
// report land on one partition in order.
type Producer struct {
	writer      writerInterface
	topicPrefix string
	source      string
	logger      logging.Logger
	closed      atomic.Bool
}

// NewProducer builds a Producer from config.  Call Close when done.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: parseAcks(cfg.Acks),
		MaxAttempts:  cfg.MaxRetries,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Producer{
		writer:      w,
		topicPrefix: cfg.TopicPrefix,
		source:      "report-engine",
		logger:      log,
	}
}

// NewProducerWithWriter wires a custom writer (for testing).
func NewProducerWithWriter(w writerInterface, topicPrefix string, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: w, topicPrefix: topicPrefix, source: "report-engine", logger: log}
}

// Publish routes a domain event to its topic.  Unknown event types are an
// internal error; they indicate a new event was added without a topic mapping.
func (p *Producer) Publish(ctx context.Context, ev common.DomainEvent) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeInternal, "kafka producer is closed")
	}

	topic, eventType, err := topicFor(ev)
	if err != nil {
		return err
	}
	env, err := NewEventEnvelope(eventType, p.source, ev)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: p.topicPrefix + topic,
		Key:   []byte(ev.AggregateID()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "schema_version", Value: []byte(env.SchemaVersion)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to publish event")
	}
	p.logger.Debug("event published",
		logging.String("topic", msg.Topic),
		logging.String("event_type", eventType),
		logging.String("aggregate_id", ev.AggregateID()))
	return nil
}

// Close flushes and shuts the writer down.  Safe to call more than once.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}

func topicFor(ev common.DomainEvent) (topic, eventType string, err error) {
	switch ev.(type) {
	case *report.SentenceSavedEvent:
		return TopicSentenceSaved, "sentence.saved", nil
	case *report.DuplicateDetectedEvent:
		return TopicDuplicateDetected, "sentence.duplicate_detected", nil
	case *report.ReportRestructuredEvent:
		return TopicReportRestructured, "report.restructured", nil
	default:
		return "", "", errors.New(errors.ErrCodeInternal, fmt.Sprintf("no topic mapping for event type %T", ev))
	}
}

func parseAcks(acks string) kafka.RequiredAcks {
	switch acks {
	case "none":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}

// NopPublisher drops events.  Used when Kafka is disabled in config.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, common.DomainEvent) error { return nil }
