// Package kafka publishes report-engine domain events to Kafka.  The
// publisher is fire-and-forget from the caller's perspective; classification
// and restructuring never fail because the broker is down.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

const (
	TopicSentenceSaved      = "sentence.saved"
	TopicDuplicateDetected  = "sentence.duplicate_detected"
	TopicReportRestructured = "report.restructured"
)

// EventEnvelope is the wire format shared by all published events.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope wraps a domain event for publication.  The event itself is
// the payload; the envelope carries routing metadata.
func NewEventEnvelope(eventType, source string, ev common.DomainEvent) (*EventEnvelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       ev.EventID(),
		EventType:     eventType,
		Source:        source,
		AggregateID:   ev.AggregateID(),
		Timestamp:     ev.OccurredAt(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}
