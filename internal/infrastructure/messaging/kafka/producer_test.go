package kafka

import (
	"context"
	"encoding/json"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type capturingWriter struct {
	messages []segkafka.Message
	err      error
	closed   bool
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishSentenceSaved(t *testing.T) {
	w := &capturingWriter{}
	p := NewProducerWithWriter(w, "reporteng.", nil)

	s, err := report.NewSentence("Свободной жидкости нет.", report.SentenceTail, common.NewID(), "")
	require.NoError(t, err)
	ev := report.NewSentenceSavedEvent("report-1", s)

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "reporteng."+TopicSentenceSaved, msg.Topic)
	assert.Equal(t, "report-1", string(msg.Key))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "sentence.saved", env.EventType)
	assert.Equal(t, "report-1", env.AggregateID)
	assert.Equal(t, ev.EventID(), env.EventID)

	var payload report.SentenceSavedEvent
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, s.Text, payload.Text)
}

func TestProducer_TopicRouting(t *testing.T) {
	w := &capturingWriter{}
	p := NewProducerWithWriter(w, "", nil)

	dup := report.NewDuplicateDetectedEvent("report-2", "Отек костного мозга.", common.NewID(), 92)
	restr := report.NewReportRestructuredEvent("report-3", 4, 3, 1)

	require.NoError(t, p.Publish(context.Background(), dup))
	require.NoError(t, p.Publish(context.Background(), restr))
	require.Len(t, w.messages, 2)
	assert.Equal(t, TopicDuplicateDetected, w.messages[0].Topic)
	assert.Equal(t, TopicReportRestructured, w.messages[1].Topic)
}

func TestProducer_UnknownEventType(t *testing.T) {
	p := NewProducerWithWriter(&capturingWriter{}, "", nil)

	err := p.Publish(context.Background(), unknownEvent{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestProducer_ClosedRejectsPublish(t *testing.T) {
	w := &capturingWriter{}
	p := NewProducerWithWriter(w, "", nil)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	require.NoError(t, p.Close())

	ev := report.NewReportRestructuredEvent("report-4", 1, 1, 0)
	err := p.Publish(context.Background(), ev)
	require.Error(t, err)
	assert.Empty(t, w.messages)
}

func TestNopPublisher(t *testing.T) {
	ev := report.NewReportRestructuredEvent("report-5", 1, 0, 0)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), ev))
}

type unknownEvent struct{ common.BaseEvent }
