package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "resort/internal/app/outbox"
)

func TestEventHandlerDecodesCloudEvent(t *testing.T) {
	payload, err := json.Marshal(map[string]any{
		"specversion": "1.0",
		"id":          "evt-1",
		"type":        "booking.cancelled.v1",
		"source":      "app://resort",
		"subject":     "12",
		"time":        "2025-03-01T10:00:00Z",
		"data":        map[string]any{"booking_id": 12},
	})
	require.NoError(t, err)

	var got appoutbox.EventRecord
	h := EventHandler(func(ctx context.Context, rec appoutbox.EventRecord) error {
		got = rec
		return nil
	})
	err = h.Handle(context.Background(), &sarama.ConsumerMessage{
		Value:   payload,
		Headers: []*sarama.RecordHeader{{Key: []byte("traceparent"), Value: []byte("00-1-2-01")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, "booking.cancelled", got.Name)
	assert.Equal(t, "12", got.Aggregate)
	assert.Equal(t, "00-1-2-01", got.Headers["traceparent"])
	assert.JSONEq(t, `{"booking_id":12}`, string(got.Payload))
}

func TestEventHandlerRejectsGarbage(t *testing.T) {
	h := EventHandler(func(context.Context, appoutbox.EventRecord) error { return nil })
	assert.Error(t, h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("{}")}))
}

func TestTopicsDeduplicates(t *testing.T) {
	assert.Equal(t,
		[]string{"p.booking.events.v1", "p.payment.events.v1"},
		Topics("p.", "booking.confirmed", "booking.cancelled", "payment.paid"),
	)
}

func TestNewMessageCarriesHeaders(t *testing.T) {
	msg := newMessage("t", "k", []byte("v"), map[string]string{"content-type": "application/json"})
	assert.Equal(t, "t", msg.Topic)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "content-type", string(msg.Headers[0].Key))
}
