package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu     sync.Mutex
	docs   []*EventDocument
	sent   []string
	failed map[string]string
}

func (q *fakeQueue) Claim(ctx context.Context, workerID string, _ time.Duration) (*EventDocument, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, d := range q.docs {
		if d.State == stateNew {
			d.State = stateClaimed
			d.ClaimedBy = workerID
			return d, nil
		}
	}
	return nil, nil
}

func (q *fakeQueue) MarkSent(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failed == nil {
		q.failed = map[string]string{}
	}
	q.failed[id] = errMsg
	return nil
}

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	err  error
	msgs []published
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func newDoc(id, name string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       name,
		Aggregate:  "7",
		Payload:    []byte(`{"booking_id":7}`),
		OccurredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		State:      stateNew,
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	queue := &fakeQueue{docs: []*EventDocument{newDoc("e1", "booking.confirmed"), newDoc("e2", "payment.paid")}}
	producer := &fakeProducer{}
	w := &Worker{Store: queue, Producer: producer, TopicPrefix: "resort."}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"e1", "e2"}, queue.sent)
	require.Len(t, producer.msgs, 2)

	first := producer.msgs[0]
	assert.Equal(t, "resort.booking.events.v1", first.topic)
	assert.Equal(t, "7", first.key)
	assert.Equal(t, "application/cloudevents+json", first.headers["content-type"])

	rec, err := DecodeCloudEvent(first.payload)
	require.NoError(t, err)
	assert.Equal(t, "e1", rec.ID)
	assert.Equal(t, "booking.confirmed", rec.Name)
	assert.Equal(t, "7", rec.Aggregate)
	assert.JSONEq(t, `{"booking_id":7}`, string(rec.Payload))
	assert.Equal(t, "resort.payment.events.v1", producer.msgs[1].topic)
}

func TestWorkerMarksFailedOnPublishError(t *testing.T) {
	queue := &fakeQueue{docs: []*EventDocument{newDoc("e1", "booking.cancelled")}}
	w := &Worker{Store: queue, Producer: &fakeProducer{err: errors.New("broker down")}, Backoff: []time.Duration{time.Second}}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Empty(t, queue.sent)
	assert.Equal(t, "broker down", queue.failed["e1"])
}

func TestWorkerRejectsInvalidPayload(t *testing.T) {
	doc := newDoc("bad", "booking.updated")
	doc.Payload = []byte("not json")
	queue := &fakeQueue{docs: []*EventDocument{doc}}
	producer := &fakeProducer{}
	w := &Worker{Store: queue, Producer: producer}

	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Empty(t, producer.msgs)
	assert.Contains(t, queue.failed, "bad")
}

func TestWorkerRunRequiresDependencies(t *testing.T) {
	err := (&Worker{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestTopicFor(t *testing.T) {
	assert.Equal(t, "booking.events.v1", TopicFor("", "booking.confirmed"))
	assert.Equal(t, "dev.payment.events.v1", TopicFor("dev.", "payment.paid"))
	assert.Equal(t, "misc.events.v1", TopicFor("", "misc"))
}
