package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "resort/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Queue is the claimable side of the outbox store.
type Queue interface {
	Claim(ctx context.Context, workerID string, claimTimeout time.Duration) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

// Worker relays outbox events to Kafka as CloudEvents.
type Worker struct {
	Store        Queue
	Producer     Producer
	Interval     time.Duration
	BatchSize    int
	ClaimTimeout time.Duration
	TopicPrefix  string
	Source       string
	ID           string
	Backoff      []time.Duration
	Logger       *slog.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger().Error("outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes up to BatchSize due events and reports how many were sent.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	for i := 0; i < w.batchSize(); i++ {
		ok, err := w.processOnce(ctx)
		if err != nil {
			return sent, err
		}
		if !ok {
			break
		}
		sent++
	}
	return sent, nil
}

// processOnce returns false when nothing was due.
func (w *Worker) processOnce(ctx context.Context) (bool, error) {
	doc, err := w.Store.Claim(ctx, w.workerID(), w.claimTimeout())
	if err != nil || doc == nil {
		return false, err
	}
	topic := w.TopicFor(doc.Name)
	payload, headers, err := w.formatPayload(doc)
	if err != nil {
		w.logger().Error("outbox event malformed", "event_id", doc.ID, "event", doc.Name, "error", err)
		return true, w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
	}
	if err := w.Producer.Publish(ctx, topic, doc.Aggregate, payload, headers); err != nil {
		w.logger().Warn("outbox publish failed", "event_id", doc.ID, "topic", topic, "attempts", doc.Attempts+1, "error", err)
		return true, w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
	}
	return true, w.Store.MarkSent(ctx, doc.ID)
}

// CloudEvent is the envelope published for every outbox record.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
	TraceParent     string          `json:"traceparent,omitempty"`
}

func (w *Worker) formatPayload(doc *EventDocument) ([]byte, map[string]string, error) {
	if !json.Valid(doc.Payload) {
		return nil, nil, errors.New("outbox: payload is not valid json")
	}
	evt := CloudEvent{
		SpecVersion:     "1.0",
		ID:              doc.ID,
		Type:            doc.Name + ".v1",
		Source:          w.source(),
		Subject:         doc.Aggregate,
		Time:            doc.OccurredAt,
		DataContentType: "application/json",
		Data:            doc.Payload,
		TraceParent:     doc.Headers["traceparent"],
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	headers["content-type"] = "application/cloudevents+json"
	headers["ce-type"] = evt.Type
	return payload, headers, nil
}

// DecodeCloudEvent turns a published envelope back into the event record
// it was built from.
func DecodeCloudEvent(payload []byte) (appoutbox.EventRecord, error) {
	var evt CloudEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return appoutbox.EventRecord{}, err
	}
	if evt.ID == "" || evt.Type == "" {
		return appoutbox.EventRecord{}, errors.New("outbox: cloud event missing id or type")
	}
	return appoutbox.EventRecord{
		ID:         evt.ID,
		Name:       strings.TrimSuffix(evt.Type, ".v1"),
		Payload:    evt.Data,
		OccurredAt: evt.Time,
		Aggregate:  evt.Subject,
	}, nil
}

// TopicFor maps "booking.confirmed" to "<prefix>booking.events.v1".
func (w *Worker) TopicFor(name string) string {
	return TopicFor(w.TopicPrefix, name)
}

func TopicFor(prefix, name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return prefix + base + ".events.v1"
}

func (w *Worker) workerID() string {
	if w.ID != "" {
		return w.ID
	}
	return uuid.NewString()
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) batchSize() int {
	if w.BatchSize <= 0 {
		return 50
	}
	return w.BatchSize
}

func (w *Worker) claimTimeout() time.Duration {
	if w.ClaimTimeout <= 0 {
		return time.Minute
	}
	return w.ClaimTimeout
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://resort"
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}
