package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"resort/internal/domain/shared/events"
)

type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

// Outbox collects the events of one command and hands them to a Sink when
// the command has committed.
type Outbox interface {
	Begin(ctx context.Context) context.Context
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
	Discard(ctx context.Context)
}

// Sink persists or delivers flushed events.
type Sink interface {
	Append(ctx context.Context, records []EventRecord) error
}

type SinkFunc func(ctx context.Context, records []EventRecord) error

func (f SinkFunc) Append(ctx context.Context, records []EventRecord) error {
	return f(ctx, records)
}

type pending struct {
	mu      sync.Mutex
	records []EventRecord
}

type ctxKey struct{}

// Buffered keeps events in a per-command buffer carried by the context.
// Events added outside Begin go straight to the sink.
type Buffered struct {
	Sink Sink
}

var _ Outbox = (*Buffered)(nil)

func NewBuffered(sink Sink) *Buffered {
	return &Buffered{Sink: sink}
}

func (b *Buffered) Begin(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, &pending{})
}

func (b *Buffered) Add(ctx context.Context, record EventRecord) error {
	buf, ok := ctx.Value(ctxKey{}).(*pending)
	if !ok {
		return b.Sink.Append(ctx, []EventRecord{record})
	}
	buf.mu.Lock()
	buf.records = append(buf.records, record)
	buf.mu.Unlock()
	return nil
}

func (b *Buffered) Flush(ctx context.Context) error {
	records := b.take(ctx)
	if len(records) == 0 {
		return nil
	}
	return b.Sink.Append(ctx, records)
}

func (b *Buffered) Discard(ctx context.Context) {
	b.take(ctx)
}

func (b *Buffered) take(ctx context.Context) []EventRecord {
	buf, ok := ctx.Value(ctxKey{}).(*pending)
	if !ok {
		return nil
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	out := buf.records
	buf.records = nil
	return out
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers:    map[string]string{"content-type": "application/json"},
	}, nil
}

// RecordDomainEvents encodes evs and adds them to box.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, evs []events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
