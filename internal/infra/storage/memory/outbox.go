package memory

import (
	"context"
	"sync"

	appoutbox "resort/internal/app/outbox"
)

// OutboxSink keeps every flushed event and forwards it to Next, if set.
// It stands in for the Mongo outbox when no broker is configured.
type OutboxSink struct {
	Next appoutbox.Sink

	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutboxSink(next appoutbox.Sink) *OutboxSink {
	return &OutboxSink{Next: next}
}

func (o *OutboxSink) Append(ctx context.Context, records []appoutbox.EventRecord) error {
	o.mu.Lock()
	o.records = append(o.records, records...)
	o.mu.Unlock()
	if o.Next == nil {
		return nil
	}
	return o.Next.Append(ctx, records)
}

// Records returns a copy of everything appended so far.
func (o *OutboxSink) Records() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

var _ appoutbox.Sink = (*OutboxSink)(nil)

// Inbox remembers handled event ids for the lifetime of the process.
type Inbox struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewInbox() *Inbox {
	return &Inbox{seen: make(map[string]struct{})}
}

func (i *Inbox) Seen(ctx context.Context, eventID string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.seen[eventID]; ok {
		return true, nil
	}
	i.seen[eventID] = struct{}{}
	return false, nil
}
