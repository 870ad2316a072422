package events

import (
	"strconv"
	"time"
)

// DomainEvent is anything an aggregate records for the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

// FormatID renders a numeric aggregate id the way the outbox stores it.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
