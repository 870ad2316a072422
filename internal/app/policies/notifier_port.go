package policies

import "context"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message is one rendered notification addressed to a guest.
type Message struct {
	Channel  Channel `json:"channel"`
	To       string  `json:"to"`
	Subject  string  `json:"subject,omitempty"`
	Body     string  `json:"body"`
	Template string  `json:"template"`
	EventID  string  `json:"event_id,omitempty"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
