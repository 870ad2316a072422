package kafka

import (
	"context"

	"github.com/IBM/sarama"

	appoutbox "resort/internal/app/outbox"
	infraoutbox "resort/internal/infra/outbox"
)

// EventHandler decodes outbox CloudEvents and passes them on as records.
func EventHandler(handle func(ctx context.Context, rec appoutbox.EventRecord) error) MessageHandler {
	return MessageHandlerFunc(func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		rec, err := infraoutbox.DecodeCloudEvent(msg.Value)
		if err != nil {
			return err
		}
		rec.Headers = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			if h != nil {
				rec.Headers[string(h.Key)] = string(h.Value)
			}
		}
		return handle(ctx, rec)
	})
}

// Topics lists the topics carrying the given event names.
func Topics(prefix string, names ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range names {
		topic := infraoutbox.TopicFor(prefix, name)
		if !seen[topic] {
			seen[topic] = true
			out = append(out, topic)
		}
	}
	return out
}
