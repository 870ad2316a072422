package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"resort/internal/app/policies"
)

const DefaultExchange = "resort.notifications"

var ErrNotifierClosed = errors.New("amqp: notifier closed")

// Notifier publishes rendered notifications to a fanout exchange. Email and
// SMS gateways bind their own queues to it.
type Notifier struct {
	conn     *amqp.Connection
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

var _ policies.Notifier = (*Notifier)(nil)

func NewNotifier(url, exchange string, logger *slog.Logger) (*Notifier, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}
	if err := declareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: declare exchange: %w", err)
	}
	return &Notifier{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
}

func (n *Notifier) Send(ctx context.Context, msg policies.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ch, err := n.openChannel()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(ctx, n.exchange, string(msg.Channel), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.EventID + ":" + string(msg.Channel),
		Type:         msg.Template,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		n.logger.Warn("amqp publish failed", "template", msg.Template, "channel", msg.Channel, "error", err)
		return err
	}
	return nil
}

// openChannel reopens the channel after the broker closed it.
func (n *Notifier) openChannel() (*amqp.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil || n.conn.IsClosed() {
		return nil, ErrNotifierClosed
	}
	if n.channel != nil && !n.channel.IsClosed() {
		return n.channel, nil
	}
	ch, err := n.conn.Channel()
	if err != nil {
		return nil, err
	}
	n.channel = ch
	return ch, nil
}

func (n *Notifier) Ping(context.Context) error {
	if n.conn == nil || n.conn.IsClosed() {
		return ErrNotifierClosed
	}
	return nil
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var errs []error
	if n.channel != nil {
		errs = append(errs, n.channel.Close())
	}
	if n.conn != nil {
		errs = append(errs, n.conn.Close())
	}
	return errors.Join(errs...)
}
