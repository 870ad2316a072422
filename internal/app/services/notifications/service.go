package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resort/internal/app/outbox"
	"resort/internal/app/policies"
	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
	"resort/internal/domain/shared/money"
)

var ErrNotifierMissing = errors.New("notifications: notifier is not configured")

const (
	SubjectConfirmed = "Your Resort Booking is Confirmed"
	SubjectCancelled = "Your Resort Booking was Cancelled"
	SubjectPaid      = "Payment Received"
)

// Inbox drops events that were already handled.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// BookingLookup resolves the guest contact of a payment's booking.
type BookingLookup interface {
	ByID(ctx context.Context, id booking.ID) (*booking.Booking, error)
}

// Service turns booking and payment events into guest notifications.
type Service struct {
	Notifier policies.Notifier
	Bookings BookingLookup
	Inbox    Inbox
	Resort   string
	Logger   *slog.Logger
}

// Append lets the service act as an outbox sink when no broker is configured.
func (s *Service) Append(ctx context.Context, records []outbox.EventRecord) error {
	var errs []error
	for _, rec := range records {
		if err := s.Handle(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", rec.Name, rec.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Handle renders and sends the notifications for one event. Events with
// other names are ignored.
func (s *Service) Handle(ctx context.Context, rec outbox.EventRecord) error {
	if s.Notifier == nil {
		return ErrNotifierMissing
	}
	if !Handles(rec.Name) {
		return nil
	}
	if s.Inbox != nil && rec.ID != "" {
		seen, err := s.Inbox.Seen(ctx, rec.ID)
		if err != nil {
			return err
		}
		if seen {
			s.logger().Debug("notification event already handled", "event_id", rec.ID, "event", rec.Name)
			return nil
		}
	}
	msgs, err := s.Render(ctx, rec)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		msg.EventID = rec.ID
		if err := s.Notifier.Send(ctx, msg); err != nil {
			return fmt.Errorf("send %s notification: %w", msg.Channel, err)
		}
	}
	s.logger().Info("notifications sent", "event", rec.Name, "aggregate", rec.Aggregate, "messages", len(msgs))
	return nil
}

func Handles(name string) bool {
	switch name {
	case booking.EventConfirmed, booking.EventCancelled, payment.EventPaid:
		return true
	}
	return false
}

// Render builds the email and, when a phone number is known, the SMS for rec.
func (s *Service) Render(ctx context.Context, rec outbox.EventRecord) ([]policies.Message, error) {
	switch rec.Name {
	case booking.EventConfirmed:
		var ev booking.BookingConfirmed
		if err := json.Unmarshal(rec.Payload, &ev); err != nil {
			return nil, err
		}
		body := fmt.Sprintf("Dear %s,\n\nYour booking #%d at %s is confirmed.\nCheck-in: %s\nCheck-out: %s\nTotal: %s\n\nWe look forward to welcoming you.",
			ev.GuestName, ev.BookingID, s.resort(), day(ev.CheckIn), day(ev.CheckOut), amount(ev.Total))
		sms := fmt.Sprintf("%s: booking #%d confirmed for %s to %s. Total %s.",
			s.resort(), ev.BookingID, day(ev.CheckIn), day(ev.CheckOut), amount(ev.Total))
		return messages("booking_confirmed", ev.GuestEmail, ev.GuestPhone, SubjectConfirmed, body, sms), nil
	case booking.EventCancelled:
		var ev booking.BookingCancelled
		if err := json.Unmarshal(rec.Payload, &ev); err != nil {
			return nil, err
		}
		body := fmt.Sprintf("Dear %s,\n\nYour booking #%d at %s for %s to %s has been cancelled.",
			ev.GuestName, ev.BookingID, s.resort(), day(ev.CheckIn), day(ev.CheckOut))
		if ev.Reason != "" {
			body += "\nReason: " + ev.Reason
		}
		sms := fmt.Sprintf("%s: booking #%d has been cancelled.", s.resort(), ev.BookingID)
		return messages("booking_cancelled", ev.GuestEmail, ev.GuestPhone, SubjectCancelled, body, sms), nil
	case payment.EventPaid:
		var ev payment.PaymentPaid
		if err := json.Unmarshal(rec.Payload, &ev); err != nil {
			return nil, err
		}
		if s.Bookings == nil {
			return nil, errors.New("notifications: booking lookup is not configured")
		}
		b, err := s.Bookings.ByID(ctx, ev.BookingID)
		if err != nil {
			return nil, err
		}
		body := fmt.Sprintf("Dear %s,\n\nWe received your payment of %s for booking #%d.",
			b.GuestName, amount(ev.Amount), ev.BookingID)
		if ev.ReferenceID != "" {
			body += "\nReference: " + ev.ReferenceID
		}
		sms := fmt.Sprintf("%s: payment of %s received for booking #%d.", s.resort(), amount(ev.Amount), ev.BookingID)
		return messages("payment_paid", b.GuestEmail, b.GuestPhone, SubjectPaid, body, sms), nil
	}
	return nil, nil
}

func messages(template, email, phone, subject, body, sms string) []policies.Message {
	out := []policies.Message{{Channel: policies.ChannelEmail, To: email, Subject: subject, Body: body, Template: template}}
	if strings.TrimSpace(phone) != "" {
		out = append(out, policies.Message{Channel: policies.ChannelSMS, To: phone, Body: sms, Template: template})
	}
	return out
}

func day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func amount(m money.Money) string {
	return m.Currency + " " + m.String()
}

func (s *Service) resort() string {
	if s.Resort != "" {
		return s.Resort
	}
	return "the resort"
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
