package payment

import (
	"time"

	"resort/internal/domain/booking"
	"resort/internal/domain/shared/events"
	"resort/internal/domain/shared/money"
)

const (
	EventRecorded = "payment.recorded"
	EventPaid     = "payment.paid"
)

type PaymentRecorded struct {
	PaymentID ID          `json:"payment_id"`
	BookingID booking.ID  `json:"booking_id"`
	Amount    money.Money `json:"amount"`
	Method    string      `json:"method"`
	Status    Status      `json:"status"`
	At        time.Time   `json:"at"`
}

func (e PaymentRecorded) EventName() string     { return EventRecorded }
func (e PaymentRecorded) AggregateID() string   { return events.FormatID(int64(e.PaymentID)) }
func (e PaymentRecorded) OccurredAt() time.Time { return e.At }

type PaymentPaid struct {
	PaymentID   ID          `json:"payment_id"`
	BookingID   booking.ID  `json:"booking_id"`
	Amount      money.Money `json:"amount"`
	ReferenceID string      `json:"reference_id,omitempty"`
	At          time.Time   `json:"at"`
}

func (e PaymentPaid) EventName() string     { return EventPaid }
func (e PaymentPaid) AggregateID() string   { return events.FormatID(int64(e.PaymentID)) }
func (e PaymentPaid) OccurredAt() time.Time { return e.At }
