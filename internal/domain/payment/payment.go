package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"resort/internal/domain/booking"
	"resort/internal/domain/shared/events"
	"resort/internal/domain/shared/money"
)

var (
	ErrNotFound        = errors.New("payment: not found")
	ErrInvalidAmount   = errors.New("payment: amount must be greater than zero")
	ErrMethodRequired  = errors.New("payment: method is required")
	ErrInvalidStatus   = errors.New("payment: invalid status")
	ErrBookingRequired = errors.New("payment: booking id is required")
)

type ID int64

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusPending, StatusPaid, StatusFailed:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Payment struct {
	ID          ID
	BookingID   booking.ID
	Amount      money.Money
	Method      string
	Status      Status
	ReferenceID string
	PaidAt      *time.Time
	CreatedAt   time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Payment, error)
	// List returns payments newest first.
	List(ctx context.Context) ([]*Payment, error)
	ListByBooking(ctx context.Context, bookingID booking.ID) ([]*Payment, error)
	Create(ctx context.Context, p *Payment) error
	Save(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id ID) error
	// SumPaid totals the amounts of payments in PAID status.
	SumPaid(ctx context.Context, currency string) (money.Money, error)
}

type CreateParams struct {
	BookingID   booking.ID
	Amount      money.Money
	Method      string
	Status      Status
	ReferenceID string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Payment, error) {
	if params.BookingID == 0 {
		return nil, ErrBookingRequired
	}
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	method := strings.TrimSpace(params.Method)
	if method == "" {
		return nil, ErrMethodRequired
	}
	status := params.Status
	if status == "" {
		status = StatusPending
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	p := &Payment{
		BookingID:   params.BookingID,
		Amount:      params.Amount,
		Method:      method,
		Status:      status,
		ReferenceID: strings.TrimSpace(params.ReferenceID),
		CreatedAt:   now,
	}
	if status == StatusPaid {
		p.PaidAt = &now
	}
	return p, nil
}

// Recorded emits the creation events once storage assigned the id.
// AnyPaid reports whether one of the payments has settled.
func AnyPaid(payments []*Payment) bool {
	for _, p := range payments {
		if p.Status == StatusPaid {
			return true
		}
	}
	return false
}

func (p *Payment) Recorded() {
	p.Record(PaymentRecorded{PaymentID: p.ID, BookingID: p.BookingID, Amount: p.Amount, Method: p.Method, Status: p.Status, At: p.CreatedAt})
	if p.Status == StatusPaid {
		p.Record(PaymentPaid{PaymentID: p.ID, BookingID: p.BookingID, Amount: p.Amount, ReferenceID: p.ReferenceID, At: *p.PaidAt})
	}
}

type Patch struct {
	Status      *Status
	ReferenceID *string
	Method      *string
}

// Apply updates the payment. Moving to PAID stamps PaidAt and records
// PaymentPaid.
func (p *Payment) Apply(patch Patch, now time.Time) error {
	next := *p
	if patch.Method != nil {
		next.Method = strings.TrimSpace(*patch.Method)
		if next.Method == "" {
			return ErrMethodRequired
		}
	}
	if patch.ReferenceID != nil {
		next.ReferenceID = strings.TrimSpace(*patch.ReferenceID)
	}
	becamePaid := false
	if patch.Status != nil {
		status, err := ParseStatus(string(*patch.Status))
		if err != nil {
			return err
		}
		becamePaid = status == StatusPaid && p.Status != StatusPaid
		next.Status = status
	}
	if becamePaid {
		at := now.UTC()
		next.PaidAt = &at
	}
	*p = next
	if becamePaid {
		p.Record(PaymentPaid{PaymentID: p.ID, BookingID: p.BookingID, Amount: p.Amount, ReferenceID: p.ReferenceID, At: *p.PaidAt})
	}
	return nil
}
