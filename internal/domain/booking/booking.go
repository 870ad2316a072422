package booking

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/events"
	"resort/internal/domain/shared/money"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrGuestNameRequired = errors.New("booking: guest name is required")
	ErrInvalidEmail      = errors.New("booking: guest email is invalid")
	ErrInvalidGuests     = errors.New("booking: at least one adult is required")
	ErrInvalidStatus     = errors.New("booking: invalid status")
	ErrInvalidTotal      = errors.New("booking: total amount must not be negative")
	ErrTotalOutOfRange   = errors.New("booking: total amount exceeds 99999999.99")
)

type ID int64

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Booking struct {
	ID              ID
	RoomID          room.ID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Stay            daterange.DateRange
	Adults          int
	Children        int
	TotalAmount     money.Money
	Status          Status
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	events.EventRecorder
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	RoomID   room.ID
	Statuses []Status
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	// List returns bookings ordered by check-in, latest first.
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	ListConfirmedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*Booking, error)
	Create(ctx context.Context, booking *Booking) error
	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	RoomID          room.ID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Stay            daterange.DateRange
	Adults          int
	Children        int
	TotalAmount     money.Money
	SpecialRequests string
	CreatedAt       time.Time
}

// NewBooking builds a confirmed booking. The caller is expected to have
// checked availability inside the same unit of work. The confirmation event
// is recorded once the booking has an id, see Confirmed.
func NewBooking(params CreateParams) (*Booking, error) {
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	b := &Booking{
		RoomID:          params.RoomID,
		GuestName:       strings.TrimSpace(params.GuestName),
		GuestEmail:      normalizeEmail(params.GuestEmail),
		GuestPhone:      strings.TrimSpace(params.GuestPhone),
		Stay:            params.Stay,
		Adults:          params.Adults,
		Children:        params.Children,
		TotalAmount:     params.TotalAmount,
		Status:          StatusConfirmed,
		SpecialRequests: strings.TrimSpace(params.SpecialRequests),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Confirmed records the confirmation event. Call it after storage assigned the id.
func (b *Booking) Confirmed() {
	b.Record(BookingConfirmed{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		GuestPhone: b.GuestPhone,
		CheckIn:    b.Stay.CheckIn,
		CheckOut:   b.Stay.CheckOut,
		Total:      b.TotalAmount,
		At:         b.CreatedAt,
	})
}

// Holds reports whether the booking blocks its room for its stay.
func (b *Booking) Holds() bool {
	return b.Status == StatusConfirmed
}

// Cancel marks the booking cancelled. Cancelling twice is a no-op and
// reports false.
func (b *Booking) Cancel(reason string, now time.Time) bool {
	if b.Status == StatusCancelled {
		return false
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		GuestPhone: b.GuestPhone,
		CheckIn:    b.Stay.CheckIn,
		CheckOut:   b.Stay.CheckOut,
		Reason:     reason,
		At:         b.UpdatedAt,
	})
	return true
}

func (b *Booking) validate() error {
	if b.GuestName == "" {
		return ErrGuestNameRequired
	}
	if _, err := mail.ParseAddress(b.GuestEmail); err != nil || b.GuestEmail == "" {
		return ErrInvalidEmail
	}
	if b.Adults < 1 || b.Children < 0 {
		return ErrInvalidGuests
	}
	if err := b.Stay.Validate(); err != nil {
		return err
	}
	if err := checkTotal(b.TotalAmount); err != nil {
		return err
	}
	switch b.Status {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
	default:
		return ErrInvalidStatus
	}
	return nil
}

func checkTotal(total money.Money) error {
	if total.Amount < 0 {
		return ErrInvalidTotal
	}
	if !total.Storable() {
		return ErrTotalOutOfRange
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
