package booking

import (
	"strings"
	"time"

	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

// Patch is a partial admin update. Nil fields are left untouched.
type Patch struct {
	GuestName       *string
	GuestEmail      *string
	GuestPhone      *string
	CheckIn         *time.Time
	CheckOut        *time.Time
	Adults          *int
	Children        *int
	TotalAmount     *money.Money
	Status          *Status
	SpecialRequests *string
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Change summarises what an applied patch did to the booking.
type Change struct {
	StayChanged  bool
	Reconfirmed  bool
	Cancelled    bool
	TotalChanged bool
}

// NeedsAvailability reports whether the booking must be checked against the
// room calendar again.
func (c Change) NeedsAvailability(b *Booking) bool {
	return b.Holds() && (c.StayChanged || c.Reconfirmed)
}

// Apply validates and applies the patch field by field. The booking is left
// unchanged when validation fails. A cancellation records its event here;
// other edits are announced by Updated once the total is final.
func (b *Booking) Apply(p Patch, now time.Time) (Change, error) {
	next := *b
	var change Change

	if p.GuestName != nil {
		next.GuestName = strings.TrimSpace(*p.GuestName)
	}
	if p.GuestEmail != nil {
		next.GuestEmail = normalizeEmail(*p.GuestEmail)
	}
	if p.GuestPhone != nil {
		next.GuestPhone = strings.TrimSpace(*p.GuestPhone)
	}
	if p.CheckIn != nil || p.CheckOut != nil {
		in, out := b.Stay.CheckIn, b.Stay.CheckOut
		if p.CheckIn != nil {
			in = *p.CheckIn
		}
		if p.CheckOut != nil {
			out = *p.CheckOut
		}
		stay, err := daterange.New(in, out)
		if err != nil {
			return Change{}, err
		}
		change.StayChanged = !stay.Equal(b.Stay)
		next.Stay = stay
	}
	if p.Adults != nil {
		next.Adults = *p.Adults
	}
	if p.Children != nil {
		next.Children = *p.Children
	}
	if p.TotalAmount != nil {
		change.TotalChanged = !p.TotalAmount.Equal(b.TotalAmount)
		next.TotalAmount = *p.TotalAmount
	}
	if p.Status != nil {
		change.Reconfirmed = *p.Status == StatusConfirmed && b.Status != StatusConfirmed
		change.Cancelled = *p.Status == StatusCancelled && b.Status != StatusCancelled
		next.Status = *p.Status
	}
	if p.SpecialRequests != nil {
		next.SpecialRequests = strings.TrimSpace(*p.SpecialRequests)
	}
	if err := next.validate(); err != nil {
		return Change{}, err
	}
	next.UpdatedAt = now.UTC()
	*b = next

	if change.Cancelled {
		b.Record(BookingCancelled{
			BookingID:  b.ID,
			RoomID:     b.RoomID,
			GuestName:  b.GuestName,
			GuestEmail: b.GuestEmail,
			GuestPhone: b.GuestPhone,
			CheckIn:    b.Stay.CheckIn,
			CheckOut:   b.Stay.CheckOut,
			Reason:     "updated by admin",
			At:         b.UpdatedAt,
		})
	}
	return change, nil
}

// Reprice replaces the total after the stay changed.
func (b *Booking) Reprice(total money.Money) error {
	if err := checkTotal(total); err != nil {
		return err
	}
	b.TotalAmount = total
	return nil
}

// Updated records booking.updated with the current stay and total.
func (b *Booking) Updated() {
	b.Record(BookingUpdated{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		Status:    b.Status,
		CheckIn:   b.Stay.CheckIn,
		CheckOut:  b.Stay.CheckOut,
		Total:     b.TotalAmount,
		At:        b.UpdatedAt,
	})
}
