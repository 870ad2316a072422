package availability

import (
	"context"
	"time"

	"resort/internal/app/dto"
	"resort/internal/app/handlers/support"
	"resort/internal/app/queries"
	"resort/internal/app/uow"
	domainavailability "resort/internal/domain/availability"
	domainbooking "resort/internal/domain/booking"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	RoomID   int64     `validate:"gt=0"`
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

// CheckAvailabilityHandler answers from a read-only snapshot. A positive
// answer is advisory: the booking write re-checks under a room lock.
type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Availability{}, err
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Availability{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	r, err := support.ActiveRoom(execCtx, unit.Rooms(), room.ID(q.RoomID))
	if err != nil {
		return dto.Availability{}, err
	}
	existing, err := unit.Bookings().List(execCtx, domainbooking.Filter{RoomID: r.ID, Statuses: []domainbooking.Status{domainbooking.StatusConfirmed}})
	if err != nil {
		return dto.Availability{}, err
	}
	conflicts := domainavailability.Conflicts(r.ID, stay, existing)
	out := dto.Availability{
		RoomID:    int64(r.ID),
		CheckIn:   stay.CheckIn.Format(dto.DateLayout),
		CheckOut:  stay.CheckOut.Format(dto.DateLayout),
		Available: len(conflicts) == 0,
		Conflicts: make([]dto.StayRef, 0, len(conflicts)),
	}
	for _, b := range conflicts {
		out.Conflicts = append(out.Conflicts, dto.StayRef{
			BookingID: int64(b.ID),
			CheckIn:   b.Stay.CheckIn.Format(dto.DateLayout),
			CheckOut:  b.Stay.CheckOut.Format(dto.DateLayout),
		})
	}
	return out, nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
