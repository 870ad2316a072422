package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/domain/booking"
	domainreviews "resort/internal/domain/reviews"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
	"resort/internal/infra/storage/memory"
)

func newService(t *testing.T) (*Service, booking.ID) {
	t.Helper()
	bookings := memory.NewBookingRepository()
	b, err := booking.NewBooking(booking.CreateParams{
		RoomID:      1,
		GuestName:   "Asha",
		GuestEmail:  "asha@example.com",
		Stay:        daterange.Must(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2030, 1, 3, 0, 0, 0, 0, time.UTC)),
		Adults:      1,
		TotalAmount: money.MustParse("100", "INR"),
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Create(context.Background(), b))
	return &Service{Reviews: memory.NewReviewsRepository(), Bookings: bookings}, b.ID
}

func TestSubmitAwaitsModeration(t *testing.T) {
	svc, bookingID := newService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, domainreviews.SubmitParams{BookingID: bookingID, GuestName: "Asha", Rating: 5, Comment: "Lovely stay"})
	require.NoError(t, err)
	assert.False(t, r.IsApproved)

	published, err := svc.Published(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	approved := true
	_, err = svc.Update(ctx, r.ID, domainreviews.Patch{IsApproved: &approved})
	require.NoError(t, err)
	published, err = svc.Published(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Lovely stay", published[0].Comment)
}

func TestSubmitRules(t *testing.T) {
	svc, bookingID := newService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, domainreviews.SubmitParams{BookingID: 77, GuestName: "X", Rating: 4})
	assert.ErrorIs(t, err, booking.ErrNotFound)
	_, err = svc.Submit(ctx, domainreviews.SubmitParams{BookingID: bookingID, GuestName: "X", Rating: 6})
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)

	_, err = svc.Submit(ctx, domainreviews.SubmitParams{BookingID: bookingID, GuestName: "X", Rating: 4})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, domainreviews.SubmitParams{BookingID: bookingID, GuestName: "X", Rating: 3})
	assert.ErrorIs(t, err, domainreviews.ErrAlreadyReviewed)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, svc.Delete(ctx, all[0].ID))
	_, err = svc.Update(ctx, all[0].ID, domainreviews.Patch{})
	assert.ErrorIs(t, err, domainreviews.ErrNotFound)
}
