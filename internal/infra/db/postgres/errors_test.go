package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"resort/internal/domain/availability"
	"resort/internal/domain/booking"
	"resort/internal/domain/guest"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

func TestTranslate(t *testing.T) {
	notFound := errors.New("not found")
	dup := errors.New("duplicate")
	other := errors.New("boom")

	assert.NoError(t, translate(nil, notFound, dup))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, notFound, dup), notFound)
	assert.ErrorIs(t, translate(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"}), notFound, dup), dup)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23P01"}, notFound, dup), availability.ErrUnavailable)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}, notFound, dup), ErrInUse)
	assert.ErrorIs(t, translate(other, notFound, dup), other)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(translate(&pgconn.PgError{Code: "23505"}, nil, nil), &pgErr))
}

func TestBookingMappingRoundTrip(t *testing.T) {
	stay := daterange.Must(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))
	in := &booking.Booking{
		ID:          9,
		RoomID:      3,
		GuestName:   "Asha",
		GuestEmail:  "asha@example.com",
		Stay:        stay,
		Adults:      2,
		TotalAmount: money.MustParse("899.97", "INR"),
		Status:      booking.StatusConfirmed,
		CreatedAt:   time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	m := bookingToModel(in)
	assert.True(t, decimal.RequireFromString("899.97").Equal(m.TotalAmount))

	out, err := bookingFromModel(m, "INR")
	require.NoError(t, err)
	assert.True(t, out.Stay.Equal(stay))
	assert.True(t, out.TotalAmount.Equal(in.TotalAmount))
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, in.RoomID, out.RoomID)
}

func TestGuestMappingKeepsOptionalPassword(t *testing.T) {
	g := &guest.Guest{ID: 1, FullName: "Front Desk", Email: "desk@resort.test"}
	out := guestFromModel(guestToModel(g))
	assert.False(t, out.CanSignIn())
	assert.Equal(t, g.Email, out.Email)
}
