package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/domain/shared/money"
)

func TestNewRejectsNonPositiveAmount(t *testing.T) {
	_, err := New(CreateParams{BookingID: 1, Amount: money.Must(0, "INR"), Method: "UPI"})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = New(CreateParams{BookingID: 1, Amount: money.Must(-100, "INR"), Method: "UPI"})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNewDefaultsToPending(t *testing.T) {
	p, err := New(CreateParams{BookingID: 1, Amount: money.MustParse("500", "INR"), Method: "CARD"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Nil(t, p.PaidAt)
}

func TestApplyPaidStampsPaidAtOnce(t *testing.T) {
	p, err := New(CreateParams{BookingID: 1, Amount: money.MustParse("500", "INR"), Method: "CARD"})
	require.NoError(t, err)
	p.ID = 3

	paid := StatusPaid
	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, p.Apply(Patch{Status: &paid}, first))
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, first, *p.PaidAt)

	require.NoError(t, p.Apply(Patch{Status: &paid}, first.Add(time.Hour)))
	assert.Equal(t, first, *p.PaidAt)

	evts := p.PendingEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, EventPaid, evts[0].EventName())
	assert.Equal(t, "3", evts[0].AggregateID())
}

func TestApplyRejectsUnknownStatus(t *testing.T) {
	p, err := New(CreateParams{BookingID: 1, Amount: money.MustParse("500", "INR"), Method: "CARD"})
	require.NoError(t, err)

	bogus := Status("REFUNDED")
	require.ErrorIs(t, p.Apply(Patch{Status: &bogus}, time.Now()), ErrInvalidStatus)
	assert.Equal(t, StatusPending, p.Status)
}
