package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/app/commands"
	bookinghandlers "resort/internal/app/handlers/booking"
	"resort/internal/app/outbox"
	"resort/internal/app/wiring"
	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
	"resort/internal/infra/storage/memory"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type sweepFixture struct {
	now      time.Time
	roomID   room.ID
	bookings *memory.BookingRepository
	payments *memory.PaymentRepository
	units    *memory.Factory
	events   *memory.OutboxSink
	bus      commands.Bus
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	f := &sweepFixture{
		now:      time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC),
		bookings: memory.NewBookingRepository(),
		payments: memory.NewPaymentRepository(),
		events:   memory.NewOutboxSink(nil),
	}
	rooms := memory.NewRoomRepository()
	r, err := room.New(room.CreateParams{Name: "Garden Cottage", BasePrice: money.MustParse("100", "INR")})
	require.NoError(t, err)
	require.NoError(t, rooms.Create(context.Background(), r))
	f.roomID = r.ID
	f.units = memory.NewFactory(rooms, f.bookings, memory.NewPricingRuleRepository(), f.payments)
	f.bus, _ = wiring.Buses(wiring.Deps{
		Units:    f.units,
		Outbox:   outbox.NewBuffered(f.events),
		Currency: "INR",
		Logger:   quiet,
		Now:      func() time.Time { return f.now },
	})
	return f
}

func (f *sweepFixture) seed(t *testing.T, createdAt time.Time) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(booking.CreateParams{
		RoomID:      f.roomID,
		GuestName:   "Guest",
		GuestEmail:  "guest@example.com",
		Stay:        daterange.Must(time.Date(2030, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2030, 4, 3, 0, 0, 0, 0, time.UTC)),
		Adults:      1,
		TotalAmount: money.MustParse("200", "INR"),
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func (f *sweepFixture) sweeper(bus commands.Bus) *ExpirySweeper {
	return &ExpirySweeper{
		Units:         f.units,
		Commands:      bus,
		PaymentWindow: time.Hour,
		Logger:        quiet,
		Now:           func() time.Time { return f.now },
	}
}

func (f *sweepFixture) status(t *testing.T, id booking.ID) booking.Status {
	t.Helper()
	b, err := f.bookings.ByID(context.Background(), id)
	require.NoError(t, err)
	return b.Status
}

func TestExpirySweeperCancelsUnpaidBookings(t *testing.T) {
	ctx := context.Background()
	f := newSweepFixture(t)
	stale := f.seed(t, f.now.Add(-3*time.Hour))
	paid := f.seed(t, f.now.Add(-3*time.Hour))
	fresh := f.seed(t, f.now.Add(-10*time.Minute))

	p, err := payment.New(payment.CreateParams{BookingID: paid.ID, Amount: money.MustParse("200", "INR"), Method: "card", Status: payment.StatusPaid})
	require.NoError(t, err)
	require.NoError(t, f.payments.Create(ctx, p))

	sweeper := f.sweeper(f.bus)
	require.NoError(t, sweeper.RunOnce(ctx))

	assert.Equal(t, booking.StatusCancelled, f.status(t, stale.ID))
	assert.Equal(t, booking.StatusConfirmed, f.status(t, paid.ID))
	assert.Equal(t, booking.StatusConfirmed, f.status(t, fresh.ID))

	recs := f.events.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, booking.EventCancelled, recs[0].Name)
	assert.Contains(t, string(recs[0].Payload), ExpiryReason)

	// A second pass finds nothing left to cancel.
	require.NoError(t, sweeper.RunOnce(ctx))
	assert.Len(t, f.events.Records(), 1)
}

// payingBus settles the booking's payment right before the expiry command
// reaches the handlers.
type payingBus struct {
	next    commands.Bus
	payment *payment.Payment
	repo    *memory.PaymentRepository
	now     time.Time
}

func (b *payingBus) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	if _, ok := cmd.(bookinghandlers.ExpireBookingCommand); ok {
		paid := payment.StatusPaid
		if err := b.payment.Apply(payment.Patch{Status: &paid}, b.now); err != nil {
			return nil, err
		}
		if err := b.repo.Save(ctx, b.payment); err != nil {
			return nil, err
		}
	}
	return b.next.Dispatch(ctx, cmd)
}

func TestExpirySweeperKeepsBookingPaidAfterSelection(t *testing.T) {
	ctx := context.Background()
	f := newSweepFixture(t)
	b := f.seed(t, f.now.Add(-3*time.Hour))
	p, err := payment.New(payment.CreateParams{BookingID: b.ID, Amount: money.MustParse("200", "INR"), Method: "card"})
	require.NoError(t, err)
	require.NoError(t, f.payments.Create(ctx, p))

	sweeper := f.sweeper(&payingBus{next: f.bus, payment: p, repo: f.payments, now: f.now})
	require.NoError(t, sweeper.RunOnce(ctx))

	assert.Equal(t, booking.StatusConfirmed, f.status(t, b.ID))
	assert.Empty(t, f.events.Records())
}

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) RunOnce(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestEveryDisabledForNonPositiveInterval(t *testing.T) {
	job := &countingJob{}
	assert.NoError(t, Every(context.Background(), 0, job, quiet))
	assert.Zero(t, job.runs.Load())
}

func TestEveryRunsUntilCancelled(t *testing.T) {
	job := &countingJob{err: errors.New("transient")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Every(ctx, 5*time.Millisecond, job, quiet) }()

	require.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Every did not stop")
	}
}
