package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/app/commands"
	"resort/internal/app/outbox"
	"resort/internal/app/principal"
	"resort/internal/app/uow"
	"resort/internal/domain/booking"
	"resort/internal/domain/guest"
	"resort/internal/domain/payment"
	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
)

type echoCommand struct {
	Name       string `json:"name" validate:"required"`
	Restricted bool   `json:"-"`
	Idem       string `json:"-"`
}

func (c echoCommand) Key() string            { return "test.echo" }
func (c echoCommand) AdminOnly() bool        { return c.Restricted }
func (c echoCommand) IdempotencyKey() string { return c.Idem }
func (c echoCommand) ResultPrototype() any   { return new(string) }

type stubUnit struct {
	f *stubFactory
}

func (u stubUnit) Rooms() room.Repository               { return nil }
func (u stubUnit) Bookings() booking.Repository         { return nil }
func (u stubUnit) PricingRules() pricing.RuleRepository { return nil }
func (u stubUnit) Payments() payment.Repository         { return nil }

func (u stubUnit) Commit(context.Context) error {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.commits++
	return u.f.commitErr
}

func (u stubUnit) Rollback(context.Context) error {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.rollbacks++
	return nil
}

type stubFactory struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
	commitErr error
}

func (f *stubFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	return stubUnit{f: f}, nil
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]IdempotencyRecord
}

func (s *memoryStore) Get(_ context.Context, key string) (IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *memoryStore) Save(_ context.Context, rec IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = map[string]IdempotencyRecord{}
	}
	s.items[rec.Key] = rec
	return nil
}

// pipeline builds the production middleware order around handle.
func pipeline(t *testing.T, f *stubFactory, store IdempotencyStore, sink outbox.Sink, handle func(ctx context.Context, cmd echoCommand) (*string, error)) commands.Bus {
	t.Helper()
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[echoCommand, *string](bus, commands.HandlerFunc[echoCommand, *string](handle))
	box := outbox.NewBuffered(sink)
	return ChainCommands(bus,
		Validation(NewStructValidator()),
		Authorization(AdminPolicy{}),
		Idempotency(store, nil),
		OutboxFlush(box, nil),
		Transaction(f, nil, nil),
	)
}

func TestValidationRejectsBeforeHandler(t *testing.T) {
	f := &stubFactory{}
	called := false
	bus := pipeline(t, f, &memoryStore{}, outbox.SinkFunc(func(context.Context, []outbox.EventRecord) error { return nil }),
		func(ctx context.Context, cmd echoCommand) (*string, error) {
			called = true
			return &cmd.Name, nil
		})

	_, err := commands.Dispatch[echoCommand, *string](context.Background(), bus, echoCommand{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name failed required")
	assert.False(t, called)
	assert.Zero(t, f.commits+f.rollbacks)
}

func TestAuthorizationForAdminOnlyCommands(t *testing.T) {
	f := &stubFactory{}
	bus := pipeline(t, f, &memoryStore{}, outbox.SinkFunc(func(context.Context, []outbox.EventRecord) error { return nil }),
		func(ctx context.Context, cmd echoCommand) (*string, error) { return &cmd.Name, nil })
	cmd := echoCommand{Name: "x", Restricted: true}

	_, err := commands.Dispatch[echoCommand, *string](context.Background(), bus, cmd)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	guestCtx := principal.WithPrincipal(context.Background(), principal.Principal{Roles: []guest.Role{guest.RoleGuest}})
	_, err = commands.Dispatch[echoCommand, *string](guestCtx, bus, cmd)
	assert.ErrorIs(t, err, ErrForbidden)

	adminCtx := principal.WithPrincipal(context.Background(), principal.Principal{Roles: []guest.Role{guest.RoleAdmin}})
	out, err := commands.Dispatch[echoCommand, *string](adminCtx, bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, "x", *out)

	sysCtx := principal.WithPrincipal(context.Background(), principal.System())
	_, err = commands.Dispatch[echoCommand, *string](sysCtx, bus, cmd)
	assert.NoError(t, err)
}

func TestTransactionCommitsAndRollsBack(t *testing.T) {
	f := &stubFactory{}
	boom := errors.New("boom")
	var sawUnit bool
	bus := pipeline(t, f, &memoryStore{}, outbox.SinkFunc(func(context.Context, []outbox.EventRecord) error { return nil }),
		func(ctx context.Context, cmd echoCommand) (*string, error) {
			_, err := uow.Current(ctx)
			sawUnit = err == nil
			if cmd.Name == "fail" {
				return nil, boom
			}
			return &cmd.Name, nil
		})

	_, err := commands.Dispatch[echoCommand, *string](context.Background(), bus, echoCommand{Name: "ok"})
	require.NoError(t, err)
	assert.True(t, sawUnit)
	assert.Equal(t, 1, f.commits)
	assert.Equal(t, 0, f.rollbacks)

	_, err = commands.Dispatch[echoCommand, *string](context.Background(), bus, echoCommand{Name: "fail"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.commits)
	assert.Equal(t, 1, f.rollbacks)
}

func TestOutboxFlushesOnlyCommittedEvents(t *testing.T) {
	f := &stubFactory{}
	var flushed []outbox.EventRecord
	sink := outbox.SinkFunc(func(_ context.Context, recs []outbox.EventRecord) error {
		flushed = append(flushed, recs...)
		return nil
	})
	box := outbox.NewBuffered(sink)
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[echoCommand, *string](bus, commands.HandlerFunc[echoCommand, *string](func(ctx context.Context, cmd echoCommand) (*string, error) {
		require.NoError(t, box.Add(ctx, outbox.EventRecord{ID: cmd.Name, Name: "test.echoed"}))
		return &cmd.Name, nil
	}))
	chained := ChainCommands(bus, OutboxFlush(box, nil), Transaction(f, nil, nil))

	_, err := commands.Dispatch[echoCommand, *string](context.Background(), chained, echoCommand{Name: "a"})
	require.NoError(t, err)
	require.Len(t, flushed, 1)
	assert.Equal(t, "a", flushed[0].ID)

	f.commitErr = errors.New("serialization failure")
	_, err = commands.Dispatch[echoCommand, *string](context.Background(), chained, echoCommand{Name: "b"})
	require.Error(t, err)
	assert.Len(t, flushed, 1, "events of a failed commit are discarded")
}

func TestIdempotencyReplaysSuccessOnly(t *testing.T) {
	f := &stubFactory{}
	calls := 0
	fail := true
	bus := pipeline(t, f, &memoryStore{}, outbox.SinkFunc(func(context.Context, []outbox.EventRecord) error { return nil }),
		func(ctx context.Context, cmd echoCommand) (*string, error) {
			calls++
			if fail {
				return nil, errors.New("temporary")
			}
			out := cmd.Name + "-result"
			return &out, nil
		})
	cmd := echoCommand{Name: "book", Idem: "k1"}

	_, err := commands.Dispatch[echoCommand, *string](context.Background(), bus, cmd)
	require.Error(t, err)

	fail = false
	first, err := commands.Dispatch[echoCommand, *string](context.Background(), bus, cmd)
	require.NoError(t, err)
	second, err := commands.Dispatch[echoCommand, *string](context.Background(), bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, "book-result", *first)
	assert.Equal(t, *first, *second)
	assert.Equal(t, 2, calls)

	_, err = commands.Dispatch[echoCommand, *string](context.Background(), bus, echoCommand{Name: "other", Idem: "k1"})
	assert.ErrorIs(t, err, ErrIdempotencyKeyReused)
}
