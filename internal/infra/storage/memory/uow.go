package memory

import (
	"context"
	"errors"
	"sync"

	"resort/internal/app/uow"
	domainbooking "resort/internal/domain/booking"
	domainpayment "resort/internal/domain/payment"
	domainpricing "resort/internal/domain/pricing"
	domainroom "resort/internal/domain/room"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary. Room
// locks are real mutexes held until Commit or Rollback. Rollback does not
// undo writes already made through the repositories.
type Factory struct {
	RoomsRepo    *RoomRepository
	BookingsRepo *BookingRepository
	RulesRepo    *PricingRuleRepository
	PaymentsRepo *PaymentRepository

	mu    sync.Mutex
	locks map[domainroom.ID]*sync.Mutex
}

func NewFactory(rooms *RoomRepository, bookings *BookingRepository, rules *PricingRuleRepository, payments *PaymentRepository) *Factory {
	return &Factory{RoomsRepo: rooms, BookingsRepo: bookings, RulesRepo: rules, PaymentsRepo: payments}
}

var _ uow.UoWFactory = (*Factory)(nil)

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RoomsRepo == nil || f.BookingsRepo == nil || f.RulesRepo == nil || f.PaymentsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f, readOnly: opts.ReadOnly}, nil
}

func (f *Factory) roomLock(id domainroom.ID) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks == nil {
		f.locks = make(map[domainroom.ID]*sync.Mutex)
	}
	l, ok := f.locks[id]
	if !ok {
		l = &sync.Mutex{}
		f.locks[id] = l
	}
	return l
}

// Unit is a uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	factory  *Factory
	readOnly bool

	mu   sync.Mutex
	held map[domainroom.ID]*sync.Mutex
	done bool
}

func (u *Unit) Rooms() domainroom.Repository {
	return lockingRooms{RoomRepository: u.factory.RoomsRepo, unit: u}
}

func (u *Unit) Bookings() domainbooking.Repository { return u.factory.BookingsRepo }

func (u *Unit) PricingRules() domainpricing.RuleRepository { return u.factory.RulesRepo }

func (u *Unit) Payments() domainpayment.Repository { return u.factory.PaymentsRepo }

func (u *Unit) Commit(ctx context.Context) error {
	u.release()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.release()
	return nil
}

func (u *Unit) acquire(ctx context.Context, id domainroom.ID) error {
	u.mu.Lock()
	if u.done {
		u.mu.Unlock()
		return errors.New("memory: unit of work already finished")
	}
	if _, ok := u.held[id]; ok {
		u.mu.Unlock()
		return nil
	}
	u.mu.Unlock()
	l := u.factory.roomLock(id)
	acquired := make(chan struct{})
	go func() {
		l.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
	case <-ctx.Done():
		go func() {
			<-acquired
			l.Unlock()
		}()
		return ctx.Err()
	}
	u.mu.Lock()
	if u.held == nil {
		u.held = make(map[domainroom.ID]*sync.Mutex)
	}
	u.held[id] = l
	u.mu.Unlock()
	return nil
}

func (u *Unit) release() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	u.done = true
	for _, l := range u.held {
		l.Unlock()
	}
	u.held = nil
}

type lockingRooms struct {
	*RoomRepository
	unit *Unit
}

// Lock serialises writers of the same room until the unit finishes.
func (r lockingRooms) Lock(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	if err := r.unit.acquire(ctx, id); err != nil {
		return nil, err
	}
	return r.RoomRepository.ByID(ctx, id)
}
