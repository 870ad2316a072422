package uow

import (
	"context"

	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
)

// UnitOfWork groups the repositories touched by booking and payment writes
// behind one transaction.
type UnitOfWork interface {
	Rooms() room.Repository
	Bookings() booking.Repository
	PricingRules() pricing.RuleRepository
	Payments() payment.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
