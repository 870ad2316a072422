package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"resort/internal/app/uow"
	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
)

var ErrUnitOfWorkNotConfigured = errors.New("postgres: unit of work factory missing database")

// Factory opens one database transaction per unit of work.
type Factory struct {
	DB       *gorm.DB
	Currency string
}

var _ uow.UoWFactory = Factory{}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	tx := f.DB.WithContext(ctx).Begin(&sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  opts.ReadOnly,
	})
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &Unit{tx: tx, currency: f.Currency}, nil
}

type Unit struct {
	tx       *gorm.DB
	currency string
}

func (u *Unit) Rooms() room.Repository { return NewRoomRepository(u.tx, u.currency) }

func (u *Unit) Bookings() booking.Repository { return NewBookingRepository(u.tx, u.currency) }

func (u *Unit) PricingRules() pricing.RuleRepository {
	return NewPricingRuleRepository(u.tx, u.currency)
}

func (u *Unit) Payments() payment.Repository { return NewPaymentRepository(u.tx, u.currency) }

// Commit translates constraint violations raised at commit time, such as
// a deferred overlap check.
func (u *Unit) Commit(ctx context.Context) error {
	return translate(u.tx.Commit().Error, nil, nil)
}

// Rollback after a commit is a no-op.
func (u *Unit) Rollback(ctx context.Context) error {
	err := u.tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
