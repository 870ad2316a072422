package support

import (
	"context"
	"time"

	"resort/internal/app/uow"
	"resort/internal/domain/room"
)

// BeginReadOnlyUnit reuses the unit already in ctx or opens a read-only one.
// The returned cleanup is nil when the unit was reused.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := uow.ContextWithUnitOfWork(ctx, unit)
	cleanup := func() {
		_ = unit.Rollback(execCtx)
	}
	return unit, execCtx, cleanup, nil
}

// ActiveRoom loads a room that guests may see. Inactive rooms are reported
// as missing.
func ActiveRoom(ctx context.Context, repo room.Repository, id room.ID) (*room.Room, error) {
	r, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsActive {
		return nil, room.ErrNotFound
	}
	return r, nil
}

// Clock returns now() in UTC, falling back to time.Now.
func Clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
