package middleware

import (
	"context"
	"log/slog"

	"resort/internal/app/commands"
	"resort/internal/app/uow"
)

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction opens a unit of work per command, commits it when the handler
// succeeds and rolls it back otherwise.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider, logger *slog.Logger) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			execCtx := uow.ContextWithUnitOfWork(ctx, unit)
			committed := false
			defer func() {
				if committed {
					return
				}
				if rbErr := unit.Rollback(execCtx); rbErr != nil {
					logger.Warn("unit of work rollback failed", "command", cmd.Key(), "error", rbErr)
				}
			}()

			res, err := next.Dispatch(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
