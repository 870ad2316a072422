package middleware

import (
	"context"
	"log/slog"

	"resort/internal/app/commands"
	"resort/internal/app/outbox"
)

// OutboxFlush gives each command its own event buffer and hands the buffer
// to the outbox sink once the command succeeded. It sits outside
// Transaction, so nothing is published for a rolled back write. A failed
// flush is logged, not returned, because the write is already committed.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			ctx = box.Begin(ctx)
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				box.Discard(ctx)
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				logger.Error("outbox flush failed", "command", cmd.Key(), "error", err)
			}
			return res, nil
		})
	}
}
