package middleware

import (
	"context"

	"resort/internal/app/commands"
	"resort/internal/app/queries"
)

type (
	CommandMiddleware func(next commands.Bus) commands.Bus
	QueryMiddleware   func(next queries.Bus) queries.Bus
)

// ChainCommands wraps base so that mws[0] sees a command first.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	return wrap(base, mws)
}

// ChainQueries wraps base so that mws[0] sees a query first.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	return wrap(base, mws)
}

func wrap[B any, M ~func(B) B](bus B, layers []M) B {
	for i := len(layers) - 1; i >= 0; i-- {
		bus = layers[i](bus)
	}
	return bus
}

// CommandFunc lets a plain function act as a command bus.
type CommandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f CommandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

// QueryFunc lets a plain function act as a query bus.
type QueryFunc func(ctx context.Context, q queries.Query) (any, error)

func (f QueryFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}
