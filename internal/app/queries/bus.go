package queries

import (
	"context"
	"errors"
	"fmt"
)

// Query is a read-only request; Key selects its handler.
type Query interface {
	Key() string
}

type Handler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type HandlerFunc[Q Query, R any] func(ctx context.Context, query Q) (R, error)

func (f HandlerFunc[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	return f(ctx, query)
}

// Bus answers queries. Middleware wraps it the same way as the command bus.
type Bus interface {
	Ask(ctx context.Context, query Query) (any, error)
}

var (
	ErrHandlerNotFound = errors.New("queries: handler not found")
	ErrInvalidQuery    = errors.New("queries: invalid query for handler")
	ErrResultType      = errors.New("queries: result type mismatch")
	ErrNilBus          = errors.New("queries: nil bus")
)

// Ask sends query through bus and returns the result as R.
func Ask[Q Query, R any](ctx context.Context, bus Bus, query Q) (R, error) {
	var out R
	if bus == nil {
		return out, ErrNilBus
	}
	res, err := bus.Ask(ctx, query)
	if err != nil || res == nil {
		return out, err
	}
	typed, ok := res.(R)
	if !ok {
		return out, fmt.Errorf("%w: %s returned %T", ErrResultType, query.Key(), res)
	}
	return typed, nil
}
