package queries

import (
	"context"
	"fmt"
)

type route func(ctx context.Context, q Query) (any, error)

// InMemoryBus answers queries from handlers bound during wiring. The route
// table is written before the first Ask and only read afterwards.
type InMemoryBus struct {
	routes map[string]route
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: map[string]route{}}
}

func (b *InMemoryBus) Ask(ctx context.Context, query Query) (any, error) {
	r, ok := b.routes[query.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, query.Key())
	}
	return r(ctx, query)
}

// RegisterHandler binds handler to the key of Q. An empty or repeated key is
// a wiring mistake and panics.
func RegisterHandler[Q Query, R any](bus *InMemoryBus, handler Handler[Q, R]) {
	var zero Q
	key := zero.Key()
	switch {
	case bus == nil:
		panic("queries: nil bus")
	case key == "":
		panic(fmt.Sprintf("queries: %T has an empty key", zero))
	}
	if _, taken := bus.routes[key]; taken {
		panic("queries: " + key + " registered twice")
	}
	bus.routes[key] = func(ctx context.Context, q Query) (any, error) {
		typed, ok := q.(Q)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrInvalidQuery, key, q)
		}
		return handler.Handle(ctx, typed)
	}
}
