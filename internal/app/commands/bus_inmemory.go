package commands

import (
	"context"
	"fmt"
)

type route func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus runs commands on handlers bound during wiring. The route table
// is written before the first Dispatch and only read afterwards.
type InMemoryBus struct {
	routes map[string]route
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: map[string]route{}}
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	r, ok := b.routes[cmd.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return r(ctx, cmd)
}

// RegisterHandler binds handler to the key of C. An empty or repeated key is
// a wiring mistake and panics.
func RegisterHandler[C Command, R any](bus *InMemoryBus, handler Handler[C, R]) {
	var zero C
	key := zero.Key()
	switch {
	case bus == nil:
		panic("commands: nil bus")
	case key == "":
		panic(fmt.Sprintf("commands: %T has an empty key", zero))
	}
	if _, taken := bus.routes[key]; taken {
		panic("commands: " + key + " registered twice")
	}
	bus.routes[key] = func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := raw.(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrInvalidCommand, key, raw)
		}
		return handler.Handle(ctx, cmd)
	}
}
