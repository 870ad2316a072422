package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdRoom struct{ RoomID int64 }

func (holdRoom) Key() string { return "room.hold" }

type clashingCommand struct{}

func (clashingCommand) Key() string { return "room.hold" }

func TestDispatchRoutesByKey(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[holdRoom, int64](bus, HandlerFunc[holdRoom, int64](func(_ context.Context, cmd holdRoom) (int64, error) {
		return cmd.RoomID * 10, nil
	}))

	n, err := Dispatch[holdRoom, int64](context.Background(), bus, holdRoom{RoomID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(70), n)

	_, err = Dispatch[holdRoom, string](context.Background(), bus, holdRoom{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = bus.Dispatch(context.Background(), clashingCommand{})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = Dispatch[holdRoom, int64](context.Background(), nil, holdRoom{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestRegisterHandlerPanicsOnRepeatedKey(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[holdRoom, int64](func(context.Context, holdRoom) (int64, error) { return 0, nil })
	RegisterHandler[holdRoom, int64](bus, h)
	assert.Panics(t, func() { RegisterHandler[holdRoom, int64](bus, h) })

	_, err := NewInMemoryBus().Dispatch(context.Background(), holdRoom{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}
