package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatchTypedResult(t *testing.T) {
	bus := NewInMemoryBus()
	handler := HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "pong:" + cmd.Value, nil
	})
	require.NoError(t, RegisterHandler(bus, pingCommand{}.Key(), handler))

	got, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", got)

	_, err = Dispatch[pingCommand, int](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrResultType)
}

func TestDispatchErrors(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[otherCommand, string](context.Background(), nil, otherCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	bus := NewInMemoryBus()
	handler := HandlerFunc[pingCommand, string](func(context.Context, pingCommand) (string, error) { return "", nil })
	require.NoError(t, RegisterHandler(bus, "test.ping", handler))
	assert.ErrorIs(t, RegisterHandler(bus, "test.ping", handler), ErrDuplicateKey)
	assert.ErrorIs(t, RegisterHandler(bus, "", handler), ErrInvalidCommand)
	assert.Equal(t, []string{"test.ping"}, bus.Keys())
}

func TestRegisteredHandlerRejectsWrongCommandType(t *testing.T) {
	bus := NewInMemoryBus()
	handler := HandlerFunc[pingCommand, string](func(context.Context, pingCommand) (string, error) { return "", nil })
	require.NoError(t, RegisterHandler(bus, otherCommand{}.Key(), handler))
	_, err := bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrInvalidCommand)
}
