package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct{ Value string }

func (echoQuery) Key() string { return "test.echo" }

func TestAskTypedResult(t *testing.T) {
	bus := NewInMemoryBus()
	require.NoError(t, RegisterHandler(bus, echoQuery{}.Key(), HandlerFunc[echoQuery, []string](func(ctx context.Context, q echoQuery) ([]string, error) {
		return []string{q.Value}, nil
	})))

	got, err := Ask[echoQuery, []string](context.Background(), bus, echoQuery{Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	_, err = Ask[echoQuery, string](context.Background(), bus, echoQuery{})
	assert.ErrorIs(t, err, ErrResultType)
}

func TestAskPropagatesErrors(t *testing.T) {
	bus := NewInMemoryBus()
	boom := errors.New("boom")
	require.NoError(t, RegisterHandler(bus, "test.echo", HandlerFunc[echoQuery, string](func(context.Context, echoQuery) (string, error) {
		return "", boom
	})))
	_, err := Ask[echoQuery, string](context.Background(), bus, echoQuery{})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, RegisterHandler(bus, "test.echo", HandlerFunc[echoQuery, string](nil)), ErrDuplicateKey)

	_, err = NewInMemoryBus().Ask(context.Background(), echoQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}
