package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInstrumentCountsSuccessfulPublishes(t *testing.T) {
	published := map[string]int{}
	bus := Instrument(NewMemoryBus(), func(group string) { published[group]++ })

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, GroupWorkflow, Message{Type: TypeWorkflow}))
	require.NoError(t, bus.Publish(ctx, GroupWorkflow, Message{Type: TypeWorkflow}))
	require.NoError(t, bus.Publish(ctx, GroupActivity, Message{Type: TypeActivity}))

	require.Equal(t, 2, published[GroupWorkflow])
	require.Equal(t, 1, published[GroupActivity])
}

func TestInstrumentPassesSubscriptionsThrough(t *testing.T) {
	bus := Instrument(NewMemoryBus(), func(string) {})

	sub, err := bus.Subscribe(context.Background(), GroupActivity)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, bus.Publish(context.Background(), GroupActivity, Message{Type: TypeActivity}))
	select {
	case got := <-sub.C:
		require.Equal(t, TypeActivity, got.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive message")
	}
}

func TestInstrumentNilCallbackReturnsBusUnchanged(t *testing.T) {
	inner := NewMemoryBus()
	require.Equal(t, Bus(inner), Instrument(inner, nil))
}
