package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventWorkOrderStatusChanged, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	event := Event{ID: "e1", Type: EventWorkOrderStatusChanged, WorkOrderID: "wo-1"}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].ID)
	assert.Equal(t, "wo-1", received[0].WorkOrderID)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventHubMessagePosted, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventWorkOrderCreated}))
	assert.Zero(t, calls)
}

func TestDispatcherHandlerErrorsDoNotAbortDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	secondCalled := false
	dispatcher.Subscribe(EventFileVisibilityChanged, func(context.Context, Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventFileVisibilityChanged, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventFileVisibilityChanged}))
	assert.True(t, secondCalled)
}

func TestDispatcherMultipleHandlersSameType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	handler := func(context.Context, Event) error {
		calls++
		return nil
	}
	dispatcher.Subscribe(EventContactGrantAdded, handler)
	dispatcher.Subscribe(EventContactGrantAdded, handler)

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventContactGrantAdded}))
	assert.Equal(t, 2, calls)
}
