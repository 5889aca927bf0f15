package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	events []*Event
	err    error
}

func (h *captureHandler) HandleEvent(_ context.Context, event *Event) error {
	h.events = append(h.events, event)
	return h.err
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeWelcomeEmail, map[string]string{"email": "a@example.com", "name": "A"})
	require.NoError(t, err)

	assert.NotEqual(t, event.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, TypeWelcomeEmail, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var payload map[string]string
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "a@example.com", payload["email"])
	assert.Equal(t, "A", payload["name"])
}

func TestNewEventUnserializablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewEvent(TypeWelcomeEmail, make(chan int))
	assert.Error(t, err)
}

func TestEmitEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delivers to all handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)
		first := &captureHandler{}
		second := &captureHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := NewEvent(TypeWelcomeEmail, map[string]string{"email": "a@example.com"})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(ctx, event))
		assert.Len(t, first.events, 1)
		assert.Len(t, second.events, 1)
		assert.Equal(t, event.ID, first.events[0].ID)
	})

	t.Run("handler failure does not stop delivery", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)
		sentinel := errors.New("handler exploded")
		failing := &captureHandler{err: sentinel}
		healthy := &captureHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		event, err := NewEvent(TypeCancellationEmail, map[string]string{"email": "a@example.com"})
		require.NoError(t, err)

		assert.ErrorIs(t, emitter.EmitEvent(ctx, event), sentinel)
		assert.Len(t, healthy.events, 1, "healthy handler should still receive the event")
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(nil)

		event, err := NewEvent(TypeWelcomeEmail, nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(ctx, event))
	})
}
