package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

func receive(t *testing.T, ch <-chan store.Snapshot) store.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestAppendGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	defer s.Close()

	id, err := s.Append(ctx, "/rentals/customers/", map[string]interface{}{"name": "Ravi", "phone": "123"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := s.Get(ctx, "rentals/customers")
	require.NoError(t, err)
	require.Contains(t, snap, id)

	require.NoError(t, s.Update(ctx, "rentals/customers", id, map[string]interface{}{"phone": "456"}))

	snap, err = s.Get(ctx, "rentals/customers")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(snap[id], &got))
	assert.Equal(t, "Ravi", got["name"])
	assert.Equal(t, "456", got["phone"])

	require.NoError(t, s.Delete(ctx, "rentals/customers", id))
	snap, err = s.Get(ctx, "rentals/customers")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	err := s.Update(ctx, "rentals/stock", "nope", map[string]interface{}{"count": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Delete(ctx, "rentals/stock", "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendIdsSortByCreation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	first, err := s.Append(ctx, "rentals/stock", map[string]int{"count": 1})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := s.Append(ctx, "rentals/stock", map[string]int{"count": 2})
	require.NoError(t, err)

	assert.Less(t, first, second)
}

func TestSubscribeDeliversInitialAndChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore(nil)

	sub, err := s.Subscribe(ctx, "rentals/stock")
	require.NoError(t, err)

	assert.Empty(t, receive(t, sub))

	id, err := s.Append(ctx, "rentals/stock", map[string]int{"count": 3})
	require.NoError(t, err)

	snap := receive(t, sub)
	assert.Contains(t, snap, id)
}

func TestSubscribeSlowConsumerSeesLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore(nil)

	sub, err := s.Subscribe(ctx, "rentals/stock")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.Append(ctx, "rentals/stock", map[string]int{"count": i})
		require.NoError(t, err)
	}

	// Drain until the full snapshot shows up; intermediate ones may be skipped.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-sub:
			if len(snap) == 5 {
				return
			}
		case <-deadline:
			t.Fatal("latest snapshot never delivered")
		}
	}
}

func TestSubscribeClosesOnCancelAndClose(t *testing.T) {
	s := NewStore(nil)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := s.Subscribe(ctx, "rentals/stock")
	require.NoError(t, err)
	receive(t, sub)
	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after cancel")
	}

	sub, err = s.Subscribe(context.Background(), "rentals/stock")
	require.NoError(t, err)
	receive(t, sub)
	require.NoError(t, s.Close())

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after store close")
	}

	_, err = s.Subscribe(context.Background(), "rentals/stock")
	assert.Error(t, err)
}
