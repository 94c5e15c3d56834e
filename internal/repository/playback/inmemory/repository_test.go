package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

func TestSetGet(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	_, err := r.Get(ctx, "got-current-time-s1e1")
	assert.ErrorIs(t, err, playback.ErrRecordNotFound)

	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "got-current-time-s1e1", Value: "1.5", Origin: "a"}))
	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "got-current-time-s1e1", Value: "2.5", Origin: "a"}))

	value, err := r.Get(ctx, "got-current-time-s1e1")
	require.NoError(t, err)
	assert.Equal(t, "2.5", value)
}

func TestSubscribeNotifiesOthersNotSelf(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	self, err := r.Subscribe(ctx, "player")
	require.NoError(t, err)
	defer self.Close()
	other, err := r.Subscribe(ctx, "display")
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "k", Value: "v", Origin: "player"}))

	select {
	case change := <-other.Changes():
		assert.Equal(t, playback.Change{Key: "k", Value: "v", Origin: "player"}, change)
	case <-time.After(time.Second):
		t.Fatal("other subscriber not notified")
	}

	select {
	case change := <-self.Changes():
		t.Fatalf("writer notified of its own change: %+v", change)
	default:
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	sub, err := r.Subscribe(ctx, "display")
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "k", Value: "v", Origin: "player"}))

	_, open := <-sub.Changes()
	assert.False(t, open)
}
