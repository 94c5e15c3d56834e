package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, slog.Default()), s
}

func TestSetGet(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "got-current-time-s1e3")
	assert.ErrorIs(t, err, playback.ErrRecordNotFound)

	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "got-current-time-s1e3", Value: "125.4", Origin: "p1"}))

	value, err := r.Get(ctx, "got-current-time-s1e3")
	require.NoError(t, err)
	assert.Equal(t, "125.4", value)

	s.CheckGet(t, "got-current-time-s1e3", "125.4")
	assert.Zero(t, s.TTL("got-current-time-s1e3"))
}

func TestSubscribeNotifiesOthersNotSelf(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	self, err := r.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer self.Close()
	other, err := r.Subscribe(ctx, "d1")
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "got-current-time-s1e3", Value: "10", Origin: "p1"}))
	require.NoError(t, r.Set(ctx, &playback.SetParams{Key: "got-current-time-s1e3", Value: "11", Origin: "d1"}))

	select {
	case change := <-other.Changes():
		assert.Equal(t, playback.Change{Key: "got-current-time-s1e3", Value: "10", Origin: "p1"}, change)
	case <-time.After(time.Second):
		t.Fatal("display subscription not notified")
	}

	select {
	case change := <-self.Changes():
		assert.Equal(t, "11", change.Value, "writer must only see changes from other origins")
	case <-time.After(time.Second):
		t.Fatal("player subscription not notified of the other origin")
	}
}

func TestSetFailure(t *testing.T) {
	r, s := newTestRepo(t)
	s.SetError("OOM command not allowed when used memory > 'maxmemory'")

	err := r.Set(context.Background(), &playback.SetParams{Key: "k", Value: "v", Origin: "p1"})
	assert.Error(t, err)
}

func TestCloseEndsChanges(t *testing.T) {
	r, _ := newTestRepo(t)

	sub, err := r.Subscribe(context.Background(), "d1")
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	select {
	case _, open := <-sub.Changes():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("changes channel not closed")
	}
}
