package playbacksync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

type Reader struct {
	store   Store
	origin  string
	timeKey string
	metaKey string
}

func NewReader(store Store, origin string, season, episode int) *Reader {
	return &Reader{
		store:   store,
		origin:  origin,
		timeKey: TimeKey(season, episode),
		metaKey: MetaKey(season, episode),
	}
}

// ParseTime accepts only finite decimal values.
func ParseTime(value string) (float64, bool) {
	t, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}

	return t, true
}

// Current is the one-shot read of the last published time. The bool is false
// when nothing usable has been written yet.
func (r *Reader) Current(ctx context.Context) (float64, bool, error) {
	value, err := r.store.Get(ctx, r.timeKey)
	if err != nil {
		if errors.Is(err, playback.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	t, ok := ParseTime(value)
	return t, ok, nil
}

func (r *Reader) Meta(ctx context.Context) (*Meta, error) {
	value, err := r.store.Get(ctx, r.metaKey)
	if err != nil {
		if errors.Is(err, playback.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var meta Meta
	if err := json.Unmarshal([]byte(value), &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.metaKey, err)
	}

	return &meta, nil
}

// Watcher is an open subscription to one episode's time key.
type Watcher struct {
	sub     playback.Subscription
	timeKey string
}

// Open subscribes before returning, so every write that lands after Open
// returns reaches Run.
func (r *Reader) Open(ctx context.Context) (*Watcher, error) {
	sub, err := r.store.Subscribe(ctx, r.origin)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	return &Watcher{sub: sub, timeKey: r.timeKey}, nil
}

// Run calls fn with every valid time another surface publishes, until ctx
// is done or the subscription ends. The subscription is closed on return.
func (w *Watcher) Run(ctx context.Context, fn func(t float64)) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-w.sub.Changes():
			if !ok {
				return playback.ErrSubscriptionClosed
			}
			if change.Key != w.timeKey {
				continue
			}
			t, ok := ParseTime(change.Value)
			if !ok {
				continue
			}
			fn(t)
		}
	}
}

func (w *Watcher) Close() error {
	return w.sub.Close()
}

// Watch opens a subscription and runs it.
func (r *Reader) Watch(ctx context.Context, fn func(t float64)) error {
	w, err := r.Open(ctx)
	if err != nil {
		return err
	}

	return w.Run(ctx, fn)
}
