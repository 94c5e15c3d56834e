package playbacksync

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

type State string

const (
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// Meta is written next to the time record. Displays do not use it to resolve
// scenes.
type Meta struct {
	State       State `json:"state"`
	LastUpdated int64 `json:"lastUpdated"`
}

type Writer struct {
	store    Store
	origin   string
	timeKey  string
	metaKey  string
	throttle *Throttle
	clock    func() time.Time
	logger   *slog.Logger
}

func NewWriter(store Store, origin string, season, episode int, throttle *Throttle, logger *slog.Logger) *Writer {
	return &Writer{
		store:    store,
		origin:   origin,
		timeKey:  TimeKey(season, episode),
		metaKey:  MetaKey(season, episode),
		throttle: throttle,
		clock:    time.Now,
		logger:   logger,
	}
}

// Write publishes the playback position if the throttle lets it through and
// reports whether it did. Store failures are logged and dropped so they never
// interrupt playback.
func (w *Writer) Write(ctx context.Context, currentTime float64, paused bool) bool {
	if !w.throttle.Allow() {
		return false
	}

	if err := w.store.Set(ctx, &playback.SetParams{
		Key:    w.timeKey,
		Value:  strconv.FormatFloat(currentTime, 'f', -1, 64),
		Origin: w.origin,
	}); err != nil {
		w.logger.DebugContext(ctx, "ignoring time write failure", "key", w.timeKey, "error", err)
		return true
	}

	state := StatePlaying
	if paused {
		state = StatePaused
	}
	meta, err := json.Marshal(Meta{State: state, LastUpdated: w.clock().UnixMilli()})
	if err != nil {
		w.logger.DebugContext(ctx, "ignoring meta encode failure", "error", err)
		return true
	}

	if err := w.store.Set(ctx, &playback.SetParams{
		Key:    w.metaKey,
		Value:  string(meta),
		Origin: w.origin,
	}); err != nil {
		w.logger.DebugContext(ctx, "ignoring meta write failure", "key", w.metaKey, "error", err)
	}

	return true
}
