package companion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/playbacksync"
	"github.com/louismahl/got-companion/internal/repository/connection"
	"github.com/louismahl/got-companion/internal/scene"
)

type ConnectDisplayParams struct {
	Conn    *websocket.Conn
	Season  int
	Episode int
}

type ConnectDisplayResponse struct {
	SurfaceID string
	State     scene.State
}

// ConnectDisplay registers a display, subscribes it to playback changes and
// then resolves its first state from the last stored time. Until a player
// has written, the state is waiting.
func (s *service) ConnectDisplay(ctx context.Context, params *ConnectDisplayParams) (ConnectDisplayResponse, error) {
	surfaceID := uuid.NewString()

	if err := s.connRepo.Add(params.Conn, connection.Surface{
		ID:      surfaceID,
		Role:    connection.RoleDisplay,
		Season:  params.Season,
		Episode: params.Episode,
	}); err != nil {
		return ConnectDisplayResponse{}, fmt.Errorf("failed to add conn: %w", err)
	}

	reader := playbacksync.NewReader(s.store, surfaceID, params.Season, params.Episode)
	watcher, err := reader.Open(ctx)
	if err != nil {
		s.connRepo.RemoveBySurfaceID(surfaceID)
		return ConnectDisplayResponse{}, fmt.Errorf("failed to open watcher: %w", err)
	}

	s.mu.Lock()
	s.watchers[surfaceID] = watcher
	s.mu.Unlock()

	snap := s.snapshot.Load()
	state := scene.Idle(snap, params.Season, params.Episode)
	t, ok, err := reader.Current(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read current time", "error", err)
	} else if ok {
		state = scene.View(snap, params.Season, params.Episode, t)
	}

	s.logger.InfoContext(ctx, "display connected", "surface_id", surfaceID, "season", params.Season, "episode", params.Episode)

	return ConnectDisplayResponse{
		SurfaceID: surfaceID,
		State:     state,
	}, nil
}

type WatchDisplayParams struct {
	SurfaceID string
	OnState   func(scene.State)
}

// WatchDisplay blocks until ctx is done, calling OnState with a freshly
// resolved state for every time another surface publishes after the display
// connected.
func (s *service) WatchDisplay(ctx context.Context, params *WatchDisplayParams) error {
	surface, err := s.surface(params.SurfaceID, connection.RoleDisplay)
	if err != nil {
		return err
	}

	s.mu.Lock()
	watcher, ok := s.watchers[surface.ID]
	delete(s.watchers, surface.ID)
	s.mu.Unlock()

	if !ok {
		reader := playbacksync.NewReader(s.store, surface.ID, surface.Season, surface.Episode)
		if watcher, err = reader.Open(ctx); err != nil {
			return err
		}
	}

	return watcher.Run(ctx, func(t float64) {
		params.OnState(scene.View(s.snapshot.Load(), surface.Season, surface.Episode, t))
	})
}
