package companion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/playbacksync"
	"github.com/louismahl/got-companion/internal/repository/connection"
)

type ConnectPlayerParams struct {
	Conn    *websocket.Conn
	Season  int
	Episode int
}

type ConnectPlayerResponse struct {
	SurfaceID string
	Episode   *Episode
	LastTime  *float64
}

// ConnectPlayer registers the time source for an episode. The player does not
// need the catalog, so Episode is nil when it is unavailable or lacks the
// episode.
func (s *service) ConnectPlayer(ctx context.Context, params *ConnectPlayerParams) (ConnectPlayerResponse, error) {
	surfaceID := uuid.NewString()

	if err := s.connRepo.Add(params.Conn, connection.Surface{
		ID:      surfaceID,
		Role:    connection.RolePlayer,
		Season:  params.Season,
		Episode: params.Episode,
	}); err != nil {
		return ConnectPlayerResponse{}, fmt.Errorf("failed to add conn: %w", err)
	}

	writer := playbacksync.NewWriter(s.store, surfaceID, params.Season, params.Episode, playbacksync.NewThrottle(s.throttleInterval), s.logger)
	s.mu.Lock()
	s.writers[surfaceID] = writer
	s.mu.Unlock()

	resp := ConnectPlayerResponse{SurfaceID: surfaceID}

	if snap := s.snapshot.Load(); snap != nil {
		if ep, ok := snap.FindEpisode(params.Season, params.Episode); ok {
			resp.Episode = newEpisode(ep)
		}
	}

	reader := playbacksync.NewReader(s.store, surfaceID, params.Season, params.Episode)
	t, ok, err := reader.Current(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read last time", "error", err)
	} else if ok {
		resp.LastTime = &t
	}

	s.logger.InfoContext(ctx, "player connected", "surface_id", surfaceID, "season", params.Season, "episode", params.Episode)

	return resp, nil
}

type UpdatePlaybackParams struct {
	SurfaceID   string
	CurrentTime float64
	IsPaused    bool
}

type UpdatePlaybackResponse struct {
	Accepted bool
}

func (s *service) UpdatePlayback(ctx context.Context, params *UpdatePlaybackParams) (UpdatePlaybackResponse, error) {
	s.mu.Lock()
	writer, ok := s.writers[params.SurfaceID]
	s.mu.Unlock()
	if !ok {
		return UpdatePlaybackResponse{}, ErrSurfaceNotFound
	}

	return UpdatePlaybackResponse{
		Accepted: writer.Write(ctx, params.CurrentTime, params.IsPaused),
	}, nil
}

// DisconnectSurface forgets a player or display. The returned conn is the one
// the surface was registered with.
func (s *service) DisconnectSurface(ctx context.Context, surfaceID string) (*websocket.Conn, error) {
	s.mu.Lock()
	delete(s.writers, surfaceID)
	if watcher, ok := s.watchers[surfaceID]; ok {
		watcher.Close()
		delete(s.watchers, surfaceID)
	}
	s.mu.Unlock()

	conn, err := s.connRepo.RemoveBySurfaceID(surfaceID)
	if err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			return nil, ErrSurfaceNotFound
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "surface disconnected", "surface_id", surfaceID)

	return conn, nil
}
