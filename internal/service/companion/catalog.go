package companion

import (
	"context"
	"fmt"

	"github.com/louismahl/got-companion/internal/catalog"
	"github.com/louismahl/got-companion/internal/playbacksync"
	"github.com/louismahl/got-companion/internal/repository/connection"
	"github.com/louismahl/got-companion/internal/scene"
	"github.com/louismahl/got-companion/internal/storage"
)

type ReloadCatalogResponse struct {
	Stats catalog.Stats
}

// ReloadCatalog fetches all documents from scratch and swaps the snapshot in
// one step. On failure the previous snapshot stays in place.
func (s *service) ReloadCatalog(ctx context.Context) (ReloadCatalogResponse, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return ReloadCatalogResponse{}, err
	}

	s.snapshot.Store(snap)

	return ReloadCatalogResponse{Stats: snap.Stats()}, nil
}

type Episode struct {
	Season   int             `json:"season"`
	Episode  int             `json:"episode"`
	Title    string          `json:"title,omitempty"`
	VideoURL string          `json:"video_url"`
	Scenes   []catalog.Scene `json:"scenes"`
}

func newEpisode(ep *catalog.Episode) *Episode {
	scenes := ep.Scenes
	if scenes == nil {
		scenes = []catalog.Scene{}
	}

	return &Episode{
		Season:   ep.SeasonNum,
		Episode:  ep.EpisodeNum,
		Title:    ep.EpisodeTitle,
		VideoURL: "/videos/" + storage.VideoName(ep.SeasonNum, ep.EpisodeNum),
		Scenes:   scenes,
	}
}

type GetEpisodeParams struct {
	Season  int
	Episode int
}

func (s *service) GetEpisode(_ context.Context, params *GetEpisodeParams) (*Episode, error) {
	snap, err := s.getSnapshot()
	if err != nil {
		return nil, err
	}

	ep, ok := snap.FindEpisode(params.Season, params.Episode)
	if !ok {
		return nil, ErrEpisodeNotFound
	}

	return newEpisode(ep), nil
}

type ResolveSceneParams struct {
	Season  int
	Episode int
	Time    float64
}

func (s *service) ResolveScene(_ context.Context, params *ResolveSceneParams) (scene.State, error) {
	snap, err := s.getSnapshot()
	if err != nil {
		return scene.State{}, err
	}

	if _, ok := snap.FindEpisode(params.Season, params.Episode); !ok {
		return scene.State{}, ErrEpisodeNotFound
	}

	return scene.View(snap, params.Season, params.Episode, params.Time), nil
}

type GetSyncStateParams struct {
	Season  int
	Episode int
}

type GetSyncStateResponse struct {
	TimeKey     string             `json:"time_key"`
	CurrentTime *float64           `json:"current_time"`
	Meta        *playbacksync.Meta `json:"meta"`
	Counts      connection.Counts  `json:"surfaces"`
}

func (s *service) GetSyncState(ctx context.Context, params *GetSyncStateParams) (GetSyncStateResponse, error) {
	reader := playbacksync.NewReader(s.store, "", params.Season, params.Episode)

	resp := GetSyncStateResponse{
		TimeKey: playbacksync.TimeKey(params.Season, params.Episode),
		Counts:  s.connRepo.Count(params.Season, params.Episode),
	}

	t, ok, err := reader.Current(ctx)
	if err != nil {
		return GetSyncStateResponse{}, fmt.Errorf("failed to read current time: %w", err)
	}
	if ok {
		resp.CurrentTime = &t
	}

	meta, err := reader.Meta(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "ignoring unreadable meta record", "error", err)
	}
	resp.Meta = meta

	return resp, nil
}
