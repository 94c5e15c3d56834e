package companion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/catalog"
	"github.com/louismahl/got-companion/internal/playbacksync"
	"github.com/louismahl/got-companion/internal/repository/connection"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrEpisodeNotFound    = errors.New("episode not found")
	ErrSurfaceNotFound    = errors.New("surface not found")
	ErrWrongSurfaceRole   = errors.New("wrong surface role")
)

type iCatalogLoader interface {
	Load(context.Context) (*catalog.Snapshot, error)
}

type iConnRepo interface {
	Add(*websocket.Conn, connection.Surface) error
	RemoveBySurfaceID(string) (*websocket.Conn, error)
	GetSurface(string) (connection.Surface, error)
	Count(season, episode int) connection.Counts
}

type service struct {
	loader           iCatalogLoader
	store            playbacksync.Store
	connRepo         iConnRepo
	snapshot         atomic.Pointer[catalog.Snapshot]
	writers          map[string]*playbacksync.Writer
	watchers         map[string]*playbacksync.Watcher
	mu               sync.Mutex
	throttleInterval time.Duration
	logger           *slog.Logger
}

func NewService(loader iCatalogLoader, store playbacksync.Store, connRepo iConnRepo, throttleInterval time.Duration, logger *slog.Logger) *service {
	return &service{
		loader:           loader,
		store:            store,
		connRepo:         connRepo,
		writers:          make(map[string]*playbacksync.Writer),
		watchers:         make(map[string]*playbacksync.Watcher),
		throttleInterval: throttleInterval,
		logger:           logger,
	}
}

func (s *service) getSnapshot() (*catalog.Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrCatalogUnavailable
	}

	return snap, nil
}

func (s *service) surface(surfaceID string, role connection.Role) (connection.Surface, error) {
	surface, err := s.connRepo.GetSurface(surfaceID)
	if err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			return connection.Surface{}, ErrSurfaceNotFound
		}
		return connection.Surface{}, err
	}
	if surface.Role != role {
		return connection.Surface{}, ErrWrongSurfaceRole
	}

	return surface, nil
}
