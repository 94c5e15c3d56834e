package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/repository/connection"
)

type entry struct {
	surface connection.Surface
	conn    *websocket.Conn
}

type repo struct {
	connList map[*websocket.Conn]string
	idList   map[string]entry
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]entry),
		logger:   logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, surface connection.Surface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("adding connection", "surface_id", surface.ID, "role", surface.Role)
	if _, ok := r.connList[conn]; ok {
		return connection.ErrAlreadyExists
	}
	if _, ok := r.idList[surface.ID]; ok {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = surface.ID
	r.idList[surface.ID] = entry{surface: surface, conn: conn}

	return nil
}

// RemoveBySurfaceID forgets the connection and returns it so the caller can
// close it.
func (r *repo) RemoveBySurfaceID(surfaceID string) (*websocket.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.idList[surfaceID]
	if !ok {
		r.logger.Debug("connection not found", "surface_id", surfaceID)
		return nil, connection.ErrNotFound
	}

	delete(r.connList, e.conn)
	delete(r.idList, surfaceID)

	return e.conn, nil
}

func (r *repo) GetSurface(surfaceID string) (connection.Surface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.idList[surfaceID]
	if !ok {
		return connection.Surface{}, connection.ErrNotFound
	}

	return e.surface, nil
}

func (r *repo) Count(season, episode int) connection.Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var counts connection.Counts
	for _, e := range r.idList {
		if e.surface.Season != season || e.surface.Episode != episode {
			continue
		}
		switch e.surface.Role {
		case connection.RolePlayer:
			counts.Players++
		case connection.RoleDisplay:
			counts.Displays++
		}
	}

	return counts
}

// Conns returns every registered connection, used to close them on shutdown.
func (r *repo) Conns() []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(r.connList))
	for conn := range r.connList {
		conns = append(conns, conn)
	}

	return conns
}
