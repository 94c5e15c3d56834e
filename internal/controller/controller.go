package controller

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/scene"
	"github.com/louismahl/got-companion/internal/service/companion"
	"github.com/louismahl/got-companion/internal/storage"
	"github.com/louismahl/got-companion/pkg/validator"
	"github.com/louismahl/got-companion/pkg/wsrouter"
)

type iCompanionService interface {
	ConnectPlayer(context.Context, *companion.ConnectPlayerParams) (companion.ConnectPlayerResponse, error)
	UpdatePlayback(context.Context, *companion.UpdatePlaybackParams) (companion.UpdatePlaybackResponse, error)
	ConnectDisplay(context.Context, *companion.ConnectDisplayParams) (companion.ConnectDisplayResponse, error)
	WatchDisplay(context.Context, *companion.WatchDisplayParams) error
	DisconnectSurface(context.Context, string) (*websocket.Conn, error)
	ResolveScene(context.Context, *companion.ResolveSceneParams) (scene.State, error)
	GetEpisode(context.Context, *companion.GetEpisodeParams) (*companion.Episode, error)
	GetSyncState(context.Context, *companion.GetSyncStateParams) (companion.GetSyncStateResponse, error)
	ReloadCatalog(context.Context) (companion.ReloadCatalogResponse, error)
}

type Params struct {
	CompanionService iCompanionService
	VideoStore       storage.VideoStore
	// DataDir is served under /data when set.
	DataDir        string
	AllowedOrigins []string
	Logger         *slog.Logger
}

type controller struct {
	companionService iCompanionService
	videoStore       storage.VideoStore
	dataDir          string
	allowedOrigins   []string
	upgrader         websocket.Upgrader
	validate         *validator.Validator
	playerMux        *wsrouter.WSRouter
	displayMux       *wsrouter.WSRouter
	writeLocks       sync.Map
	logger           *slog.Logger
}

func NewController(params *Params) *controller {
	c := &controller{
		companionService: params.CompanionService,
		videoStore:       params.VideoStore,
		dataDir:          params.DataDir,
		allowedOrigins:   params.AllowedOrigins,
		validate:         validator.NewValidator(),
		logger:           params.Logger,
	}
	c.upgrader = websocket.Upgrader{CheckOrigin: c.checkOrigin}
	c.playerMux = c.getPlayerWSRouter()
	c.displayMux = c.getDisplayWSRouter()

	return c
}

func (c *controller) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(c.allowedOrigins) == 0 || slices.Contains(c.allowedOrigins, "*") {
		return true
	}

	return slices.Contains(c.allowedOrigins, origin)
}
