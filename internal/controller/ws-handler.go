package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/scene"
	"github.com/louismahl/got-companion/internal/service/companion"
	"github.com/louismahl/got-companion/pkg/ctxlogger"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type EmptyInput struct{}

func (c *controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type UpdatePlaybackInput struct {
	CurrentTime *float64 `json:"current_time" validate:"required,gte=0"`
	IsPaused    bool     `json:"is_paused"`
}

func (c *controller) handleUpdatePlayback(ctx context.Context, _ *websocket.Conn, input UpdatePlaybackInput) error {
	if errs, ok := c.validate.Validate(input); !ok {
		return &validationError{errs: errs}
	}

	if _, err := c.companionService.UpdatePlayback(ctx, &companion.UpdatePlaybackParams{
		SurfaceID:   c.getSurfaceIDFromCtx(ctx),
		CurrentTime: *input.CurrentTime,
		IsPaused:    input.IsPaused,
	}); err != nil {
		return fmt.Errorf("failed to update playback: %w", err)
	}

	return nil
}

// handleWSError reports a failed message to its sender and keeps the
// connection open.
func (c *controller) handleWSError(ctx context.Context, conn *websocket.Conn, err error) error {
	c.logger.DebugContext(ctx, "websocket message failed", "error", err)

	payload := map[string]any{"message": err.Error()}
	var vErr *validationError
	if errors.As(err, &vErr) {
		payload["errors"] = vErr.errs
	}

	return c.writeToConn(ctx, conn, &Output{Type: "ERROR", Payload: payload})
}

func (c *controller) connectPlayer(w http.ResponseWriter, r *http.Request) {
	params, err := c.getEpisodeParams(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	connectPlayerResp, err := c.companionService.ConnectPlayer(r.Context(), &companion.ConnectPlayerParams{
		Conn:    conn,
		Season:  params.Season,
		Episode: params.Episode,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect player", "error", err)
		return
	}
	defer c.disconnect(r.Context(), connectPlayerResp.SurfaceID)

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("surface_id", connectPlayerResp.SurfaceID))
	ctx = context.WithValue(ctx, surfaceIDCtxKey, connectPlayerResp.SurfaceID)

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "PLAYER_CONNECTED",
		Payload: map[string]any{
			"surface_id": connectPlayerResp.SurfaceID,
			"episode":    connectPlayerResp.Episode,
			"last_time":  connectPlayerResp.LastTime,
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write json", "error", err)
		return
	}

	if err := c.playerMux.ServeConn(ctx, conn, c.handleWSError); err != nil {
		c.logger.InfoContext(ctx, "failed to serve conn", "error", err)
	}
}

func (c *controller) connectDisplay(w http.ResponseWriter, r *http.Request) {
	params, err := c.getEpisodeParams(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	connectDisplayResp, err := c.companionService.ConnectDisplay(r.Context(), &companion.ConnectDisplayParams{
		Conn:    conn,
		Season:  params.Season,
		Episode: params.Episode,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect display", "error", err)
		return
	}
	defer c.disconnect(r.Context(), connectDisplayResp.SurfaceID)

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("surface_id", connectDisplayResp.SurfaceID))
	ctx = context.WithValue(ctx, surfaceIDCtxKey, connectDisplayResp.SurfaceID)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "DISPLAY_CONNECTED",
		Payload: map[string]any{
			"surface_id": connectDisplayResp.SurfaceID,
			"state":      connectDisplayResp.State,
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write json", "error", err)
		return
	}

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		c.watchDisplay(ctx, conn, connectDisplayResp.SurfaceID)
	}()

	if err := c.displayMux.ServeConn(ctx, conn, c.handleWSError); err != nil {
		c.logger.InfoContext(ctx, "failed to serve conn", "error", err)
	}

	cancel()
	<-watchDone
}

// watchDisplay pushes a SCENE_UPDATED message for every time change. If the
// watch ends for any reason other than the display leaving, the connection
// is closed so the client reconnects.
func (c *controller) watchDisplay(ctx context.Context, conn *websocket.Conn, surfaceID string) {
	err := c.companionService.WatchDisplay(ctx, &companion.WatchDisplayParams{
		SurfaceID: surfaceID,
		OnState: func(state scene.State) {
			if err := c.writeToConn(ctx, conn, &Output{
				Type:    "SCENE_UPDATED",
				Payload: map[string]any{"state": state},
			}); err != nil {
				c.logger.DebugContext(ctx, "failed to write scene update", "error", err)
			}
		},
	})
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	c.logger.WarnContext(ctx, "display watch stopped", "error", err)
	c.writeToConn(ctx, conn, &Output{Type: "ERROR", Payload: map[string]any{"message": err.Error()}})
	conn.Close()
}
