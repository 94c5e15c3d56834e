package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/louismahl/got-companion/internal/service/companion"
	"github.com/louismahl/got-companion/internal/storage"
	"github.com/louismahl/got-companion/pkg/rest"
	"github.com/louismahl/got-companion/pkg/timecode"
	"github.com/louismahl/got-companion/pkg/validator"
)

func (c *controller) health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"status": "ok"})
}

func (c *controller) getEpisode(w http.ResponseWriter, r *http.Request) {
	params, err := c.getEpisodeParams(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	episode, err := c.companionService.GetEpisode(r.Context(), &companion.GetEpisodeParams{
		Season:  params.Season,
		Episode: params.Episode,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": episode})
}

// resolveScene accepts t as seconds or as a timestamp like 0:02:05.
func (c *controller) resolveScene(w http.ResponseWriter, r *http.Request) {
	params, err := c.getEpisodeParams(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	t := strings.TrimSpace(r.URL.Query().Get("t"))
	if t == "" {
		c.writeError(w, r, &validationError{errs: []validator.ValidationError{{
			Field:   "t",
			Code:    "REQUIRED",
			Message: "t is required",
		}}})
		return
	}

	state, err := c.companionService.ResolveScene(r.Context(), &companion.ResolveSceneParams{
		Season:  params.Season,
		Episode: params.Episode,
		Time:    timecode.ParseSeconds(t),
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": state})
}

func (c *controller) getSyncState(w http.ResponseWriter, r *http.Request) {
	params, err := c.getEpisodeParams(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	syncState, err := c.companionService.GetSyncState(r.Context(), &companion.GetSyncStateParams{
		Season:  params.Season,
		Episode: params.Episode,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": syncState})
}

func (c *controller) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	resp, err := c.companionService.ReloadCatalog(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	c.logger.InfoContext(r.Context(), "catalog reloaded",
		"episodes", resp.Stats.Episodes,
		"characters", resp.Stats.Characters,
		"locations", resp.Stats.Locations,
	)
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp.Stats})
}

func (c *controller) serveVideo(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if c.videoStore == nil {
		c.writeError(w, r, fmt.Errorf("%s: %w", file, storage.ErrVideoNotFound))
		return
	}

	if err := c.videoStore.ServeVideo(w, r, file); err != nil {
		c.writeError(w, r, fmt.Errorf("%s: %w", file, err))
	}
}
