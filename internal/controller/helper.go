package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/louismahl/got-companion/internal/catalog"
	"github.com/louismahl/got-companion/internal/service/companion"
	"github.com/louismahl/got-companion/internal/storage"
	"github.com/louismahl/got-companion/pkg/rest"
	"github.com/louismahl/got-companion/pkg/validator"
)

var ErrValidationError = errors.New("validation error")

type validationError struct {
	errs []validator.ValidationError
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationError, validator.Join(e.errs))
}

func (e *validationError) Unwrap() error {
	return ErrValidationError
}

type episodeParams struct {
	Season  int `json:"season" validate:"gte=1"`
	Episode int `json:"episode" validate:"gte=1"`
}

func (c *controller) getEpisodeParams(r *http.Request) (episodeParams, error) {
	var params episodeParams
	var errs []validator.ValidationError

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"season", &params.Season},
		{"episode", &params.Episode},
	} {
		n, err := strconv.Atoi(chi.URLParam(r, p.name))
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   p.name,
				Code:    "NUMERIC",
				Message: fmt.Sprintf("%s must be a number", p.name),
			})
			continue
		}
		*p.dst = n
	}
	if len(errs) > 0 {
		return episodeParams{}, &validationError{errs: errs}
	}

	if errs, ok := c.validate.Validate(params); !ok {
		return episodeParams{}, &validationError{errs: errs}
	}

	return params, nil
}

func errorStatus(err error) int {
	var loadErr *catalog.LoadError
	switch {
	case errors.Is(err, ErrValidationError), errors.Is(err, storage.ErrInvalidFileName):
		return http.StatusBadRequest
	case errors.Is(err, companion.ErrEpisodeNotFound), errors.Is(err, storage.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, companion.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &loadErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (c *controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
	} else {
		c.logger.DebugContext(r.Context(), "request rejected", "error", err)
	}

	envelope := rest.Envelope{"error": err.Error()}
	var vErr *validationError
	if errors.As(err, &vErr) {
		envelope = rest.Envelope{"error": ErrValidationError.Error(), "errors": vErr.errs}
	}

	if err := rest.WriteJSON(w, status, envelope); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write error", "error", err)
	}
}

func (c *controller) writeLock(conn *websocket.Conn) *sync.Mutex {
	mu, _ := c.writeLocks.LoadOrStore(conn, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// writeToConn serializes writes per connection. gorilla/websocket allows at
// most one concurrent writer.
func (c *controller) writeToConn(_ context.Context, conn *websocket.Conn, output *Output) error {
	mu := c.writeLock(conn)
	mu.Lock()
	defer mu.Unlock()

	return conn.WriteJSON(output)
}

func (c *controller) disconnect(ctx context.Context, surfaceID string) {
	conn, err := c.companionService.DisconnectSurface(ctx, surfaceID)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect surface", "error", err)
		return
	}
	c.writeLocks.Delete(conn)
}
