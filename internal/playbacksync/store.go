package playbacksync

import (
	"context"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, params *playback.SetParams) error
	Subscribe(ctx context.Context, origin string) (playback.Subscription, error)
}
