package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

const (
	defaultChannel = "got-sync:changes"
	bufferSize     = 16
)

type repo struct {
	rc      *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	return &repo{
		rc:      rc,
		channel: defaultChannel,
		logger:  logger,
	}
}

// Set stores the value and publishes the change in one transaction. Records
// never expire, they live until overwritten or the store is flushed.
func (r repo) Set(ctx context.Context, params *playback.SetParams) error {
	payload, err := json.Marshal(playback.Change{
		Key:    params.Key,
		Value:  params.Value,
		Origin: params.Origin,
	})
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}

	pipe := r.rc.TxPipeline()
	pipe.Set(ctx, params.Key, params.Value, 0)
	pipe.Publish(ctx, r.channel, payload)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "set failed", "key", params.Key, "error", err)
		return fmt.Errorf("set %s: %w", params.Key, err)
	}

	return nil
}

func (r repo) Get(ctx context.Context, key string) (string, error) {
	value, err := r.rc.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", playback.ErrRecordNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}

	return value, nil
}

// Subscribe returns once the subscription is active, so a Set issued after
// it returns is guaranteed to be observed.
func (r repo) Subscribe(ctx context.Context, origin string) (playback.Subscription, error) {
	pubsub := r.rc.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	s := &subscription{
		pubsub:  pubsub,
		origin:  origin,
		changes: make(chan playback.Change, bufferSize),
		logger:  r.logger,
	}
	go s.run()

	return s, nil
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}

type subscription struct {
	pubsub    *redis.PubSub
	origin    string
	changes   chan playback.Change
	logger    *slog.Logger
	closeOnce sync.Once
}

func (s *subscription) run() {
	defer close(s.changes)

	for msg := range s.pubsub.Channel() {
		var change playback.Change
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			s.logger.Debug("dropping malformed change", "payload", msg.Payload, "error", err)
			continue
		}

		if change.Origin == s.origin {
			continue
		}

		playback.Offer(s.changes, change)
	}
}

func (s *subscription) Changes() <-chan playback.Change {
	return s.changes
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.pubsub.Close()
	})

	return err
}
