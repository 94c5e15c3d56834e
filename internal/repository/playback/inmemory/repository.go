package inmemory

import (
	"context"
	"sync"

	"github.com/louismahl/got-companion/internal/repository/playback"
)

const bufferSize = 16

// repo is a process-local store with the same semantics as the redis one:
// last write wins and every subscriber except the writer is notified.
type repo struct {
	records map[string]string
	subs    map[*subscription]struct{}
	mu      sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		records: make(map[string]string),
		subs:    make(map[*subscription]struct{}),
	}
}

func (r *repo) Set(_ context.Context, params *playback.SetParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[params.Key] = params.Value

	change := playback.Change{Key: params.Key, Value: params.Value, Origin: params.Origin}
	for s := range r.subs {
		if s.origin == params.Origin {
			continue
		}
		playback.Offer(s.changes, change)
	}

	return nil
}

func (r *repo) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.records[key]
	if !ok {
		return "", playback.ErrRecordNotFound
	}

	return value, nil
}

func (r *repo) Subscribe(ctx context.Context, origin string) (playback.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &subscription{
		repo:    r,
		origin:  origin,
		changes: make(chan playback.Change, bufferSize),
	}

	r.mu.Lock()
	r.subs[s] = struct{}{}
	r.mu.Unlock()

	return s, nil
}

func (r *repo) remove(s *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[s]; !ok {
		return
	}
	delete(r.subs, s)
	close(s.changes)
}

type subscription struct {
	repo    *repo
	origin  string
	changes chan playback.Change
}

func (s *subscription) Changes() <-chan playback.Change {
	return s.changes
}

func (s *subscription) Close() error {
	s.repo.remove(s)
	return nil
}
