package playback

import "errors"

var (
	ErrRecordNotFound     = errors.New("playback record not found")
	ErrSubscriptionClosed = errors.New("subscription closed")
)

// Change is the notification emitted for every Set. Origin identifies the
// writer so it is never notified of its own writes.
type Change struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Origin string `json:"origin"`
}

type SetParams struct {
	Key    string
	Value  string
	Origin string
}

type Subscription interface {
	Changes() <-chan Change
	Close() error
}

// Offer delivers c without blocking. When the buffer is full the oldest
// pending change is dropped so the latest value always gets through.
func Offer(ch chan Change, c Change) {
	for {
		select {
		case ch <- c:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}
