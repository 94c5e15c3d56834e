// Package playbacksync shares a playback position between a player surface
// (the time source) and any number of display surfaces through a key-value
// store with change notification.
package playbacksync

import "fmt"

const (
	timeKeyPrefix = "got-current-time-"
	metaKeyPrefix = "got-meta-"
)

func TimeKey(season, episode int) string {
	return fmt.Sprintf("%ss%de%d", timeKeyPrefix, season, episode)
}

func MetaKey(season, episode int) string {
	return fmt.Sprintf("%ss%de%d", metaKeyPrefix, season, episode)
}
