// Package storage serves episode video files from a local directory or an
// S3-compatible bucket.
package storage

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
)

var (
	ErrVideoNotFound   = errors.New("video not found")
	ErrInvalidFileName = errors.New("invalid file name")
)

type VideoStore interface {
	ServeVideo(w http.ResponseWriter, r *http.Request, name string) error
}

// VideoName is the file name of an episode's video, e.g. s01e03.mp4.
func VideoName(season, episode int) string {
	return fmt.Sprintf("s%02de%02d.mp4", season, episode)
}

func checkName(name string) error {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsRune(name, '\\') {
		return ErrInvalidFileName
	}

	return nil
}
