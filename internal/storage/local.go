package storage

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) ServeVideo(w http.ResponseWriter, r *http.Request, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	p := filepath.Join(l.dir, name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrVideoNotFound
		}
		return err
	}
	if info.IsDir() {
		return ErrVideoNotFound
	}

	http.ServeFile(w, r, p)
	return nil
}
