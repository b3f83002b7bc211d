package file_store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/conlawai/conlaw/core/errors"
	"github.com/gogf/gf/v2/frame/g"
)

// LocalStore keeps corpus files in a plain directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a local corpus store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "corpus directory is not configured")
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes one corpus file under the corpus directory.
func (s *LocalStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		g.Log().Errorf(ctx, "Failed to create directory %s: %v", s.dir, err)
		return "", errors.Newf(errors.ErrOperationFailed, "failed to create directory %s: %v", s.dir, err)
	}

	finalPath := filepath.Join(s.dir, name)
	if err := os.WriteFile(finalPath, content, 0644); err != nil {
		g.Log().Errorf(ctx, "Failed to write file %s: %v", finalPath, err)
		return "", errors.Newf(errors.ErrOperationFailed, "failed to write file %s: %v", finalPath, err)
	}

	g.Log().Infof(ctx, "Corpus file saved to local storage: %s", finalPath)
	return finalPath, nil
}

// Exists reports whether the named corpus file is on disk.
func (s *LocalStore) Exists(ctx context.Context, name string) (bool, error) {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Newf(errors.ErrOperationFailed, "failed to stat file %s: %v", name, err)
	}
	return !info.IsDir(), nil
}

// Sync is a no-op for local storage; the corpus directory is the store.
func (s *LocalStore) Sync(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Newf(errors.ErrOperationFailed, "failed to create directory %s: %v", s.dir, err)
	}
	return s.dir, nil
}

// Dir returns the corpus directory.
func (s *LocalStore) Dir() string {
	return s.dir
}
