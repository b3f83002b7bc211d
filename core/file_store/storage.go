package file_store

import (
	"context"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
)

// StorageType selects the corpus file backend.
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeRustFS StorageType = "rustfs"
)

// Store persists corpus files and makes them available in the local corpus
// directory, where the document loader reads them.
type Store interface {
	// Save writes one corpus file and returns its stored location.
	Save(ctx context.Context, name string, content []byte) (string, error)
	// Exists reports whether the named corpus file is already stored.
	Exists(ctx context.Context, name string) (bool, error)
	// Sync ensures every stored corpus file is present in the local corpus
	// directory and returns that directory.
	Sync(ctx context.Context) (string, error)
}

// NewStore creates the corpus file store selected by corpus.store.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "config is nil")
	}

	switch StorageType(cfg.Corpus.Store) {
	case StorageTypeLocal, "":
		return NewLocalStore(cfg.Corpus.Dir)
	case StorageTypeRustFS:
		return NewRustFSStore(ctx, cfg)
	default:
		return nil, errors.Newf(errors.ErrUnsupportedConfiguration, "unsupported corpus store type: %s", cfg.Corpus.Store)
	}
}
