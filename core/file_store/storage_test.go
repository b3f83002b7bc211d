package file_store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInterface(t *testing.T) {
	t.Run("LocalStore implements Store", func(t *testing.T) {
		var _ Store = (*LocalStore)(nil)
	})

	t.Run("RustFSStore implements Store", func(t *testing.T) {
		var _ Store = (*RustFSStore)(nil)
	})
}

func TestLocalStoreSaveAndExists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "corpus")

	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "Preamble.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	path, err := store.Save(ctx, "Preamble.txt", []byte("WE, THE PEOPLE OF INDIA"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Preamble.txt"), path)

	exists, err = store.Exists(ctx, "Preamble.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "WE, THE PEOPLE OF INDIA", string(content))
}

func TestLocalStoreSync(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "corpus")

	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	// Sync must create the directory even before the first save.
	synced, err := store.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, dir, synced)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewLocalStoreEmptyDir(t *testing.T) {
	store, err := NewLocalStore("")
	assert.Nil(t, store)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
}

func TestNewStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		store, err := NewStore(ctx, nil)
		assert.Nil(t, store)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
	})

	t.Run("local store by default", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Corpus.Dir = t.TempDir()

		store, err := NewStore(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &LocalStore{}, store)
	})

	t.Run("rustfs without endpoint", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Corpus.Store = "rustfs"

		store, err := NewStore(ctx, cfg)
		assert.Nil(t, store)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
	})

	t.Run("unsupported store type", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Corpus.Store = "hdfs"

		store, err := NewStore(ctx, cfg)
		assert.Nil(t, store)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUnsupportedConfiguration))
		assert.Contains(t, err.Error(), "unsupported corpus store type")
	})
}
