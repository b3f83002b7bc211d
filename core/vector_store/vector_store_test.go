package vector_store

import (
	"context"
	"testing"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVectorStoreInterface checks every backend satisfies the contract.
func TestVectorStoreInterface(t *testing.T) {
	t.Run("flat implements VectorStore", func(t *testing.T) {
		var _ VectorStore = (*FlatStore)(nil)
	})

	t.Run("milvus implements VectorStore", func(t *testing.T) {
		var _ VectorStore = (*MilvusStore)(nil)
	})

	t.Run("postgres implements VectorStore", func(t *testing.T) {
		var _ VectorStore = (*PostgresStore)(nil)
	})
}

func TestFactoryCreation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		store, err := NewVectorStore(ctx, nil)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
	})

	t.Run("unsupported type", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.VectorStore.Type = "chroma"

		store, err := NewVectorStore(ctx, cfg)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.True(t, errors.IsCode(err, errors.ErrUnsupportedConfiguration))
		assert.Contains(t, err.Error(), "unsupported vector store type")
	})

	t.Run("flat store", func(t *testing.T) {
		cfg := newFlatTestConfig(t, "test-model")
		store, err := NewVectorStore(ctx, cfg)
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("milvus without address", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.VectorStore.Type = "milvus"

		store, err := NewVectorStore(ctx, cfg)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
	})

	t.Run("milvus with invalid collection name", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.VectorStore.Type = "milvus"
		cfg.Milvus.Address = "localhost:19530"
		cfg.Milvus.Collection = "bad-name!"

		store, err := NewVectorStore(ctx, cfg)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
	})

	t.Run("pgvector without dsn", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.VectorStore.Type = "pgvector"

		store, err := NewVectorStore(ctx, cfg)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
	})
}
