package vector_store

import (
	"context"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
)

// NewVectorStore builds the backend selected by vectorstore.type.
func NewVectorStore(ctx context.Context, cfg *config.Config) (VectorStore, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "config cannot be nil")
	}

	switch VectorStoreType(cfg.VectorStore.Type) {
	case VectorStoreTypeFlat:
		return NewFlatStore(ctx, cfg)
	case VectorStoreTypeMilvus:
		return NewMilvusStore(ctx, cfg)
	case VectorStoreTypePostgreSQL:
		return NewPostgresStore(ctx, cfg)
	default:
		return nil, errors.Newf(errors.ErrUnsupportedConfiguration, "unsupported vector store type: %s", cfg.VectorStore.Type)
	}
}
