package vector_store

import (
	"context"
	"time"

	"github.com/conlawai/conlaw/pkg/schema"
)

// VectorStoreType selects the index backend.
type VectorStoreType string

const (
	// VectorStoreTypeFlat keeps vectors in memory and persists them as
	// a single bundle file. The default, and the only backend with no
	// external service requirement.
	VectorStoreTypeFlat VectorStoreType = "flat"
	// VectorStoreTypeMilvus stores vectors in a Milvus collection.
	VectorStoreTypeMilvus VectorStoreType = "milvus"
	// VectorStoreTypePostgreSQL stores vectors in PostgreSQL + pgvector.
	VectorStoreTypePostgreSQL VectorStoreType = "pgvector"
)

// IndexStats describes the current state of the index, as reported by
// the status endpoint.
type IndexStats struct {
	Exists       bool
	Count        int64
	Location     string
	SizeBytes    int64
	LastModified time.Time
}

// VectorStore is the index backend contract. One store instance is
// bound to one collection/table/bundle, fixed at construction.
type VectorStore interface {
	// EnsureReady prepares backing storage (collection, table or
	// directory) so inserts can proceed.
	EnsureReady(ctx context.Context) error

	// Exists reports whether the index has been built before.
	Exists(ctx context.Context) (bool, error)

	// InsertVectors stores chunks with their vectors and returns the
	// assigned storage ids. Chunks without an ID get one generated.
	InsertVectors(ctx context.Context, chunks []*schema.Document, vectors [][]float32) ([]string, error)

	// Search returns the topK nearest chunks to queryVector, highest
	// similarity first, with Score populated on each document.
	Search(ctx context.Context, queryVector []float32, topK int) ([]*schema.Document, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int64, error)

	// Load brings a previously built index into serving state.
	Load(ctx context.Context) error

	// Persist makes the current contents durable.
	Persist(ctx context.Context) error

	// Flush removes all stored chunks and any persisted artifacts.
	// Flushing an absent index is not an error.
	Flush(ctx context.Context) error

	// Stats reports index presence, size and modification time.
	Stats(ctx context.Context) (*IndexStats, error)

	// Close releases underlying connections.
	Close(ctx context.Context) error
}
