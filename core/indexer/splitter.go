package indexer

import (
	"context"
	"strings"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/errors"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// chunkSeparators is the split priority: paragraph, line, word, character.
var chunkSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts whole constitution documents into overlapping chunks and
// stamps every chunk with a sequential id unique within one ingestion run.
type Splitter struct {
	splitter document.Transformer
}

// NewSplitter creates a recursive character splitter. Overlap must be
// smaller than the chunk size.
func NewSplitter(ctx context.Context, chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, errors.Newf(errors.ErrInvalidParameter, "chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, errors.Newf(errors.ErrInvalidParameter, "chunk overlap %d must be in [0, %d)", overlap, chunkSize)
	}

	recTrans, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   chunkSize,
		OverlapSize: overlap,
		Separators:  chunkSeparators,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrOperationFailed, "failed to create recursive splitter: %v", err)
	}

	return &Splitter{splitter: recTrans}, nil
}

// Transform splits docs, gives every chunk its own storage id and assigns
// sequential chunk ids in output order. The recursive splitter shares the
// parent metadata map across sibling chunks and copies the parent document
// id onto each of them, so both get replaced before any per-chunk
// enrichment can touch them.
func (s *Splitter) Transform(ctx context.Context, docs []*schema.Document, opts ...document.TransformerOption) ([]*schema.Document, error) {
	splits, err := s.splitter.Transform(ctx, docs, opts...)
	if err != nil {
		return nil, errors.Newf(errors.ErrOperationFailed, "failed to split documents: %v", err)
	}

	// The embedding service rejects empty inputs; drop blank splits
	// before numbering.
	chunks := make([]*schema.Document, 0, len(splits))
	for _, chunk := range splits {
		if strings.TrimSpace(chunk.Content) == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	for i, chunk := range chunks {
		metadata := make(map[string]interface{}, len(chunk.MetaData)+1)
		for k, v := range chunk.MetaData {
			metadata[k] = v
		}
		metadata[common.MetaChunkId] = i
		chunk.MetaData = metadata
		chunk.ID = uuid.New().String()
	}
	return chunks, nil
}
