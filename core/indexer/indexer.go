package indexer

import (
	"context"

	"github.com/conlawai/conlaw/core/corpus"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/vector_store"
	"github.com/conlawai/conlaw/pkg/schema"

	einoschema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Indexer runs the full ingestion pipeline: corpus files in, persisted
// vector index out.
type Indexer struct {
	loader   *corpus.Loader
	splitter *Splitter
	enricher *Enricher
	embedder *BatchEmbedder
	store    vector_store.VectorStore
}

// BuildResult reports one completed ingestion run. DocumentCount counts the
// indexed chunks, which is what the index status reports as well.
type BuildResult struct {
	SourceFiles   int
	DocumentCount int
	IndexPath     string
}

// buildContext carries state between pipeline steps.
type buildContext struct {
	ctx     context.Context
	docs    []*einoschema.Document
	chunks  []*einoschema.Document
	vectors [][]float32
	stored  []string
}

// NewIndexer wires the ingestion pipeline.
func NewIndexer(loader *corpus.Loader, splitter *Splitter, enricher *Enricher, embedder *BatchEmbedder, store vector_store.VectorStore) (*Indexer, error) {
	if loader == nil || splitter == nil || enricher == nil || embedder == nil || store == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "indexer requires loader, splitter, enricher, embedder and store")
	}
	return &Indexer{
		loader:   loader,
		splitter: splitter,
		enricher: enricher,
		embedder: embedder,
		store:    store,
	}, nil
}

// Build rebuilds the whole index from the corpus. Embedding runs before the
// old index is dropped, so a failed run leaves the previous index untouched.
func (s *Indexer) Build(ctx context.Context) (*BuildResult, error) {
	bctx := &buildContext{ctx: ctx}

	pipeline := []struct {
		name string
		fn   func(*buildContext) error
	}{
		{"Load corpus", s.stepLoadCorpus},
		{"Split documents", s.stepSplitDocuments},
		{"Enrich metadata", s.stepEnrichMetadata},
		{"Embed chunks", s.stepEmbedChunks},
		{"Reset index", s.stepResetIndex},
		{"Store vectors", s.stepStoreVectors},
		{"Persist index", s.stepPersistIndex},
	}

	for _, step := range pipeline {
		g.Log().Debugf(ctx, "Executing step: %s", step.name)
		if err := step.fn(bctx); err != nil {
			g.Log().Errorf(ctx, "%s failed: %v", step.name, err)
			return nil, err
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	g.Log().Infof(ctx, "Index build completed: %d source files, %d chunks, location=%s",
		len(bctx.docs), len(bctx.stored), stats.Location)

	return &BuildResult{
		SourceFiles:   len(bctx.docs),
		DocumentCount: len(bctx.stored),
		IndexPath:     stats.Location,
	}, nil
}

func (s *Indexer) stepLoadCorpus(bctx *buildContext) error {
	docs, err := s.loader.Load(bctx.ctx)
	if err != nil {
		return err
	}
	bctx.docs = docs
	return nil
}

func (s *Indexer) stepSplitDocuments(bctx *buildContext) error {
	chunks, err := s.splitter.Transform(bctx.ctx, bctx.docs)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errors.New(errors.ErrSourceNotFound, "corpus produced no chunks")
	}
	bctx.chunks = chunks
	g.Log().Infof(bctx.ctx, "Split %d documents into %d chunks", len(bctx.docs), len(chunks))
	return nil
}

func (s *Indexer) stepEnrichMetadata(bctx *buildContext) error {
	chunks, err := s.enricher.Transform(bctx.ctx, bctx.chunks)
	if err != nil {
		return err
	}
	bctx.chunks = chunks
	return nil
}

func (s *Indexer) stepEmbedChunks(bctx *buildContext) error {
	vectors, err := s.embedder.EmbedChunks(bctx.ctx, bctx.chunks)
	if err != nil {
		return err
	}
	bctx.vectors = vectors
	return nil
}

func (s *Indexer) stepResetIndex(bctx *buildContext) error {
	if err := s.store.Flush(bctx.ctx); err != nil {
		return err
	}
	return s.store.EnsureReady(bctx.ctx)
}

func (s *Indexer) stepStoreVectors(bctx *buildContext) error {
	ids, err := s.store.InsertVectors(bctx.ctx, schema.FromEinoDocuments(bctx.chunks), bctx.vectors)
	if err != nil {
		return err
	}
	bctx.stored = ids
	return nil
}

func (s *Indexer) stepPersistIndex(bctx *buildContext) error {
	return s.store.Persist(bctx.ctx)
}
