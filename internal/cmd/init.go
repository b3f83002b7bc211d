package cmd

import (
	"context"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/corpus"
	"github.com/conlawai/conlaw/core/file_store"
	"github.com/conlawai/conlaw/core/indexer"
	"github.com/conlawai/conlaw/core/model"
	"github.com/conlawai/conlaw/core/retriever"
	"github.com/conlawai/conlaw/core/vector_store"
	"github.com/conlawai/conlaw/internal/logic/index"
	"github.com/conlawai/conlaw/internal/logic/qa"
	"github.com/gogf/gf/v2/frame/g"
)

// services is the wired application graph, built once at startup and handed
// to the controller.
type services struct {
	manager *index.Manager
	fetcher *corpus.Fetcher
	store   vector_store.VectorStore
}

// buildServices constructs every component from configuration, bottom up.
func buildServices(ctx context.Context) (*services, error) {
	cfg := config.Load(ctx)

	fileStore, err := file_store.NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fetcher, err := corpus.NewFetcher(cfg, fileStore)
	if err != nil {
		return nil, err
	}
	loader, err := corpus.NewLoader(ctx, fileStore)
	if err != nil {
		return nil, err
	}

	splitter, err := indexer.NewSplitter(ctx, cfg.Chunk.Size, cfg.Chunk.Overlap)
	if err != nil {
		return nil, err
	}
	embedder, err := common.NewEmbedder(ctx, cfg.Embedding.Type, &cfg.Embedding)
	if err != nil {
		return nil, err
	}
	batchEmbedder, err := indexer.NewBatchEmbedder(embedder, cfg.Embedding.Dimension, cfg.Embedding.BatchSize, cfg.Embedding.Concurrency)
	if err != nil {
		return nil, err
	}

	store, err := vector_store.NewVectorStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	idx, err := indexer.NewIndexer(loader, splitter, indexer.NewEnricher(), batchEmbedder, store)
	if err != nil {
		return nil, err
	}

	ret, err := retriever.NewRetriever(embedder, store, &cfg.Retriever)
	if err != nil {
		return nil, err
	}
	chatModel, err := model.NewChatModel(ctx, &cfg.Chat)
	if err != nil {
		return nil, err
	}
	answerer, err := qa.New(ret, chatModel)
	if err != nil {
		return nil, err
	}

	manager, err := index.NewManager(idx, store, answerer)
	if err != nil {
		return nil, err
	}

	g.Log().Info(ctx, "All services initialized")
	return &services{
		manager: manager,
		fetcher: fetcher,
		store:   store,
	}, nil
}

// close releases backend connections held by the graph.
func (s *services) close(ctx context.Context) {
	if err := s.store.Close(ctx); err != nil {
		g.Log().Warningf(ctx, "Vector store close failed: %v", err)
	}
}
