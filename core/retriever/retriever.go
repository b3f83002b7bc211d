package retriever

import (
	"context"
	"strings"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/vector_store"
	"github.com/conlawai/conlaw/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Retriever answers similarity queries against the constitution index.
type Retriever struct {
	embedder common.Embedder
	store    vector_store.VectorStore
	conf     *config.RetrieverConfig
}

// NewRetriever wires a retriever over an embedder and an index backend.
func NewRetriever(embedder common.Embedder, store vector_store.VectorStore, conf *config.RetrieverConfig) (*Retriever, error) {
	if embedder == nil || store == nil || conf == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "retriever requires embedder, store and config")
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		conf:     conf,
	}, nil
}

// Retrieve embeds the query and returns the chunks scoring at or above the
// threshold, highest similarity first. An answer with no chunk above the
// threshold is a valid outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, req *RetrieveReq) ([]*schema.Document, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "query must not be empty")
	}

	// Fill unset parameters from the configured defaults.
	if req.TopK == nil {
		req.TopK = &r.conf.TopK
	}
	if req.Score == nil {
		req.Score = &r.conf.ScoreThreshold
	}

	vectors, err := r.embedder.EmbedStrings(ctx, []string{req.Query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.Newf(errors.ErrEmbeddingService, "query embedding returned %d vectors", len(vectors))
	}

	docs, err := r.store.Search(ctx, vectors[0], *req.TopK)
	if err != nil {
		return nil, err
	}

	// Filter low scoring documents.
	var relatedDocs []*schema.Document
	for _, doc := range docs {
		if float64(doc.Score) < *req.Score {
			g.Log().Debugf(ctx, "score less: %v, related: %v", doc.Score, doc.Content)
			continue
		}
		relatedDocs = append(relatedDocs, doc)
	}

	g.Log().Infof(ctx, "Retrieval kept %d of %d candidates above threshold %.2f", len(relatedDocs), len(docs), *req.Score)
	return relatedDocs, nil
}
