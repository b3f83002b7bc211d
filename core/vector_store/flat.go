package vector_store

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
)

// BundleFormatVersion is bumped whenever the on-disk layout changes.
// Loading a bundle with a different version fails as corrupt.
const BundleFormatVersion = 1

// BundleHeader identifies what an index bundle was built with. A
// bundle is only served when it matches the running configuration.
type BundleHeader struct {
	FormatVersion  int    `json:"format_version"`
	EmbeddingModel string `json:"embedding_model"`
	Metric         string `json:"metric"`
	Dimension      int    `json:"dimension"`
	RunId          string `json:"run_id"`
	CreatedAt      string `json:"created_at"`
}

type bundleEntry struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	MetaData map[string]interface{} `json:"metadata,omitempty"`
	Vector   []float32              `json:"vector"`
}

type indexBundle struct {
	Header  BundleHeader  `json:"header"`
	Entries []bundleEntry `json:"entries"`
}

// FlatStore holds all vectors in memory and scans them exhaustively on
// search. The corpus is a few thousand chunks, well inside what a flat
// scan handles comfortably, and it keeps the default deployment free
// of external services.
type FlatStore struct {
	mu        sync.RWMutex
	path      string
	model     string
	metric    string
	dimension int

	docs    []*schema.Document
	vectors [][]float32
	header  BundleHeader
}

// NewFlatStore builds a flat store persisting to vectorstore.path.
func NewFlatStore(ctx context.Context, cfg *config.Config) (*FlatStore, error) {
	if cfg.VectorStore.Path == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "vectorstore.path is required for the flat store")
	}

	return &FlatStore{
		path:      cfg.VectorStore.Path,
		model:     cfg.Embedding.Model,
		metric:    cfg.VectorStore.MetricType,
		dimension: cfg.Embedding.Dimension,
	}, nil
}

// EnsureReady creates the bundle directory.
func (s *FlatStore) EnsureReady(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create index directory %s: %v", dir, err)
	}
	return nil
}

// Exists reports whether chunks are loaded or a bundle file is present.
func (s *FlatStore) Exists(ctx context.Context) (bool, error) {
	s.mu.RLock()
	inMemory := len(s.docs) > 0
	s.mu.RUnlock()
	if inMemory {
		return true, nil
	}

	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Newf(errors.ErrOperationFailed, "failed to stat index bundle: %v", err)
	}
	return true, nil
}

// InsertVectors appends chunks with their vectors. Content is
// truncated to the same limit the server-backed stores enforce.
func (s *FlatStore) InsertVectors(ctx context.Context, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, errors.Newf(errors.ErrVectorInsert, "chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(chunks))
	for idx, chunk := range chunks {
		if s.dimension > 0 && len(vectors[idx]) != s.dimension {
			return nil, errors.Newf(errors.ErrVectorInsert, "vector dimension mismatch for chunk %d: got %d, want %d", idx, len(vectors[idx]), s.dimension)
		}

		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		doc := &schema.Document{
			ID:      chunk.ID,
			Content: common.TruncateString(chunk.Content, 65535),
		}
		if chunk.MetaData != nil {
			doc.MetaData = make(map[string]interface{}, len(chunk.MetaData))
			for k, v := range chunk.MetaData {
				doc.MetaData[k] = v
			}
		}

		s.docs = append(s.docs, doc)
		s.vectors = append(s.vectors, vectors[idx])
	}

	g.Log().Infof(ctx, "Inserted %d vectors into flat store (total %d)", len(chunks), len(s.docs))
	return ids, nil
}

// Search scans every stored vector and returns the topK most similar
// chunks, highest score first.
func (s *FlatStore) Search(ctx context.Context, queryVector []float32, topK int) ([]*schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return nil, errors.New(errors.ErrIndexNotFound, "vector index is empty, build the index first")
	}
	if s.dimension > 0 && len(queryVector) != s.dimension {
		return nil, errors.Newf(errors.ErrVectorSearch, "query vector dimension mismatch: got %d, want %d", len(queryVector), s.dimension)
	}
	if topK <= 0 {
		topK = 4
	}

	type scored struct {
		idx   int
		score float32
	}
	candidates := make([]scored, len(s.vectors))
	for i, vec := range s.vectors {
		candidates[i] = scored{idx: i, score: s.similarity(queryVector, vec)}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]*schema.Document, len(candidates))
	for i, c := range candidates {
		src := s.docs[c.idx]
		doc := &schema.Document{
			ID:      src.ID,
			Content: src.Content,
			Score:   c.score,
		}
		if src.MetaData != nil {
			doc.MetaData = make(map[string]interface{}, len(src.MetaData))
			for k, v := range src.MetaData {
				doc.MetaData[k] = v
			}
		}
		results[i] = doc
	}

	return results, nil
}

// similarity converts the configured metric into a score where higher
// means more similar, mirroring the pgvector score calculations.
func (s *FlatStore) similarity(a, b []float32) float32 {
	switch strings.ToUpper(s.metric) {
	case "IP", "INNER_PRODUCT":
		return dotProduct(a, b)
	case "L2":
		return 1.0 / (1.0 + l2Distance(a, b))
	default: // COSINE
		return cosineSimilarity(a, b)
	}
}

// Count returns the number of chunks currently loaded.
func (s *FlatStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

// Load reads the bundle from disk, validating the header against the
// running configuration before serving anything from it.
func (s *FlatStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrIndexNotFound, "index bundle not found at %s", s.path)
		}
		return errors.Newf(errors.ErrOperationFailed, "failed to read index bundle: %v", err)
	}

	var bundle indexBundle
	if err := sonic.Unmarshal(data, &bundle); err != nil {
		return errors.Newf(errors.ErrIndexCorrupt, "failed to decode index bundle: %v", err)
	}

	if bundle.Header.FormatVersion != BundleFormatVersion {
		return errors.Newf(errors.ErrIndexCorrupt, "index bundle format version %d does not match expected %d", bundle.Header.FormatVersion, BundleFormatVersion)
	}
	if bundle.Header.EmbeddingModel != s.model {
		return errors.Newf(errors.ErrIndexCorrupt, "index bundle was built with embedding model %q but %q is configured, rebuild the index", bundle.Header.EmbeddingModel, s.model)
	}
	if !strings.EqualFold(bundle.Header.Metric, s.metric) {
		return errors.Newf(errors.ErrIndexCorrupt, "index bundle was built with metric %q but %q is configured, rebuild the index", bundle.Header.Metric, s.metric)
	}
	if s.dimension > 0 && bundle.Header.Dimension != s.dimension {
		return errors.Newf(errors.ErrIndexCorrupt, "index bundle dimension %d does not match configured %d, rebuild the index", bundle.Header.Dimension, s.dimension)
	}

	docs := make([]*schema.Document, len(bundle.Entries))
	vectors := make([][]float32, len(bundle.Entries))
	for i, entry := range bundle.Entries {
		if len(entry.Vector) != bundle.Header.Dimension {
			return errors.Newf(errors.ErrIndexCorrupt, "entry %d has vector dimension %d, header says %d", i, len(entry.Vector), bundle.Header.Dimension)
		}
		docs[i] = &schema.Document{
			ID:       entry.ID,
			Content:  entry.Content,
			MetaData: entry.MetaData,
		}
		vectors[i] = entry.Vector
	}

	s.mu.Lock()
	s.docs = docs
	s.vectors = vectors
	s.header = bundle.Header
	s.mu.Unlock()

	g.Log().Infof(ctx, "Loaded index bundle from %s: %d chunks, model %s, run %s",
		s.path, len(docs), bundle.Header.EmbeddingModel, bundle.Header.RunId)
	return nil
}

// Persist writes the current contents as a new bundle, stamped with a
// fresh run id.
func (s *FlatStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := BundleHeader{
		FormatVersion:  BundleFormatVersion,
		EmbeddingModel: s.model,
		Metric:         s.metric,
		Dimension:      s.dimension,
		RunId:          uuid.New().String(),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	entries := make([]bundleEntry, len(s.docs))
	for i, doc := range s.docs {
		entries[i] = bundleEntry{
			ID:       doc.ID,
			Content:  doc.Content,
			MetaData: doc.MetaData,
			Vector:   s.vectors[i],
		}
	}

	data, err := sonic.Marshal(indexBundle{Header: header, Entries: entries})
	if err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to encode index bundle: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to create index directory: %v", err)
	}

	// Write to a temp file first so a partial write never replaces a
	// good bundle.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to write index bundle: %v", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Newf(errors.ErrOperationFailed, "failed to finalize index bundle: %v", err)
	}

	s.header = header
	g.Log().Infof(ctx, "Persisted index bundle to %s: %d chunks, run %s", s.path, len(entries), header.RunId)
	return nil
}

// Flush drops everything in memory and deletes the bundle file.
func (s *FlatStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.docs = nil
	s.vectors = nil
	s.header = BundleHeader{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Newf(errors.ErrOperationFailed, "failed to remove index bundle: %v", err)
	}

	g.Log().Infof(ctx, "Flushed flat store and removed bundle at %s", s.path)
	return nil
}

// Stats reports what is loaded plus what sits on disk.
func (s *FlatStore) Stats(ctx context.Context) (*IndexStats, error) {
	s.mu.RLock()
	count := int64(len(s.docs))
	s.mu.RUnlock()

	stats := &IndexStats{
		Count:    count,
		Location: s.path,
		Exists:   count > 0,
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.Exists = true
		stats.SizeBytes = info.Size()
		stats.LastModified = info.ModTime()
	}

	return stats, nil
}

// Close is a no-op, nothing external is held.
func (s *FlatStore) Close(ctx context.Context) error {
	return nil
}

// RunId returns the run id of the bundle currently in memory.
func (s *FlatStore) RunId() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header.RunId
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func dotProduct(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot)
}

func l2Distance(a, b []float32) float32 {
	if len(a) != len(b) {
		return float32(math.MaxFloat32)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
