package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/corpus"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/file_store"
	"github.com/conlawai/conlaw/core/indexer"
	"github.com/conlawai/conlaw/core/retriever"
	"github.com/conlawai/conlaw/core/vector_store"
	"github.com/conlawai/conlaw/internal/logic/qa"

	einoModel "github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAnswer = "Equality before law is a fundamental right."

// vectorEmbedder derives a deterministic 3-dimensional vector from each text
// and counts how often it is called, so tests can prove whether a build ran.
type vectorEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *vectorEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 3)
		for j, r := range text {
			vec[j%3] += float32(r%13) / 13
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *vectorEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// cannedChatModel answers every question with the same text.
type cannedChatModel struct {
	answer string
}

func (c *cannedChatModel) Generate(ctx context.Context, input []*einoschema.Message, opts ...einoModel.Option) (*einoschema.Message, error) {
	return &einoschema.Message{Role: einoschema.Assistant, Content: c.answer}, nil
}

func (c *cannedChatModel) Stream(ctx context.Context, input []*einoschema.Message, opts ...einoModel.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, errors.New(errors.ErrOperationFailed, "streaming is not supported")
}

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"PART03.txt": "PART III\nFUNDAMENTAL RIGHTS\n\nArticle 14. The State shall not deny to any person equality before the law. " +
			"Equal protection of the laws is guaranteed to all.\n\nArticle 19. Protection of certain rights regarding freedom of " +
			"speech. All citizens shall have the right to freedom of speech and expression.",
		"SCHEDULE01.txt": "FIRST SCHEDULE\n\nThe States. Andhra Pradesh, Arunachal Pradesh, Assam, Bihar and the other States " +
			"of the Union, with the territories specified for each of them.",
		"Preamble.txt": "WE, THE PEOPLE OF INDIA, having solemnly resolved to constitute India into a SOVEREIGN SOCIALIST SECULAR " +
			"DEMOCRATIC REPUBLIC and to secure to all its citizens justice, liberty and equality.",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newTestManager(t *testing.T, corpusDir, bundlePath string, embedder *vectorEmbedder) *Manager {
	t.Helper()
	ctx := context.Background()

	fileStore, err := file_store.NewLocalStore(corpusDir)
	require.NoError(t, err)
	loader, err := corpus.NewLoader(ctx, fileStore)
	require.NoError(t, err)
	splitter, err := indexer.NewSplitter(ctx, 200, 40)
	require.NoError(t, err)
	batch, err := indexer.NewBatchEmbedder(embedder, 3, 16, 2)
	require.NoError(t, err)

	store, err := vector_store.NewFlatStore(ctx, &config.Config{
		VectorStore: config.VectorStoreConfig{
			Type:       "flat",
			Path:       bundlePath,
			MetricType: "COSINE",
		},
		Embedding: config.EmbeddingConfig{
			Model:     "test-model",
			Dimension: 3,
		},
	})
	require.NoError(t, err)

	idx, err := indexer.NewIndexer(loader, splitter, indexer.NewEnricher(), batch, store)
	require.NoError(t, err)

	// Test vectors are not semantic, so retrieve the whole corpus and let
	// source extraction see every chunk.
	ret, err := retriever.NewRetriever(embedder, store, &config.RetrieverConfig{TopK: 10})
	require.NoError(t, err)
	answerer, err := qa.New(ret, &cannedChatModel{answer: testAnswer})
	require.NoError(t, err)

	mgr, err := NewManager(idx, store, answerer)
	require.NoError(t, err)
	return mgr
}

func TestManagerBuildAndStatus(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")
	mgr := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})

	status, err := mgr.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, status.Status)
	assert.Equal(t, "No index found. Constitution has not been ingested yet.", status.Message)
	assert.Zero(t, status.DocumentCount)
	assert.Equal(t, bundlePath, status.IndexPath)

	outcome, err := mgr.Build(ctx, false)
	require.NoError(t, err)
	assert.True(t, outcome.Rebuilt)
	assert.Greater(t, outcome.DocumentCount, int64(0))
	assert.Equal(t, bundlePath, outcome.IndexPath)

	status, err = mgr.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, status.Status)
	assert.Equal(t, "Index is active and ready", status.Message)
	assert.Equal(t, outcome.DocumentCount, status.DocumentCount)
	assert.NotEmpty(t, status.LastModified)
	assert.Greater(t, status.IndexSizeMB, 0.0)
}

func TestManagerBuildReusesExistingIndex(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	first := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})
	built, err := first.Build(ctx, false)
	require.NoError(t, err)

	// The second manager sees the persisted bundle and must reuse it. Its
	// embedder fails on purpose, so an accidental rebuild cannot pass.
	embedder := &vectorEmbedder{err: errors.New(errors.ErrEmbeddingService, "embedding must not run on reuse")}
	second := newTestManager(t, corpusDir, bundlePath, embedder)

	outcome, err := second.Build(ctx, false)
	require.NoError(t, err)
	assert.False(t, outcome.Rebuilt)
	assert.Equal(t, built.DocumentCount, outcome.DocumentCount)
}

func TestManagerBuildForceRebuilds(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	first := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})
	built, err := first.Build(ctx, false)
	require.NoError(t, err)

	embedder := &vectorEmbedder{}
	second := newTestManager(t, corpusDir, bundlePath, embedder)

	outcome, err := second.Build(ctx, true)
	require.NoError(t, err)
	assert.True(t, outcome.Rebuilt)
	assert.Greater(t, embedder.callCount(), 0)
	assert.Equal(t, built.DocumentCount, outcome.DocumentCount, "rebuilding the same corpus must index the same number of chunks")
}

func TestManagerBuildReplacesCorruptBundle(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	first := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})
	_, err := first.Build(ctx, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(bundlePath, []byte("not a bundle"), 0644))

	second := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})

	// The reuse path cannot load the damaged bundle, so the build falls
	// through to a full rebuild instead of failing.
	outcome, err := second.Build(ctx, false)
	require.NoError(t, err)
	assert.True(t, outcome.Rebuilt)
	assert.Greater(t, outcome.DocumentCount, int64(0))
}

func TestManagerLoadRebuildsCorruptBundle(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	first := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})
	_, err := first.Build(ctx, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(bundlePath, []byte("not a bundle"), 0644))

	embedder := &vectorEmbedder{}
	second := newTestManager(t, corpusDir, bundlePath, embedder)

	require.NoError(t, second.Load(ctx))
	assert.Greater(t, embedder.callCount(), 0)

	status, err := second.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, status.Status)
	assert.Greater(t, status.DocumentCount, int64(0))
}

func TestManagerFlushIdempotent(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")
	mgr := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})

	out, err := mgr.Flush(ctx)
	require.NoError(t, err)
	assert.False(t, out.Flushed)
	assert.Equal(t, "No index found to flush", out.Message)

	_, err = mgr.Build(ctx, false)
	require.NoError(t, err)

	out, err = mgr.Flush(ctx)
	require.NoError(t, err)
	assert.True(t, out.Flushed)
	assert.Contains(t, out.Message, bundlePath)

	status, err := mgr.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, status.Status)

	_, err = mgr.Answer(ctx, "What does Article 14 guarantee?", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrIndexNotFound))

	out, err = mgr.Flush(ctx)
	require.NoError(t, err)
	assert.False(t, out.Flushed)
	assert.Equal(t, "No index found to flush", out.Message)
}

func TestManagerStatusCountsPersistedBundle(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	first := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})
	built, err := first.Build(ctx, false)
	require.NoError(t, err)

	// A freshly started manager reports the bundle on disk without anyone
	// having asked it to load first.
	second := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})
	status, err := second.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, status.Status)
	assert.Equal(t, built.DocumentCount, status.DocumentCount)
}

func TestManagerAnswer(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")
	mgr := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})

	_, err := mgr.Build(ctx, false)
	require.NoError(t, err)

	result, err := mgr.Answer(ctx, "What does Article 14 guarantee?", nil)
	require.NoError(t, err)
	assert.Equal(t, testAnswer, result.Answer)
	require.NotNil(t, result.Sources)

	var article14 *qa.SourceReference
	for i := range result.Sources {
		if result.Sources[i].Article == "Article 14" {
			article14 = &result.Sources[i]
		}
	}
	require.NotNil(t, article14, "the indexed Article 14 chunk must be cited")
	assert.Contains(t, article14.Content, "equality before the law")
}

func TestManagerAnswerWithoutIndex(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")
	mgr := newTestManager(t, corpusDir, bundlePath, &vectorEmbedder{})

	_, err := mgr.Answer(ctx, "What does Article 14 guarantee?", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrIndexNotFound))
	assert.Contains(t, err.Error(), "build the index first")
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
}
