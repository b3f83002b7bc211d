package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/corpus"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/file_store"
	"github.com/conlawai/conlaw/core/vector_store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentVector derives a deterministic 3-dimensional vector from text, so
// pipeline tests run without an embedding service.
func contentVector(text string) []float32 {
	vec := make([]float32, 3)
	for i, r := range text {
		vec[i%3] += float32(r%13) / 13
	}
	return vec
}

func contentVectors(texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = contentVector(text)
	}
	return vectors, nil
}

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"PART03.txt": "PART III\nFUNDAMENTAL RIGHTS\n\nArticle 14. Equality before law. The State shall not deny to any person equality " +
			"before the law or the equal protection of the laws within the territory of India.\n\nArticle 19. Protection of certain " +
			"rights regarding freedom of speech. All citizens shall have the right to freedom of speech and expression.",
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

func newTestIndexer(t *testing.T, corpusDir, bundlePath string, embed func([]string) ([][]float32, error)) (*Indexer, vector_store.VectorStore) {
	t.Helper()
	ctx := context.Background()

	fileStore, err := file_store.NewLocalStore(corpusDir)
	require.NoError(t, err)
	loader, err := corpus.NewLoader(ctx, fileStore)
	require.NoError(t, err)
	splitter, err := NewSplitter(ctx, 200, 40)
	require.NoError(t, err)
	embedder, err := NewBatchEmbedder(&stubEmbedder{embed: embed}, 3, 2, 2)
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

	indexer, err := NewIndexer(loader, splitter, NewEnricher(), embedder, store)
	require.NoError(t, err)
	return indexer, store
}

func TestIndexerBuild(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	indexer, store := newTestIndexer(t, corpusDir, bundlePath, contentVectors)

	result, err := indexer.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SourceFiles)
	assert.Greater(t, result.DocumentCount, 3, "every source file splits into at least one chunk")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(result.DocumentCount), count)

	// The bundle must be durable on disk after a build.
	info, err := os.Stat(bundlePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// The enriched chunk must come back out of the store with its
	// metadata intact.
	docs, err := store.Search(ctx, contentVector("Article 14. Equality before law."), 10)
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	found := false
	for _, doc := range docs {
		if doc.MetaData["article_number"] == "14" {
			found = true
			assert.Equal(t, "Fundamental Rights", doc.MetaData["section_type"])
		}
	}
	assert.True(t, found, "the Article 14 chunk must be retrievable")
}

func TestIndexerBuildReplacesPreviousIndex(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	indexer, store := newTestIndexer(t, corpusDir, bundlePath, contentVectors)

	first, err := indexer.Build(ctx)
	require.NoError(t, err)

	second, err := indexer.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.DocumentCount, second.DocumentCount)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(second.DocumentCount), count, "a rebuild replaces chunks instead of appending")
}

func TestIndexerFailedEmbeddingKeepsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	corpusDir := writeTestCorpus(t)
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	indexer, _ := newTestIndexer(t, corpusDir, bundlePath, contentVectors)
	result, err := indexer.Build(ctx)
	require.NoError(t, err)

	failing, _ := newTestIndexer(t, corpusDir, bundlePath, func(texts []string) ([][]float32, error) {
		return nil, errors.New(errors.ErrEmbeddingService, "service unavailable")
	})
	_, err = failing.Build(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEmbeddingService))

	// The first build's bundle is still on disk and still loadable.
	_, fresh := newTestIndexer(t, corpusDir, bundlePath, contentVectors)
	require.NoError(t, fresh.Load(ctx))
	count, err := fresh.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(result.DocumentCount), count)
}

func TestIndexerBuildEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	bundlePath := filepath.Join(t.TempDir(), "constitution.bundle")

	indexer, _ := newTestIndexer(t, t.TempDir(), bundlePath, contentVectors)

	_, err := indexer.Build(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSourceNotFound))
}

func TestNewIndexerValidation(t *testing.T) {
	_, err := NewIndexer(nil, nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
}
