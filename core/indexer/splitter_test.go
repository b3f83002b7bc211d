package indexer

import (
	"context"
	"strings"
	"testing"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/errors"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitterValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewSplitter(ctx, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))

	_, err = NewSplitter(ctx, 100, 100)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))

	_, err = NewSplitter(ctx, 100, -1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
}

func TestSplitterSplitsLongDocument(t *testing.T) {
	ctx := context.Background()
	splitter, err := NewSplitter(ctx, 120, 20)
	require.NoError(t, err)

	paragraph := "Equality before law. The State shall not deny to any person equality before the law within the territory of India."
	content := strings.Join([]string{paragraph, paragraph, paragraph, paragraph}, "\n\n")

	docs := []*schema.Document{
		{
			ID:      "PART03",
			Content: content,
			MetaData: map[string]interface{}{
				common.MetaSource:      "/corpus/PART03.txt",
				common.MetaSectionType: common.SectionTypePart,
			},
		},
	}

	chunks, err := splitter.Transform(ctx, docs)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1, "a document four times the chunk size must split")

	seenIds := make(map[string]bool)
	for i, chunk := range chunks {
		assert.NotEmpty(t, chunk.Content)
		assert.LessOrEqual(t, len(chunk.Content), 120, "chunks must respect the configured size")
		assert.Equal(t, i, chunk.MetaData[common.MetaChunkId])
		assert.Equal(t, "/corpus/PART03.txt", chunk.MetaData[common.MetaSource])
		assert.Equal(t, common.SectionTypePart, chunk.MetaData[common.MetaSectionType])
		assert.NotEqual(t, "PART03", chunk.ID, "chunks must not inherit the parent document id")
		assert.False(t, seenIds[chunk.ID], "chunk ids must be unique")
		seenIds[chunk.ID] = true
	}
}

func TestSplitterChunkIdsSpanDocuments(t *testing.T) {
	ctx := context.Background()
	splitter, err := NewSplitter(ctx, 500, 0)
	require.NoError(t, err)

	docs := []*schema.Document{
		{ID: "PART01", Content: "The Union and its territory.", MetaData: map[string]interface{}{}},
		{ID: "PART02", Content: "Citizenship at the commencement of the Constitution.", MetaData: map[string]interface{}{}},
	}

	chunks, err := splitter.Transform(ctx, docs)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Chunk ids number the whole run, not each document.
	assert.Equal(t, 0, chunks[0].MetaData[common.MetaChunkId])
	assert.Equal(t, 1, chunks[1].MetaData[common.MetaChunkId])
}

func TestSplitterMetadataNotShared(t *testing.T) {
	ctx := context.Background()
	splitter, err := NewSplitter(ctx, 60, 10)
	require.NoError(t, err)

	parentMeta := map[string]interface{}{common.MetaSource: "/corpus/PART04.txt"}
	docs := []*schema.Document{
		{
			ID:       "PART04",
			Content:  "Directive principles of state policy.\n\nThe State shall strive to promote the welfare of the people.\n\nThe State shall secure a social order for the promotion of welfare.",
			MetaData: parentMeta,
		},
	}

	chunks, err := splitter.Transform(ctx, docs)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	chunks[0].MetaData[common.MetaArticleNumber] = "38"
	for _, chunk := range chunks[1:] {
		assert.NotContains(t, chunk.MetaData, common.MetaArticleNumber,
			"writing one chunk's metadata must not leak into its siblings")
	}
	assert.NotContains(t, parentMeta, common.MetaChunkId,
		"the parent document's metadata must stay untouched")
}

func TestSplitterDeterministic(t *testing.T) {
	ctx := context.Background()
	splitter, err := NewSplitter(ctx, 150, 30)
	require.NoError(t, err)

	newDocs := func() []*schema.Document {
		paragraph := "Protection of life and personal liberty. No person shall be deprived of his life or personal liberty except according to procedure established by law."
		return []*schema.Document{
			{
				ID:       "PART03",
				Content:  strings.Join([]string{paragraph, paragraph, paragraph}, "\n\n"),
				MetaData: map[string]interface{}{common.MetaSource: "/corpus/PART03.txt"},
			},
		}
	}

	first, err := splitter.Transform(ctx, newDocs())
	require.NoError(t, err)
	second, err := splitter.Transform(ctx, newDocs())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second), "identical input must split identically")
	for i := range first {
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].MetaData[common.MetaChunkId], second[i].MetaData[common.MetaChunkId])
	}
}

func TestSplitterDropsEmptyDocument(t *testing.T) {
	ctx := context.Background()
	splitter, err := NewSplitter(ctx, 100, 20)
	require.NoError(t, err)

	chunks, err := splitter.Transform(ctx, []*schema.Document{
		{ID: "empty", Content: "", MetaData: map[string]interface{}{}},
	})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
