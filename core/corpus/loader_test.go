package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/errors"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoaderLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeCorpusFile(t, dir, "PART03.txt", "PART III\nFUNDAMENTAL RIGHTS\n\n12. In this Part, unless the context otherwise requires...")
	writeCorpusFile(t, dir, "SCHEDULE01.txt", "FIRST SCHEDULE\n\nI. THE STATES")
	writeCorpusFile(t, dir, "Preamble.txt", "WE, THE PEOPLE OF INDIA, having solemnly resolved...")
	writeCorpusFile(t, dir, "notes.md", "scratch notes")
	writeCorpusFile(t, dir, "README.txt", "not part of the corpus")

	loader, err := NewLoader(ctx, newFetcherTestStore(t, dir))
	require.NoError(t, err)

	docs, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	byName := make(map[string]*schema.Document, len(docs))
	for _, doc := range docs {
		name, _ := doc.MetaData[common.MetaSectionName].(string)
		byName[name] = doc
	}

	part := byName["PART03"]
	require.NotNil(t, part)
	assert.Equal(t, common.SectionTypePart, part.MetaData[common.MetaSectionType])
	assert.Equal(t, filepath.Join(dir, "PART03.txt"), part.MetaData[common.MetaSource])
	assert.Contains(t, part.Content, "FUNDAMENTAL RIGHTS")

	preamble := byName["Preamble"]
	require.NotNil(t, preamble)
	assert.Equal(t, common.SectionTypePreamble, preamble.MetaData[common.MetaSectionType])
	assert.Contains(t, preamble.Content, "WE, THE PEOPLE OF INDIA")

	schedule := byName["SCHEDULE01"]
	require.NotNil(t, schedule)
	assert.Equal(t, common.SectionTypeSchedule, schedule.MetaData[common.MetaSectionType])
}

func TestLoaderEmptyCorpus(t *testing.T) {
	ctx := context.Background()

	loader, err := NewLoader(ctx, newFetcherTestStore(t, t.TempDir()))
	require.NoError(t, err)

	docs, err := loader.Load(ctx)
	assert.Nil(t, docs)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSourceNotFound))
	assert.Contains(t, err.Error(), "download the corpus first")
}

func TestNewLoaderNilStore(t *testing.T) {
	loader, err := NewLoader(context.Background(), nil)
	assert.Nil(t, loader)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidParameter))
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		sectionType string
		recognized  bool
	}{
		{"numbered part", "PART01.txt", common.SectionTypePart, true},
		{"lettered part", "PART04A.txt", common.SectionTypePart, true},
		{"schedule", "SCHEDULE12.txt", common.SectionTypeSchedule, true},
		{"preamble", "Preamble.txt", common.SectionTypePreamble, true},
		{"wrong extension", "PART01.md", "", false},
		{"unrelated text file", "README.txt", "", false},
		{"lowercase preamble", "preamble.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sectionType, ok := classifyFile(tt.fileName)
			assert.Equal(t, tt.recognized, ok)
			assert.Equal(t, tt.sectionType, sectionType)
		})
	}
}
