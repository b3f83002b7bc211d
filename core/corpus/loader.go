package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/file_store"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Loader reads the downloaded constitution files and attaches section
// metadata. Reading goes through the eino file loader; with the rustfs store
// the objects are synced into the local corpus directory first.
type Loader struct {
	store      file_store.Store
	fileLoader document.Loader
}

// NewLoader creates a corpus loader over the given store.
func NewLoader(ctx context.Context, store file_store.Store) (*Loader, error) {
	if store == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "corpus store is nil")
	}

	fldr, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: false,
		Parser:      parser.TextParser{},
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrOperationFailed, "failed to create file loader: %v", err)
	}

	return &Loader{store: store, fileLoader: fldr}, nil
}

// Load reads every recognized corpus file into one document each. Files that
// are not part of the constitution layout are skipped. Zero loadable files is
// reported as a missing corpus so the caller can trigger a download.
func (l *Loader) Load(ctx context.Context) ([]*schema.Document, error) {
	dir, err := l.store.Sync(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceNotFound, "corpus directory %s does not exist, download the corpus first", dir)
		}
		return nil, errors.Newf(errors.ErrOperationFailed, "failed to read corpus directory %s: %v", dir, err)
	}

	var docs []*schema.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		sectionType, ok := classifyFile(entry.Name())
		if !ok {
			g.Log().Debugf(ctx, "Skipping unrecognized corpus file: %s", entry.Name())
			continue
		}

		path := filepath.Join(dir, entry.Name())
		loaded, err := l.fileLoader.Load(ctx, document.Source{URI: path})
		if err != nil {
			return nil, errors.Newf(errors.ErrOperationFailed, "failed to load corpus file %s: %v", path, err)
		}

		sectionName := strings.TrimSuffix(entry.Name(), ".txt")
		for _, doc := range loaded {
			if doc.MetaData == nil {
				doc.MetaData = make(map[string]interface{})
			}
			doc.MetaData[common.MetaSource] = path
			doc.MetaData[common.MetaSectionType] = sectionType
			doc.MetaData[common.MetaSectionName] = sectionName
			docs = append(docs, doc)
		}
		g.Log().Debugf(ctx, "Loaded %s (%s)", sectionName, sectionType)
	}

	if len(docs) == 0 {
		return nil, errors.Newf(errors.ErrSourceNotFound, "no constitution source files found in %s, download the corpus first", dir)
	}

	g.Log().Infof(ctx, "Loaded %d constitution documents from %s", len(docs), dir)
	return docs, nil
}

func classifyFile(name string) (string, bool) {
	if !strings.HasSuffix(name, ".txt") {
		return "", false
	}
	switch {
	case name == SentinelFile:
		return common.SectionTypePreamble, true
	case strings.HasPrefix(name, "PART"):
		return common.SectionTypePart, true
	case strings.HasPrefix(name, "SCHEDULE"):
		return common.SectionTypeSchedule, true
	default:
		return "", false
	}
}
