package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/indexer"
	"github.com/conlawai/conlaw/core/vector_store"
	"github.com/conlawai/conlaw/internal/logic/qa"
	"github.com/conlawai/conlaw/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Index states reported by Status.
const (
	StatusNotFound       = "not_found"
	StatusActive         = "active"
	StatusExistsButEmpty = "exists_but_empty"
)

// BuildOutcome reports one Build call. Rebuilt is false when an existing
// index was reused instead of rebuilt.
type BuildOutcome struct {
	DocumentCount int64
	IndexPath     string
	Rebuilt       bool
}

// FlushOutcome reports one Flush call. Flushing an absent index succeeds
// with Flushed false.
type FlushOutcome struct {
	Flushed bool
	Message string
}

// IndexStatus is the read-only state report for the persisted index.
type IndexStatus struct {
	Status        string
	Message       string
	DocumentCount int64
	IndexPath     string
	LastModified  string
	IndexSizeMB   float64
}

// Manager owns the vector store handle and serializes every mutation of the
// index. Build and Flush hold the writer lock; Answer and Status run under
// the reader lock, so concurrent questions are safe but a rebuild never swaps
// the index out underneath one.
type Manager struct {
	mu      sync.RWMutex
	indexer *indexer.Indexer
	store   vector_store.VectorStore
	qa      *qa.QA
	loaded  bool
}

// NewManager wires the lifecycle manager.
func NewManager(idx *indexer.Indexer, store vector_store.VectorStore, answerer *qa.QA) (*Manager, error) {
	if idx == nil || store == nil || answerer == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "lifecycle manager requires indexer, store and qa service")
	}
	return &Manager{
		indexer: idx,
		store:   store,
		qa:      answerer,
	}, nil
}

// Build creates the index from the corpus. When an index already exists and
// force is false, it is loaded and reused; an existing index that fails to
// load is rebuilt from source. Everything runs under the writer lock, so no
// question ever sees a half-built index.
func (m *Manager) Build(ctx context.Context, force bool) (*BuildOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !force {
		exists, err := m.store.Exists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			outcome, err := m.reuseLocked(ctx)
			if err == nil {
				return outcome, nil
			}
			if !errors.IsCode(err, errors.ErrIndexCorrupt) {
				return nil, err
			}
			g.Log().Warningf(ctx, "Existing index failed to load, rebuilding from source: %v", err)
		}
	}

	result, err := m.indexer.Build(ctx)
	if err != nil {
		return nil, err
	}
	m.loaded = true
	return &BuildOutcome{
		DocumentCount: int64(result.DocumentCount),
		IndexPath:     result.IndexPath,
		Rebuilt:       true,
	}, nil
}

// reuseLocked loads the existing index if needed and reports its size.
func (m *Manager) reuseLocked(ctx context.Context) (*BuildOutcome, error) {
	if !m.loaded {
		if err := m.store.Load(ctx); err != nil {
			return nil, err
		}
		m.loaded = true
	}
	count, err := m.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := m.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "Index already exists with %d chunks, reusing it", count)
	return &BuildOutcome{
		DocumentCount: count,
		IndexPath:     stats.Location,
		Rebuilt:       false,
	}, nil
}

// Load brings the persisted index into memory for serving. A missing index
// surfaces as IndexNotFound so the caller can tell the client to build
// first; a corrupt index is rebuilt from source after a warning.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if loaded {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return nil
	}

	err := m.store.Load(ctx)
	if err == nil {
		m.loaded = true
		return nil
	}
	if errors.IsCode(err, errors.ErrIndexNotFound) {
		return errors.New(errors.ErrIndexNotFound, "no index found, build the index first")
	}
	if !errors.IsCode(err, errors.ErrIndexCorrupt) {
		return err
	}

	g.Log().Warningf(ctx, "Persisted index failed to load, rebuilding from source: %v", err)
	result, buildErr := m.indexer.Build(ctx)
	if buildErr != nil {
		return buildErr
	}
	m.loaded = true
	g.Log().Infof(ctx, "Rebuilt corrupt index with %d chunks", result.DocumentCount)
	return nil
}

// Answer serves one question against the loaded index.
func (m *Manager) Answer(ctx context.Context, question string, history []schema.Message) (*qa.AnswerResult, error) {
	if err := m.Load(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.qa.Answer(ctx, question, history)
}

// Flush deletes every persisted index artifact. Flushing when no index
// exists is not an error.
func (m *Manager) Flush(ctx context.Context) (*FlushOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &FlushOutcome{Flushed: false, Message: "No index found to flush"}, nil
	}

	stats, err := m.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.store.Flush(ctx); err != nil {
		return nil, err
	}
	m.loaded = false
	g.Log().Infof(ctx, "Index flushed: %s", stats.Location)
	return &FlushOutcome{
		Flushed: true,
		Message: fmt.Sprintf("Index flushed successfully: %s", stats.Location),
	}, nil
}

// Status reports the persisted index state without changing it. A bundle
// sitting on disk that is not in memory yet is counted through a best effort
// load; when that load fails the report still shows what is on disk.
func (m *Manager) Status(ctx context.Context) (*IndexStatus, error) {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if !loaded {
		m.tryLoad(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if !stats.Exists {
		return &IndexStatus{
			Status:    StatusNotFound,
			Message:   "No index found. Constitution has not been ingested yet.",
			IndexPath: stats.Location,
		}, nil
	}

	status := &IndexStatus{
		Status:        StatusActive,
		Message:       "Index is active and ready",
		DocumentCount: stats.Count,
		IndexPath:     stats.Location,
		IndexSizeMB:   float64(stats.SizeBytes) / (1024 * 1024),
	}
	if !stats.LastModified.IsZero() {
		status.LastModified = stats.LastModified.Format(time.RFC3339)
	}
	if stats.Count == 0 {
		status.Status = StatusExistsButEmpty
		status.Message = "Index exists but may be empty or corrupted"
	}
	return status, nil
}

func (m *Manager) tryLoad(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return
	}
	if err := m.store.Load(ctx); err != nil {
		g.Log().Debugf(ctx, "index not loadable for status: %v", err)
		return
	}
	m.loaded = true
}
