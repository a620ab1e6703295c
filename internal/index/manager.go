package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"wastebot/internal/domain"
)

// Manager owns the live index. Readers search through an atomic pointer
// so a rebuild swaps the whole index in one step without blocking
// in-flight queries.
type Manager struct {
	indexer *Indexer
	source  string
	logger  *zap.Logger

	active atomic.Pointer[Index]
	mu     sync.Mutex // serializes rebuilds
}

// NewManager creates a manager for the given knowledge base directory.
func NewManager(indexer *Indexer, sourceDir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{indexer: indexer, source: sourceDir, logger: logger}
}

// Init loads the persisted index, building from the knowledge base when
// no usable index exists yet.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ix, err := m.indexer.Load()
	if errors.Is(err, domain.ErrIndexNotFound) {
		m.logger.Info("no usable index found, building from knowledge base")
		ix, err = m.indexer.Build(ctx, m.source)
	}
	if err != nil {
		return err
	}
	m.active.Store(ix)
	return nil
}

// Rebuild re-indexes the knowledge base and swaps the live index.
// Queries keep hitting the previous index until the swap.
func (m *Manager) Rebuild(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ix, err := m.indexer.Build(ctx, m.source)
	if err != nil {
		return 0, err
	}
	m.active.Store(ix)
	return ix.Len(), nil
}

// Search queries the live index. Before Init completes it returns no
// results rather than an error.
func (m *Manager) Search(query string, k int) ([]domain.SearchResult, error) {
	ix := m.active.Load()
	if ix == nil {
		return nil, nil
	}
	return ix.Search(query, k)
}

// Len returns the number of chunks in the live index.
func (m *Manager) Len() int {
	ix := m.active.Load()
	if ix == nil {
		return 0
	}
	return ix.Len()
}
