package engine

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/internal/search"
	"github.com/PSeitz/veloci-sub001/services"
)

var _ services.IndexManager = (*Engine)(nil)

// Engine manages multiple search indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*IndexInstance
	dataDir string

	// executor is shared by every index so that the worker bound is process wide
	executor       *search.Executor
	boostCacheSize int
}

// NewEngine creates a new search engine orchestrator and loads the indexes persisted in cfg.DataDir.
func NewEngine(cfg config.EngineConfig) *Engine {
	cfg.ApplyDefaults()
	eng := &Engine{
		indexes:        make(map[string]*IndexInstance),
		dataDir:        cfg.DataDir,
		executor:       search.NewExecutor(cfg.Workers),
		boostCacheSize: cfg.BoostCacheSize,
	}
	eng.loadIndexesFromDisk()
	slog.Info("search engine ready", "data_dir", cfg.DataDir, "workers", cfg.Workers, "indexes", len(eng.indexes))
	return eng
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, errors.NewIndexNotFoundError(name)
	}
	return instance.Settings(), nil
}

// ListIndexes returns the names of all loaded indexes in alphabetical order.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
