package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/store"
)

// CreateIndex creates a new index from settings and already built index data, and persists it.
func (e *Engine) CreateIndex(settings config.IndexSettings, snapshot *store.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if settings.Name == "" {
		return errors.NewValidationError("name", "index name cannot be empty")
	}
	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}
	if snapshot == nil {
		snapshot = store.NewSnapshot()
	}

	instance, err := NewIndexInstance(settings, snapshot, e.executor, e.boostCacheSize)
	if err != nil {
		return errors.NewValidationError("settings", err.Error())
	}

	if err := e.persistIndexUnsafe(settings.Name, instance); err != nil {
		return fmt.Errorf("failed to persist new index '%s': %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	stats := instance.Stats()
	slog.Info("index created", "index", settings.Name, "fields", stats.Fields, "terms", stats.Terms)
	return nil
}

// DeleteIndex deletes an index and its data from disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return errors.NewIndexNotFoundError(name)
	}

	delete(e.indexes, name)

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to remove index directory %s: %w", indexPath, err)
	}

	slog.Info("index deleted", "index", name)
	return nil
}
