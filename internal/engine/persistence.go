package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/PSeitz/veloci-sub001/config"
	engineerrors "github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/internal/persistence"
	"github.com/PSeitz/veloci-sub001/store"
)

const (
	dataDirPerm  = 0755
	settingsFile = "settings.gob"
	snapshotFile = "snapshot.gob"
)

// loadIndexesFromDisk loads all indexes from the data directory.
// Indexes that cannot be loaded are skipped with a warning.
func (e *Engine) loadIndexesFromDisk() {
	slog.Info("loading indexes from disk", "data_dir", e.dataDir)

	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		slog.Warn("could not create data directory, new indexes will not be persisted", "data_dir", e.dataDir, "error", err)
	}

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		slog.Warn("failed to read data directory, no indexes loaded", "data_dir", e.dataDir, "error", err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		instance, err := e.loadIndex(indexName)
		if err != nil {
			slog.Warn("skipping index", "index", indexName, "error", err)
			continue
		}
		e.indexes[indexName] = instance
		slog.Info("index loaded", "index", indexName)
	}
}

func (e *Engine) loadIndex(indexName string) (*IndexInstance, error) {
	indexPath := filepath.Join(e.dataDir, indexName)

	var settings config.IndexSettings
	if err := persistence.LoadGob(filepath.Join(indexPath, settingsFile), &settings); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.Name != indexName {
		return nil, fmt.Errorf("index name in settings ('%s') does not match directory name", settings.Name)
	}

	snapshot := store.NewSnapshot()
	err := persistence.LoadGob(filepath.Join(indexPath, snapshotFile), snapshot)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Info("snapshot not found, starting empty", "index", indexName)
		snapshot = store.NewSnapshot()
	case err != nil:
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return NewIndexInstance(settings, snapshot, e.executor, e.boostCacheSize)
}

// PersistIndexData persists the data for a specific index to disk.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[indexName]
	if !exists {
		return engineerrors.NewIndexNotFoundError(indexName)
	}
	return e.persistIndexUnsafe(indexName, instance)
}

// persistIndexUnsafe persists an index instance to disk.
// This method assumes the caller has appropriate locking.
func (e *Engine) persistIndexUnsafe(name string, instance *IndexInstance) error {
	indexPath := filepath.Join(e.dataDir, name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", name, err)
	}

	if err := persistence.SaveGob(filepath.Join(indexPath, settingsFile), instance.Settings()); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, snapshotFile), instance.store.Snapshot()); err != nil {
		return fmt.Errorf("failed to save snapshot for index %s: %w", name, err)
	}
	return nil
}
