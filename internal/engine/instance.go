package engine

import (
	"context"
	"fmt"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/boost"
	"github.com/PSeitz/veloci-sub001/internal/search"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/services"
	"github.com/PSeitz/veloci-sub001/store"
)

var _ services.IndexAccessor = (*IndexInstance)(nil)

// IndexInstance holds all components and services for a single search index.
// It implements the services.IndexAccessor interface.
type IndexInstance struct {
	settings *config.IndexSettings
	store    *store.MemoryStore
	cache    *boost.Cache
	searcher *search.Service
}

// NewIndexInstance validates settings and wires the store, the term-boost cache and
// the search service of one index.
func NewIndexInstance(settings config.IndexSettings, snapshot *store.Snapshot, executor *search.Executor, boostCacheSize int) (*IndexInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("index name cannot be empty in settings")
	}
	settings.ApplyDefaults()
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return nil, fmt.Errorf("invalid settings for index '%s': %v", settings.Name, conflicts)
	}

	ms, err := store.NewMemoryStore(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to load index data: %w", err)
	}

	cache := boost.NewCache(boostCacheSize)
	searchService, err := search.NewService(ms, &settings, executor, cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &IndexInstance{
		settings: &settings,
		store:    ms,
		cache:    cache,
		searcher: searchService,
	}, nil
}

// Search delegates to the underlying Searcher service.
// This satisfies a part of the services.IndexAccessor interface.
func (i *IndexInstance) Search(ctx context.Context, request model.Request) (services.SearchResult, error) {
	return i.searcher.Search(ctx, request)
}

// SearchQuery delegates to the underlying Searcher service.
func (i *IndexInstance) SearchQuery(ctx context.Context, params services.QueryParams) (services.SearchResult, error) {
	return i.searcher.SearchQuery(ctx, params)
}

// MultiSearch delegates to the underlying Searcher service.
func (i *IndexInstance) MultiSearch(ctx context.Context, query services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	return i.searcher.MultiSearch(ctx, query)
}

// Settings returns the configuration settings for this index.
// This satisfies a part of the services.IndexAccessor interface.
func (i *IndexInstance) Settings() config.IndexSettings {
	return *i.settings
}

// Stats returns the size of the index structures.
func (i *IndexInstance) Stats() store.Stats {
	return i.store.Stats()
}
