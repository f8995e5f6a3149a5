package services

import (
	"context"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/store"
)

// HitResult is a single ranked anchor in the search results.
// Documents are materialized by the caller from the anchor id and the request's select list.
type HitResult struct {
	ID      uint32          `json:"id"`
	Score   float32         `json:"score"`
	Explain []model.Explain `json:"explain,omitempty"` // score contributions, when requested
}

type SearchResult struct {
	Hits    []HitResult       `json:"hits"`
	Total   int               `json:"total"`           // number of hits before skip/top
	Took    int64             `json:"took"`            // milliseconds
	QueryId string            `json:"query_id"`        // unique UUID for this search query
	Terms   map[uint32]string `json:"terms,omitempty"` // term text per term id, when requested
	Select  []string          `json:"select,omitempty"`
}

// QueryParams describes a free-text query that is turned into a request tree.
type QueryParams struct {
	Query       string   `json:"query"`
	Fields      []string `json:"fields,omitempty"`               // defaults to every configured field
	Operator    string   `json:"operator,omitempty"`             // "or" (default) or "and" between query words
	Levenshtein *uint8   `json:"levenshtein_distance,omitempty"` // nil derives the distance from the word length
	StartsWith  bool     `json:"starts_with,omitempty"`
	Top         *int     `json:"top,omitempty"`
	Skip        *int     `json:"skip,omitempty"`
	Explain     bool     `json:"explain,omitempty"`
}

// MultiSearchQuery represents a request to execute multiple named requests
type MultiSearchQuery struct {
	Queries []NamedRequest `json:"queries"`
}

// NamedRequest represents a single named request within a multi-search request
type NamedRequest struct {
	Name    string        `json:"name"`
	Request model.Request `json:"request"`
}

// MultiSearchResult represents the response from a multi-search operation
type MultiSearchResult struct {
	Results          map[string]SearchResult `json:"results"`
	TotalQueries     int                     `json:"total_queries"`
	ProcessingTimeMs float64                 `json:"processing_time_ms"`
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(ctx context.Context, request model.Request) (SearchResult, error)
}

// QuerySearcher runs free-text queries through the query generator
type QuerySearcher interface {
	SearchQuery(ctx context.Context, params QueryParams) (SearchResult, error)
}

// MultiSearcher defines operations for performing multiple requests in a single call
type MultiSearcher interface {
	MultiSearch(ctx context.Context, query MultiSearchQuery) (*MultiSearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings, snapshot *store.Snapshot) error
	GetIndex(name string) (IndexAccessor, error)
	GetIndexSettings(name string) (config.IndexSettings, error)
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

type IndexAccessor interface {
	Searcher
	QuerySearcher
	MultiSearcher
	Settings() config.IndexSettings
	Stats() store.Stats
}
