package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/internal/boost"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/services"
)

// Service implements the search logic for a single index.
// It fulfills the services.Searcher interface.
type Service struct {
	reader   index.Reader
	settings *config.IndexSettings
	executor *Executor
	planner  *Planner
}

// NewService creates a new search Service. The executor may be shared between indexes;
// the cache holds term-boost results of this index only.
func NewService(reader index.Reader, settings *config.IndexSettings, executor *Executor, cache *boost.Cache) (*Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("index reader cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if executor == nil {
		executor = NewExecutor(0)
	}
	if cache == nil {
		cache = boost.NewCache(boost.DefaultCacheSize)
	}

	return &Service{
		reader:   reader,
		settings: settings,
		executor: executor,
		planner:  NewPlanner(reader, settings, executor, cache),
	}, nil
}

const defaultTop = 10

// Execute builds and runs the plan of request and returns the unranked result.
func (s *Service) Execute(ctx context.Context, request model.Request) (*model.SearchFieldResult, error) {
	plan, err := s.planner.Build(request)
	if err != nil {
		return nil, err
	}
	return s.executor.Execute(ctx, plan)
}

// Search runs request and returns its hits ranked by descending score.
// Equal scores are ordered by ascending id.
func (s *Service) Search(ctx context.Context, request model.Request) (services.SearchResult, error) {
	startTime := time.Now()
	queryID := uuid.New().String()

	result, err := s.Execute(ctx, request)
	if err != nil {
		slog.Debug("search failed", "index", s.settings.Name, "query_id", queryID, "error", err)
		return services.SearchResult{}, err
	}

	hits := result.HitsScores
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	total := len(hits)
	skip := 0
	if request.Skip != nil {
		skip = *request.Skip
	}
	top := defaultTop
	if request.Top != nil {
		top = *request.Top
	}
	if skip > total {
		skip = total
	}
	end := skip + top
	if end > total {
		end = total
	}

	hitResults := make([]services.HitResult, 0, end-skip)
	for _, hit := range hits[skip:end] {
		hitResult := services.HitResult{ID: hit.ID, Score: hit.Score}
		if request.Explain {
			hitResult.Explain = result.Explain[hit.ID]
		}
		hitResults = append(hitResults, hitResult)
	}

	took := time.Since(startTime)
	slog.Debug("search completed",
		"index", s.settings.Name,
		"query_id", queryID,
		"total", total,
		"took", took)

	return services.SearchResult{
		Hits:    hitResults,
		Total:   total,
		Took:    took.Milliseconds(),
		QueryId: queryID,
		Terms:   result.Terms,
		Select:  request.Select,
	}, nil
}

// SearchQuery turns a free-text query into a request tree and runs it.
func (s *Service) SearchQuery(ctx context.Context, params services.QueryParams) (services.SearchResult, error) {
	request, err := GenerateRequest(s.settings, params)
	if err != nil {
		return services.SearchResult{}, err
	}
	return s.Search(ctx, request)
}
