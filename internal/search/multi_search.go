package search

import (
	"context"
	"fmt"
	"time"

	"github.com/PSeitz/veloci-sub001/services"
)

// MultiSearch executes multiple named requests in parallel
func (s *Service) MultiSearch(ctx context.Context, multiQuery services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	startTime := time.Now()

	if len(multiQuery.Queries) == 0 {
		return nil, fmt.Errorf("at least one query is required")
	}

	seen := make(map[string]struct{}, len(multiQuery.Queries))
	for _, named := range multiQuery.Queries {
		if named.Name == "" {
			return nil, fmt.Errorf("each query must have a non-empty name")
		}
		if _, exists := seen[named.Name]; exists {
			return nil, fmt.Errorf("duplicate query name '%s'", named.Name)
		}
		seen[named.Name] = struct{}{}
	}

	type queryResult struct {
		name   string
		result services.SearchResult
		err    error
	}

	resultChan := make(chan queryResult, len(multiQuery.Queries))

	for _, named := range multiQuery.Queries {
		go func(nq services.NamedRequest) {
			result, err := s.Search(ctx, nq.Request)
			resultChan <- queryResult{name: nq.Name, result: result, err: err}
		}(named)
	}

	results := make(map[string]services.SearchResult)
	for i := 0; i < len(multiQuery.Queries); i++ {
		select {
		case qr := <-resultChan:
			if qr.err != nil {
				return nil, fmt.Errorf("error executing query '%s': %w", qr.name, qr.err)
			}
			results[qr.name] = qr.result
		case <-ctx.Done():
			return nil, fmt.Errorf("multi-search cancelled: %w", ctx.Err())
		}
	}

	processingTime := time.Since(startTime)

	return &services.MultiSearchResult{
		Results:          results,
		TotalQueries:     len(multiQuery.Queries),
		ProcessingTimeMs: float64(processingTime.Nanoseconds()) / 1e6,
	}, nil
}
