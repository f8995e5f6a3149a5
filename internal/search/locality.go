package search

import (
	"context"
	"sort"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/model"
)

// localityBooster rewards anchors where several distinct query terms hit the same text.
// A text hit by n >= 2 terms boosts its anchors by 2*n*n; an anchor keeps the largest
// boost over its texts and fields.
type localityBooster struct {
	// remaining join levels from the text id space of each field up to the anchors
	levels  map[string][]config.JoinLevel
	reader  index.Reader
	explain bool
}

func (b *localityBooster) describe() string { return "text_locality" }

func (b *localityBooster) apply(_ context.Context, result *model.SearchFieldResult) error {
	var perField [][]model.Hit
	for path, byTerm := range result.TermIDHitsInField {
		levels, ok := b.levels[path]
		if !ok || len(byTerm) < 2 {
			continue
		}
		boosts, err := b.fieldBoosts(byTerm, levels)
		if err != nil {
			return err
		}
		if len(boosts) > 0 {
			perField = append(perField, boosts)
		}
	}
	if len(perField) == 0 {
		return nil
	}
	return applyBoostFromIter(result, mergeMax(perField), b.describe(), b.explain)
}

// fieldBoosts counts the distinct terms per text id and resolves the boosted texts to anchors.
func (b *localityBooster) fieldBoosts(byTerm map[string][]uint32, levels []config.JoinLevel) ([]model.Hit, error) {
	counts := make(map[uint32]int)
	for _, ids := range byTerm {
		for _, id := range ids {
			counts[id]++
		}
	}

	hits := make([]model.Hit, 0)
	for id, n := range counts {
		if n < 2 {
			continue
		}
		hits = append(hits, model.Hit{ID: id, Score: float32(2 * n * n)})
	}
	if len(hits) == 0 {
		return nil, nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })

	for _, level := range levels {
		if level.Identity {
			continue
		}
		edges, err := b.reader.Edges(level.Name)
		if err != nil {
			return nil, err
		}
		hits, err = fanOutMax(hits, edges)
		if err != nil {
			return nil, err
		}
	}
	return hits, nil
}

// fanOutMax moves boosts to the parents of their ids, unweighted, keeping the maximum per parent.
func fanOutMax(hits []model.Hit, edges index.EdgeIndex) ([]model.Hit, error) {
	parents := make([]model.Hit, 0, len(hits))
	for _, hit := range hits {
		edgeList, err := edges.Parents(hit.ID)
		if err != nil {
			return nil, err
		}
		for _, edge := range edgeList {
			parents = append(parents, model.Hit{ID: edge.ParentID, Score: hit.Score})
		}
	}
	return sortAndDedupMax(parents), nil
}

// mergeMax merges hit lists, keeping the maximum score per id.
func mergeMax(lists [][]model.Hit) []model.Hit {
	if len(lists) == 1 {
		return lists[0]
	}
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	merged := make([]model.Hit, 0, total)
	for _, list := range lists {
		merged = append(merged, list...)
	}
	return sortAndDedupMax(merged)
}
