package search

import (
	"context"
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/model"
)

// anchorJoinStep resolves hits one join level up the chain of a field.
type anchorJoinStep struct {
	input  PlanStep
	level  config.JoinLevel
	reader index.Reader

	// captureTextIDs records the ids reached by this level per term, for text locality
	captureTextIDs bool
}

func (s *anchorJoinStep) Kind() StepKind { return KindAnchorJoin }

func (s *anchorJoinStep) Inputs() []PlanStep { return []PlanStep{s.input} }

func (s *anchorJoinStep) Execute(_ context.Context, inputs []*model.SearchFieldResult) (*model.SearchFieldResult, error) {
	result := inputs[0]
	// Identity levels share their id space with the target
	if !s.level.Identity {
		edges, err := s.reader.Edges(s.level.Name)
		if err != nil {
			return nil, err
		}
		if err := resolve(result, s.level.Name, edges); err != nil {
			return nil, err
		}
	}
	if s.captureTextIDs {
		recordTextIDs(result)
	}
	return result, nil
}

// joined is a parent hit emitted from a child.
type joined struct {
	parent uint32
	score  float32
	weight float32
	child  uint32
}

// resolve replaces the hits of result with their parents at one join level. Each parent
// scores score*weight/255, and a parent reached through several children keeps its
// maximum score.
func resolve(result *model.SearchFieldResult, levelName string, edges index.EdgeIndex) error {
	if len(result.HitsScores) > 0 {
		emitted := make([]joined, 0, len(result.HitsScores))
		for _, hit := range result.HitsScores {
			parents, err := edges.Parents(hit.ID)
			if err != nil {
				return err
			}
			for _, edge := range parents {
				emitted = append(emitted, joined{
					parent: edge.ParentID,
					score:  hit.Score * edge.Fraction(),
					weight: edge.Fraction(),
					child:  hit.ID,
				})
			}
		}

		sort.Slice(emitted, func(i, j int) bool {
			a, b := emitted[i], emitted[j]
			if a.parent != b.parent {
				return a.parent < b.parent
			}
			if a.score != b.score {
				return a.score > b.score
			}
			return a.child < b.child
		})

		hits := make([]model.Hit, 0, len(emitted))
		var explain map[uint32][]model.Explain
		if result.Explain != nil {
			explain = make(map[uint32][]model.Explain)
		}
		for i, e := range emitted {
			if i > 0 && emitted[i-1].parent == e.parent {
				continue
			}
			hits = append(hits, model.Hit{ID: e.parent, Score: e.score})
			if explain != nil {
				child := result.Explain[e.child]
				entries := make([]model.Explain, 0, len(child)+1)
				entries = append(entries, child...)
				entries = append(entries, model.Explain{
					Kind:   model.ExplainAnchorJoin,
					Score:  e.score,
					Level:  levelName,
					Weight: e.weight,
				})
				explain[e.parent] = entries
			}
		}
		result.HitsScores = hits
		result.Explain = explain
	}

	if len(result.HitsIDs) > 0 {
		parents := roaring.New()
		for _, id := range result.HitsIDs {
			edgeList, err := edges.Parents(id)
			if err != nil {
				return err
			}
			for _, edge := range edgeList {
				parents.Add(edge.ParentID)
			}
		}
		result.HitsIDs = parents.ToArray()
	}
	return nil
}

// recordTextIDs stores the ids currently hit under the originating field and term.
func recordTextIDs(result *model.SearchFieldResult) {
	ids := make([]uint32, 0, len(result.HitsScores))
	for _, hit := range result.HitsScores {
		ids = append(ids, hit.ID)
	}
	if result.TermIDHitsInField == nil {
		result.TermIDHitsInField = make(map[string]map[string][]uint32)
	}
	path := result.Request.Path
	if result.TermIDHitsInField[path] == nil {
		result.TermIDHitsInField[path] = make(map[string][]uint32)
	}
	result.TermIDHitsInField[path][result.Request.Term()] = ids
}
