package search

import (
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/PSeitz/veloci-sub001/model"
)

// intersectStep keeps the ids every branch of an AND node hit.
type intersectStep struct {
	inputs []PlanStep
}

func (s *intersectStep) Kind() StepKind { return KindIntersect }

func (s *intersectStep) Inputs() []PlanStep { return s.inputs }

func (s *intersectStep) Execute(_ context.Context, inputs []*model.SearchFieldResult) (*model.SearchFieldResult, error) {
	return intersect(inputs), nil
}

// intersect merge-joins the inputs, driven by the shortest one. Surviving ids score
// the sum of their scores across all inputs.
func intersect(inputs []*model.SearchFieldResult) *model.SearchFieldResult {
	switch len(inputs) {
	case 0:
		return model.NewSearchFieldResult(model.RequestSearchPart{})
	case 1:
		return inputs[0]
	}

	driver := 0
	withExplain := false
	for i, input := range inputs {
		input.HitsScores = sortAndDedupMax(input.HitsScores)
		if len(input.HitsScores) < len(inputs[driver].HitsScores) {
			driver = i
		}
		if input.Explain != nil {
			withExplain = true
		}
	}

	result := model.NewSearchFieldResult(inputs[0].Request)
	cursors := make([]int, len(inputs))

	for _, hit := range inputs[driver].HitsScores {
		score := hit.Score
		matched := true
		for i, input := range inputs {
			if i == driver {
				continue
			}
			others := input.HitsScores
			pos := cursors[i]
			for pos < len(others) && others[pos].ID < hit.ID {
				pos++
			}
			cursors[i] = pos
			if pos == len(others) || others[pos].ID != hit.ID {
				matched = false
				break
			}
			score += others[pos].Score
		}
		if !matched {
			continue
		}

		result.HitsScores = append(result.HitsScores, model.Hit{ID: hit.ID, Score: score})
		if withExplain {
			for _, input := range inputs {
				if entries, ok := input.Explain[hit.ID]; ok {
					result.AddExplain(hit.ID, entries...)
				}
			}
			result.AddExplain(hit.ID, model.Explain{Kind: model.ExplainAndSum, Score: score, ScoresSum: score})
		}
	}

	var ids *roaring.Bitmap
	for _, input := range inputs {
		bm := roaring.BitmapOf(input.HitsIDs...)
		if ids == nil {
			ids = bm
		} else {
			ids.And(bm)
		}
	}
	result.HitsIDs = ids.ToArray()

	for _, input := range inputs {
		mergeAuxiliary(result, input)
	}
	return result
}
