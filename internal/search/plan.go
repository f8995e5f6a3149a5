package search

import (
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/PSeitz/veloci-sub001/model"
)

// StepKind identifies the variant of a plan step.
type StepKind string

const (
	KindFieldSearch StepKind = "field_search"
	KindAnchorJoin  StepKind = "anchor_join"
	KindBoost       StepKind = "boost"
	KindUnion       StepKind = "union"
	KindIntersect   StepKind = "intersect"
	KindGroup       StepKind = "group"
)

// PlanStep is one node of an execution plan. A step receives the results of its
// inputs, in the order Inputs returns them, and produces exactly one result.
// Steps hold immutable parameters only; a plan may be executed once per query.
type PlanStep interface {
	Kind() StepKind
	Inputs() []PlanStep
	Execute(ctx context.Context, inputs []*model.SearchFieldResult) (*model.SearchFieldResult, error)
}

// groupStep owns a sub-tree and forwards its result. With a filter input, only hits
// whose id the filter matched are kept.
type groupStep struct {
	input  PlanStep
	filter PlanStep
}

func (g *groupStep) Kind() StepKind { return KindGroup }

func (g *groupStep) Inputs() []PlanStep {
	if g.filter == nil {
		return []PlanStep{g.input}
	}
	return []PlanStep{g.input, g.filter}
}

func (g *groupStep) Execute(_ context.Context, inputs []*model.SearchFieldResult) (*model.SearchFieldResult, error) {
	result := inputs[0]
	if g.filter == nil {
		return result, nil
	}

	allowed := roaring.BitmapOf(inputs[1].HitsIDs...)
	kept := result.HitsScores[:0]
	for _, hit := range result.HitsScores {
		if allowed.Contains(hit.ID) {
			kept = append(kept, hit)
		} else if result.Explain != nil {
			delete(result.Explain, hit.ID)
		}
	}
	result.HitsScores = kept

	if len(result.HitsIDs) > 0 {
		ids := roaring.BitmapOf(result.HitsIDs...)
		ids.And(allowed)
		result.HitsIDs = ids.ToArray()
	}
	return result, nil
}

// countSteps returns the number of steps of a plan, by kind.
func countSteps(root PlanStep) map[StepKind]int {
	counts := make(map[StepKind]int)
	var walk func(PlanStep)
	walk = func(step PlanStep) {
		counts[step.Kind()]++
		for _, input := range step.Inputs() {
			walk(input)
		}
	}
	walk(root)
	return counts
}
