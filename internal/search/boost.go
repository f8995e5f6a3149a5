package search

import (
	"context"
	"fmt"

	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/internal/boost"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/model"
)

// booster rewrites the scores of a result in place.
type booster interface {
	apply(ctx context.Context, result *model.SearchFieldResult) error
	describe() string
}

// boostStep applies one booster to the result of its input.
type boostStep struct {
	input PlanStep
	boost booster
}

func (s *boostStep) Kind() StepKind { return KindBoost }

func (s *boostStep) Inputs() []PlanStep { return []PlanStep{s.input} }

func (s *boostStep) Execute(ctx context.Context, inputs []*model.SearchFieldResult) (*model.SearchFieldResult, error) {
	result := inputs[0]
	if err := s.boost.apply(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// valueBooster combines scores with per-id values of a boost store.
type valueBooster struct {
	part       model.RequestBoostPart
	expression *boost.Expression
	reader     index.Reader
	explain    bool
}

func (b *valueBooster) describe() string { return "value:" + b.part.Path }

func (b *valueBooster) apply(_ context.Context, result *model.SearchFieldResult) error {
	values, err := b.reader.BoostValues(b.part.Path)
	if err != nil {
		return err
	}
	param := b.part.ParamOrZero()
	function := ""
	if b.part.BoostFun != nil {
		function = string(*b.part.BoostFun)
	}

	for i := range result.HitsScores {
		hit := &result.HitsScores[i]
		if boost.ShouldSkip(hit.Score, b.part.SkipWhenScore) {
			continue
		}
		value, found, err := values.Value(hit.ID)
		if err != nil {
			return err
		}
		if !found {
			continue
		}

		score := boost.Apply(b.part.BoostFun, hit.Score, value, param)
		if b.expression != nil {
			added, err := b.expression.Eval(value)
			if err != nil {
				return err
			}
			score += added
		}
		if !boost.IsFinite(score) {
			return errors.NewNonFiniteScoreError(hit.ID, score, b.describe())
		}
		hit.Score = score

		if b.explain {
			result.AddExplain(hit.ID, model.Explain{
				Kind:       model.ExplainBoost,
				Score:      score,
				Function:   function,
				BoostValue: value,
				Param:      param,
			})
		}
	}
	return nil
}

// termBooster multiplies hits by the anchor scores of a companion term query.
// The companion hits are computed once per cache key.
type termBooster struct {
	key      string
	plan     PlanStep
	executor *Executor
	cache    *boost.Cache
	explain  bool
}

func (b *termBooster) describe() string { return "term" }

func (b *termBooster) apply(ctx context.Context, result *model.SearchFieldResult) error {
	boosts, err := b.cache.GetOrCompute(b.key, func() ([]model.Hit, error) {
		companion, err := b.executor.Execute(ctx, b.plan)
		if err != nil {
			return nil, err
		}
		return sortAndDedupMax(companion.HitsScores), nil
	})
	if err != nil {
		return fmt.Errorf("term boost failed: %w", err)
	}
	return applyBoostFromIter(result, boosts, b.describe(), b.explain)
}

// applyBoostFromIter multiplies the score of every hit that also appears in boosts
// by the boost's score. Both sequences are walked in id order.
func applyBoostFromIter(result *model.SearchFieldResult, boosts []model.Hit, stage string, explain bool) error {
	result.HitsScores = sortAndDedupMax(result.HitsScores)

	pos := 0
	for i := range result.HitsScores {
		hit := &result.HitsScores[i]
		for pos < len(boosts) && boosts[pos].ID < hit.ID {
			pos++
		}
		if pos == len(boosts) {
			break
		}
		if boosts[pos].ID != hit.ID {
			continue
		}

		value := boosts[pos].Score
		score := hit.Score * value
		if !boost.IsFinite(score) {
			return errors.NewNonFiniteScoreError(hit.ID, score, stage)
		}
		hit.Score = score
		if explain {
			result.AddExplain(hit.ID, model.Explain{
				Kind:       model.ExplainBoost,
				Score:      score,
				Function:   stage,
				BoostValue: value,
			})
		}
	}
	return nil
}
