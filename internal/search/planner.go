package search

import (
	"encoding/json"
	"strings"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/internal/boost"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/internal/typoutil"
	"github.com/PSeitz/veloci-sub001/model"
)

// Planner compiles request trees into plans over one index.
type Planner struct {
	reader   index.Reader
	settings *config.IndexSettings
	automata *typoutil.AutomatonBuilder
	executor *Executor
	cache    *boost.Cache
}

// NewPlanner creates a planner. The executor and cache serve term boosts.
func NewPlanner(reader index.Reader, settings *config.IndexSettings, executor *Executor, cache *boost.Cache) *Planner {
	return &Planner{
		reader:   reader,
		settings: settings,
		automata: typoutil.NewAutomatonBuilder(settings.MaxDistance()),
		executor: executor,
		cache:    cache,
	}
}

type buildOptions struct {
	idsOnly  bool // unscored, for filters
	explain  bool
	locality bool // capture text ids for text locality boosting
}

// Build validates request and compiles it into a plan.
func (p *Planner) Build(request model.Request) (PlanStep, error) {
	if err := ValidateRequest(request, p.settings); err != nil {
		return nil, err
	}

	opts := buildOptions{explain: request.Explain, locality: request.TextLocality}
	root, err := p.buildNode(request, opts)
	if err != nil {
		return nil, err
	}

	if request.TextLocality {
		root = &boostStep{
			input: root,
			boost: &localityBooster{
				levels:  p.localityLevels(request),
				reader:  p.reader,
				explain: request.Explain,
			},
		}
	}
	return root, nil
}

func (p *Planner) buildNode(node model.Request, opts buildOptions) (PlanStep, error) {
	var step PlanStep
	var err error

	switch {
	case node.Search != nil:
		step, err = p.buildSearch(*node.Search, node.Boost, opts)
		if err != nil {
			return nil, err
		}
	default:
		children := node.Or
		if len(children) == 0 {
			children = node.And
		}
		inputs := make([]PlanStep, 0, len(children))
		for _, child := range children {
			input, err := p.buildNode(child, opts)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, input)
		}
		if len(node.Or) > 0 {
			step = &unionStep{inputs: inputs}
		} else {
			step = &intersectStep{inputs: inputs}
		}
		if !opts.idsOnly {
			for _, part := range node.Boost {
				if step, err = p.valueBoost(step, part, opts); err != nil {
					return nil, err
				}
			}
		}
	}

	if !opts.idsOnly {
		for _, part := range node.BoostTerm {
			if step, err = p.termBoost(step, part, opts); err != nil {
				return nil, err
			}
		}
	}

	if node.Filter != nil {
		filter, err := p.buildNode(*node.Filter, buildOptions{idsOnly: true})
		if err != nil {
			return nil, err
		}
		step = &groupStep{input: step, filter: filter}
	}
	return step, nil
}

// buildSearch emits one chain per term, combined under a union.
func (p *Planner) buildSearch(part model.RequestSearchPart, boosts []model.RequestBoostPart, opts buildOptions) (PlanStep, error) {
	if len(part.Terms) == 1 {
		return p.buildChain(part, boosts, opts)
	}
	inputs := make([]PlanStep, 0, len(part.Terms))
	for _, term := range part.Terms {
		single := part
		single.Terms = []string{term}
		chain, err := p.buildChain(single, boosts, opts)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, chain)
	}
	return &unionStep{inputs: inputs}, nil
}

// buildChain emits the field search of a single term followed by one join per level.
// Boosts are applied at the first level whose id space they belong to. A boost whose path
// is the field path itself holds values per dictionary term and is applied before any join.
func (p *Planner) buildChain(part model.RequestSearchPart, boosts []model.RequestBoostPart, opts buildOptions) (PlanStep, error) {
	term := part.Term()
	if part.IsIgnoreCase() {
		term = strings.ToLower(term)
	}
	part.Terms = []string{term}
	if opts.explain {
		part.Explain = true
	}

	distance := p.settings.DistanceForTerm(term)
	if part.Levenshtein != nil {
		distance = *part.Levenshtein
	}

	var step PlanStep = &fieldSearchStep{
		part:     part,
		distance: distance,
		idsOnly:  opts.idsOnly,
		reader:   p.reader,
		automata: p.automata,
	}

	var pending []model.RequestBoostPart
	if !opts.idsOnly {
		pending = append(pending, boosts...)
	}

	step, pending, err := p.applyBoosts(step, pending, opts, func(path string) bool {
		return path == part.Path
	})
	if err != nil {
		return nil, err
	}

	levels, _ := p.settings.JoinLevels(part.Path)
	for i, level := range levels {
		step = &anchorJoinStep{
			input:          step,
			level:          level,
			reader:         p.reader,
			captureTextIDs: opts.locality && !opts.idsOnly && i == 0 && len(levels) >= 2,
		}
		step, pending, err = p.applyBoosts(step, pending, opts, func(path string) bool {
			return boostTargets(path, level.Target)
		})
		if err != nil {
			return nil, err
		}
	}

	step, _, err = p.applyBoosts(step, pending, opts, func(string) bool { return true })
	return step, err
}

// applyBoosts wraps step in the pending boosts whose path matches and returns the rest.
func (p *Planner) applyBoosts(step PlanStep, pending []model.RequestBoostPart, opts buildOptions, matches func(path string) bool) (PlanStep, []model.RequestBoostPart, error) {
	var remaining []model.RequestBoostPart
	for _, boostPart := range pending {
		if !matches(boostPart.Path) {
			remaining = append(remaining, boostPart)
			continue
		}
		var err error
		if step, err = p.valueBoost(step, boostPart, opts); err != nil {
			return nil, nil, err
		}
	}
	return step, remaining, nil
}

// boostTargets reports whether a boost path lives in the id space reached by a level.
func boostTargets(boostPath, target string) bool {
	return target == "" || boostPath == target || strings.HasPrefix(boostPath, target+".")
}

func (p *Planner) valueBoost(input PlanStep, part model.RequestBoostPart, opts buildOptions) (PlanStep, error) {
	booster := &valueBooster{part: part, reader: p.reader, explain: opts.explain}
	if part.Expression != "" {
		expression, err := boost.CompileExpression(part.Expression)
		if err != nil {
			return nil, errors.NewValidationError("boost.expression", err.Error())
		}
		booster.expression = expression
	}
	return &boostStep{input: input, boost: booster}, nil
}

func (p *Planner) termBoost(input PlanStep, part model.RequestSearchPart, opts buildOptions) (PlanStep, error) {
	companion, err := p.buildNode(model.Request{Search: &part}, buildOptions{})
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(part)
	if err != nil {
		return nil, err
	}
	return &boostStep{
		input: input,
		boost: &termBooster{
			key:      string(key),
			plan:     companion,
			executor: p.executor,
			cache:    p.cache,
			explain:  opts.explain,
		},
	}, nil
}

// localityLevels returns, per searched field with a text level, the levels above it.
func (p *Planner) localityLevels(request model.Request) map[string][]config.JoinLevel {
	levels := make(map[string][]config.JoinLevel)
	var walk func(model.Request)
	walk = func(node model.Request) {
		if node.Search != nil {
			if chain, ok := p.settings.JoinLevels(node.Search.Path); ok && len(chain) >= 2 {
				levels[node.Search.Path] = chain[1:]
			}
		}
		for _, child := range node.Or {
			walk(child)
		}
		for _, child := range node.And {
			walk(child)
		}
	}
	walk(request)
	return levels
}
