package search

import (
	"container/heap"
	"context"
	"sort"
	"strings"

	"github.com/blevesearch/vellum"

	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/internal/typoutil"
	"github.com/PSeitz/veloci-sub001/model"
)

// fieldSearchStep is the leaf of every chain: it streams the dictionary of a field
// through a Levenshtein automaton and scores each accepted term.
type fieldSearchStep struct {
	part     model.RequestSearchPart
	distance uint8
	idsOnly  bool
	reader   index.Reader
	automata *typoutil.AutomatonBuilder
}

func (s *fieldSearchStep) Kind() StepKind { return KindFieldSearch }

func (s *fieldSearchStep) Inputs() []PlanStep { return nil }

func (s *fieldSearchStep) Execute(_ context.Context, _ []*model.SearchFieldResult) (*model.SearchFieldResult, error) {
	dict, err := s.reader.Dictionary(s.part.Path)
	if err != nil {
		return nil, err
	}
	return matchField(dict, s.automata, s.part, s.distance, s.idsOnly)
}

// candidate is a scored dictionary entry.
type candidate struct {
	hit      model.Hit
	term     string
	distance uint8
	prefix   bool
}

// candidateHeap is a min-heap on score; the root is the worst kept candidate.
// Among equal scores the higher id is considered worse.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].hit.Score != h[j].hit.Score {
		return h[i].hit.Score < h[j].hit.Score
	}
	return h[i].hit.ID > h[j].hit.ID
}
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// collector gathers candidates, keeping only the best limit of them when bounded.
type collector struct {
	limit   int
	bounded bool
	all     []candidate
	best    candidateHeap
}

func (c *collector) add(cand candidate) {
	if !c.bounded {
		c.all = append(c.all, cand)
		return
	}
	if c.limit <= 0 {
		return
	}
	if len(c.best) < c.limit {
		heap.Push(&c.best, cand)
		return
	}
	// Only candidates strictly better than the current worst can enter
	if cand.hit.Score > c.best[0].hit.Score {
		c.best[0] = cand
		heap.Fix(&c.best, 0)
	}
}

func (c *collector) candidates() []candidate {
	if c.bounded {
		return c.best
	}
	return c.all
}

// streamTerms feeds the dictionary entries accepted by aut into fn. Exact lookups
// go straight to the dictionary instead of walking the automaton.
func streamTerms(dict *index.Dictionary, aut vellum.Automaton, term string, exact bool, fn func(text string, id uint32) bool) error {
	if !exact {
		return dict.Search(aut, fn)
	}
	id, found, err := dict.Get(term)
	if err != nil || !found {
		return err
	}
	fn(term, id)
	return nil
}

// matchField runs the fuzzy dictionary search of a single-term part.
func matchField(dict *index.Dictionary, automata *typoutil.AutomatonBuilder, part model.RequestSearchPart, distance uint8, idsOnly bool) (*model.SearchFieldResult, error) {
	term := part.Term()
	ignoreCase := part.IsIgnoreCase()
	if ignoreCase {
		term = strings.ToLower(term)
	}

	aut, err := automata.Build(term, distance, part.StartsWith)
	if err != nil {
		return nil, err
	}

	result := model.NewSearchFieldResult(part)

	// distance 0 without prefix matching accepts the term itself only
	exact := distance == 0 && !part.StartsWith

	if idsOnly {
		err = streamTerms(dict, aut, term, exact, func(_ string, id uint32) bool {
			result.HitsIDs = append(result.HitsIDs, id)
			return true
		})
		if err != nil {
			return nil, err
		}
		result.HitsIDs = sortUniqueIDs(result.HitsIDs)
		return result, nil
	}

	limit, bounded := part.ResultLimit()
	col := &collector{limit: limit, bounded: bounded}

	err = streamTerms(dict, aut, term, exact, func(text string, id uint32) bool {
		compared := text
		if ignoreCase {
			compared = strings.ToLower(text)
		}
		d := typoutil.Distance(term, compared)
		prefix := strings.HasPrefix(compared, term)
		col.add(candidate{
			hit:      model.Hit{ID: id, Score: typoutil.Score(d, prefix)},
			term:     text,
			distance: d,
			prefix:   prefix,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	cands := col.candidates()
	sort.Slice(cands, func(i, j int) bool { return cands[i].hit.ID < cands[j].hit.ID })

	fieldBoost := float32(1)
	if part.Boost != nil {
		fieldBoost = *part.Boost
	}

	result.HitsScores = make([]model.Hit, 0, len(cands))
	for _, cand := range cands {
		hit := cand.hit
		if part.Explain {
			result.AddExplain(hit.ID, model.Explain{
				Kind:        model.ExplainLevenshtein,
				Score:       hit.Score,
				Term:        cand.term,
				TermID:      hit.ID,
				Distance:    cand.distance,
				PrefixMatch: cand.prefix,
			})
		}
		if part.Boost != nil {
			hit.Score *= fieldBoost
			if part.Explain {
				result.AddExplain(hit.ID, model.Explain{Kind: model.ExplainFieldBoost, Score: hit.Score, Weight: fieldBoost})
			}
		}
		result.HitsScores = append(result.HitsScores, hit)

		if part.ReturnTerms || part.ReturnTermsLowerCase {
			if result.Terms == nil {
				result.Terms = make(map[uint32]string, len(cands))
			}
			text := cand.term
			if part.ReturnTermsLowerCase {
				text = strings.ToLower(text)
			}
			result.Terms[hit.ID] = text
		}
	}
	return result, nil
}
