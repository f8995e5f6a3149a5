package search

import (
	"container/heap"
	"context"
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/PSeitz/veloci-sub001/model"
)

// unionStep merges the results of an OR node.
type unionStep struct {
	inputs []PlanStep
}

func (s *unionStep) Kind() StepKind { return KindUnion }

func (s *unionStep) Inputs() []PlanStep { return s.inputs }

func (s *unionStep) Execute(_ context.Context, inputs []*model.SearchFieldResult) (*model.SearchFieldResult, error) {
	return union(inputs), nil
}

// mergeCursor walks the sorted hits of one input.
type mergeCursor struct {
	input int
	pos   int
	hits  []model.Hit
}

func (c *mergeCursor) current() model.Hit { return c.hits[c.pos] }

// cursorHeap orders cursors by their current id, then by input position.
type cursorHeap []*mergeCursor

func (h cursorHeap) Len() int { return len(h) }
func (h cursorHeap) Less(i, j int) bool {
	a, b := h[i].current().ID, h[j].current().ID
	if a != b {
		return a < b
	}
	return h[i].input < h[j].input
}
func (h cursorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(x interface{}) { *h = append(*h, x.(*mergeCursor)) }
func (h *cursorHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// termMax is the best score one distinct (field, term) pair gave an id.
type termMax struct {
	key   string
	score float32
}

// union combines OR branches. For every id, each distinct originating (field, term)
// contributes its maximum score; the sum of these maxima is multiplied by the square
// of their count, so agreement between more terms is rewarded super-linearly.
func union(inputs []*model.SearchFieldResult) *model.SearchFieldResult {
	switch len(inputs) {
	case 0:
		return model.NewSearchFieldResult(model.RequestSearchPart{})
	case 1:
		return inputs[0]
	}

	result := model.NewSearchFieldResult(inputs[0].Request)
	keys := make([]string, len(inputs))
	withExplain := false

	h := make(cursorHeap, 0, len(inputs))
	for i, input := range inputs {
		keys[i] = input.TermKey()
		input.HitsScores = sortAndDedupMax(input.HitsScores)
		if len(input.HitsScores) > 0 {
			h = append(h, &mergeCursor{input: i, hits: input.HitsScores})
		}
		if input.Explain != nil {
			withExplain = true
		}
	}
	heap.Init(&h)

	maxima := make([]termMax, 0, len(inputs))
	for h.Len() > 0 {
		id := h[0].current().ID
		maxima = maxima[:0]

		for h.Len() > 0 && h[0].current().ID == id {
			cursor := h[0]
			hit := cursor.current()
			maxima = addTermMax(maxima, keys[cursor.input], hit.Score)
			if withExplain {
				if entries, ok := inputs[cursor.input].Explain[id]; ok {
					result.AddExplain(id, entries...)
				}
			}

			cursor.pos++
			if cursor.pos < len(cursor.hits) {
				heap.Fix(&h, 0)
			} else {
				heap.Pop(&h)
			}
		}

		var sum float32
		for _, m := range maxima {
			sum += m.score
		}
		k := float32(len(maxima))
		score := sum * k * k
		result.HitsScores = append(result.HitsScores, model.Hit{ID: id, Score: score})
		if withExplain {
			result.AddExplain(id, model.Explain{
				Kind:          model.ExplainOrSum,
				Score:         score,
				DistinctTerms: len(maxima),
				ScoresSum:     sum,
			})
		}
	}

	ids := roaring.New()
	for _, input := range inputs {
		ids.AddMany(input.HitsIDs)
	}
	result.HitsIDs = ids.ToArray()

	for _, input := range inputs {
		mergeAuxiliary(result, input)
	}
	return result
}

func addTermMax(maxima []termMax, key string, score float32) []termMax {
	for i := range maxima {
		if maxima[i].key == key {
			if score > maxima[i].score {
				maxima[i].score = score
			}
			return maxima
		}
	}
	return append(maxima, termMax{key: key, score: score})
}

// sortAndDedupMax sorts hits by id and keeps the maximum score of repeated ids.
// Already sorted, duplicate free input is returned as is.
func sortAndDedupMax(hits []model.Hit) []model.Hit {
	if isSortedUnique(hits) {
		return hits
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	out := hits[:0]
	for _, hit := range hits {
		if n := len(out); n > 0 && out[n-1].ID == hit.ID {
			if hit.Score > out[n-1].Score {
				out[n-1].Score = hit.Score
			}
			continue
		}
		out = append(out, hit)
	}
	return out
}

func isSortedUnique(hits []model.Hit) bool {
	for i := 1; i < len(hits); i++ {
		if hits[i-1].ID >= hits[i].ID {
			return false
		}
	}
	return true
}

// sortUniqueIDs sorts ids and drops repeats.
func sortUniqueIDs(ids []uint32) []uint32 {
	if len(ids) == 0 {
		return ids
	}
	return roaring.BitmapOf(ids...).ToArray()
}

// mergeAuxiliary copies term texts and text-locality tracking of src into dst.
func mergeAuxiliary(dst, src *model.SearchFieldResult) {
	if dst == src {
		return
	}
	if len(src.Terms) > 0 {
		if dst.Terms == nil {
			dst.Terms = make(map[uint32]string, len(src.Terms))
		}
		for id, term := range src.Terms {
			dst.Terms[id] = term
		}
	}
	if len(src.TermIDHitsInField) > 0 {
		if dst.TermIDHitsInField == nil {
			dst.TermIDHitsInField = make(map[string]map[string][]uint32, len(src.TermIDHitsInField))
		}
		for path, byTerm := range src.TermIDHitsInField {
			if dst.TermIDHitsInField[path] == nil {
				dst.TermIDHitsInField[path] = make(map[string][]uint32, len(byTerm))
			}
			for term, ids := range byTerm {
				existing := dst.TermIDHitsInField[path][term]
				if existing == nil {
					dst.TermIDHitsInField[path][term] = ids
					continue
				}
				merged := roaring.BitmapOf(existing...)
				merged.AddMany(ids)
				dst.TermIDHitsInField[path][term] = merged.ToArray()
			}
		}
	}
}
