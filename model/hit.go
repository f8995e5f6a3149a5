package model

// Hit is the atomic unit of a ranked result.
// ID is a dictionary-local term id at leaf level, or an anchor id once resolved.
type Hit struct {
	ID    uint32  `json:"id"`
	Score float32 `json:"score"`
}

// ExplainKind identifies the kind of a score contribution record
type ExplainKind string

const (
	ExplainLevenshtein ExplainKind = "levenshtein" // score from the fuzzy term match
	ExplainFieldBoost  ExplainKind = "field_boost" // static per-field weight
	ExplainAnchorJoin  ExplainKind = "anchor_join" // multiplied by the stored edge weight
	ExplainBoost       ExplainKind = "boost"       // value/term/locality boost applied
	ExplainOrSum       ExplainKind = "or_sum"      // distinct-term sum and bonus of a union
	ExplainAndSum      ExplainKind = "and_sum"     // summed scores of an intersection
)

// Explain records one score contribution. Only the fields relevant to Kind are set.
// Explain entries are informational and never influence ranking.
type Explain struct {
	Kind          ExplainKind `json:"kind"`
	Score         float32     `json:"score"`                    // score after this contribution
	Term          string      `json:"term,omitempty"`           // matched dictionary term (levenshtein)
	TermID        uint32      `json:"term_id,omitempty"`        // dictionary id of the matched term
	Distance      uint8       `json:"distance,omitempty"`       // edit distance of the match
	PrefixMatch   bool        `json:"prefix_match,omitempty"`   // the term starts with the query term
	Level         string      `json:"level,omitempty"`          // join level name (anchor_join)
	Weight        float32     `json:"weight,omitempty"`         // edge weight fraction (anchor_join) or field boost
	Function      string      `json:"function,omitempty"`       // boost function name
	BoostValue    float32     `json:"boost_value,omitempty"`    // stored boost value
	Param         float32     `json:"param,omitempty"`          // boost function parameter
	DistinctTerms int         `json:"distinct_terms,omitempty"` // number of distinct terms (or_sum)
	ScoresSum     float32     `json:"scores_sum,omitempty"`     // sum of the per-term maxima (or_sum, and_sum)
}

// SearchFieldResult is the unit of exchange between plan steps.
type SearchFieldResult struct {
	HitsScores []Hit    `json:"hits_scores"` // scored hits
	HitsIDs    []uint32 `json:"hits_ids"`    // unscored ids (filters)

	// Terms maps a dictionary id to its term text when the request asked for terms.
	Terms map[uint32]string `json:"terms,omitempty"`

	// TermIDHitsInField records, per field path and query term, the text ids hit at the
	// first join level. It feeds text-locality boosting.
	TermIDHitsInField map[string]map[string][]uint32 `json:"-"`

	Explain map[uint32][]Explain `json:"explain,omitempty"`

	// Request is the originating request fragment. Combinators propagate their first input's.
	Request RequestSearchPart `json:"-"`
}

// NewSearchFieldResult creates an empty result bound to its originating request fragment.
func NewSearchFieldResult(request RequestSearchPart) *SearchFieldResult {
	return &SearchFieldResult{
		HitsScores: []Hit{},
		HitsIDs:    []uint32{},
		Request:    request,
	}
}

// AddExplain appends explain entries for id, allocating the map lazily.
func (r *SearchFieldResult) AddExplain(id uint32, entries ...Explain) {
	if r.Explain == nil {
		r.Explain = make(map[uint32][]Explain)
	}
	r.Explain[id] = append(r.Explain[id], entries...)
}

// TermKey identifies the originating (field, term) pair of a result.
func (r *SearchFieldResult) TermKey() string {
	return r.Request.Path + "\x00" + r.Request.Term()
}
