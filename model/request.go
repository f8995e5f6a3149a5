package model

// Request is the query expression: either a single field search or a boolean node of sub-requests.
// Exactly one of Search, Or and And is expected to be set.
type Request struct {
	Search *RequestSearchPart `json:"search,omitempty"`
	Or     []Request          `json:"or,omitempty"`
	And    []Request          `json:"and,omitempty"`

	Boost     []RequestBoostPart  `json:"boost,omitempty"`      // value boosts attached to this node
	BoostTerm []RequestSearchPart `json:"boost_term,omitempty"` // term boosts attached to this node
	Filter    *Request            `json:"filter,omitempty"`     // restricts hits to ids matched by the filter

	// Top-level controls. Only read on the root request.
	Top          *int     `json:"top,omitempty"`
	Skip         *int     `json:"skip,omitempty"`
	Explain      bool     `json:"explain,omitempty"`
	Select       []string `json:"select,omitempty"`        // forwarded to the document loader
	TextLocality bool     `json:"text_locality,omitempty"` // boost anchors where terms share a text
}

// RequestSearchPart describes a single field search.
type RequestSearchPart struct {
	Path                 string   `json:"path"`
	Terms                []string `json:"terms"`
	Levenshtein          *uint8   `json:"levenshtein_distance,omitempty"` // nil derives the distance from the term length
	StartsWith           bool     `json:"starts_with,omitempty"`
	IgnoreCase           *bool    `json:"ignore_case,omitempty"` // default true
	Boost                *float32 `json:"boost,omitempty"`       // static multiplier for every hit of this field
	Top                  *int     `json:"top,omitempty"`         // bounds the matcher's candidate buffer with Skip
	Skip                 *int     `json:"skip,omitempty"`
	ReturnTerms          bool     `json:"return_terms,omitempty"`
	ReturnTermsLowerCase bool     `json:"return_terms_lower_case,omitempty"`
	Explain              bool     `json:"explain,omitempty"`
}

// Term returns the first term of the part, or "" if there is none.
func (p RequestSearchPart) Term() string {
	if len(p.Terms) == 0 {
		return ""
	}
	return p.Terms[0]
}

// IsIgnoreCase reports whether matching should ignore case (default true).
func (p RequestSearchPart) IsIgnoreCase() bool {
	return p.IgnoreCase == nil || *p.IgnoreCase
}

// ResultLimit returns top+skip when a bound was declared.
func (p RequestSearchPart) ResultLimit() (int, bool) {
	if p.Top == nil {
		return 0, false
	}
	limit := *p.Top
	if p.Skip != nil {
		limit += *p.Skip
	}
	return limit, true
}

// BoostFunction names how a stored boost value is combined with a score
type BoostFunction string

const (
	BoostLog10    BoostFunction = "Log10"
	BoostLog2     BoostFunction = "Log2"
	BoostMultiply BoostFunction = "Multiply"
	BoostAdd      BoostFunction = "Add"
	BoostReplace  BoostFunction = "Replace"
)

// IsValid reports whether f is one of the known boost functions
func (f BoostFunction) IsValid() bool {
	switch f {
	case BoostLog10, BoostLog2, BoostMultiply, BoostAdd, BoostReplace:
		return true
	}
	return false
}

// RequestBoostPart rewrites scores using a per-id value store.
type RequestBoostPart struct {
	Path          string         `json:"path"`                      // boost value store path
	BoostFun      *BoostFunction `json:"boost_fun,omitempty"`       // nil leaves the score unchanged before the expression
	Param         *float32       `json:"param,omitempty"`           // added to the boost value, default 0
	SkipWhenScore []float32      `json:"skip_when_score,omitempty"` // scores (within 1e-5) that are never boosted
	Expression    string         `json:"expression,omitempty"`      // added to the score, $SCORE is the boost value
}

// ParamOrZero returns the configured param, or 0.
func (b RequestBoostPart) ParamOrZero() float32 {
	if b.Param == nil {
		return 0
	}
	return *b.Param
}
