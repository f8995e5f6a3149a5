package typoutil

import (
	"sync"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"

	"github.com/PSeitz/veloci-sub001/internal/errors"
)

// maxTermLength bounds the terms an automaton is built for; distances are bytes.
const maxTermLength = 254

// AutomatonBuilder builds Levenshtein automata for query terms. The parametric
// builder for a distance is costly to create and is shared across queries.
type AutomatonBuilder struct {
	maxDistance uint8

	mu       sync.RWMutex
	builders map[uint8]*levenshtein.LevenshteinAutomatonBuilder
}

// NewAutomatonBuilder creates a builder that refuses distances above maxDistance.
func NewAutomatonBuilder(maxDistance uint8) *AutomatonBuilder {
	return &AutomatonBuilder{
		maxDistance: maxDistance,
		builders:    make(map[uint8]*levenshtein.LevenshteinAutomatonBuilder),
	}
}

// Build returns an automaton accepting every term within distance of term.
// With prefix set, any term extending an accepted prefix is accepted too.
// Construction cost depends on the term length and distance only.
func (ab *AutomatonBuilder) Build(term string, distance uint8, prefix bool) (vellum.Automaton, error) {
	if distance > ab.maxDistance || len(term) > maxTermLength {
		return nil, errors.NewAutomatonTooLargeError(term, distance, nil)
	}

	var aut vellum.Automaton
	if distance == 0 {
		aut = &exactMatch{term: []byte(term)}
	} else {
		lb, err := ab.builder(distance)
		if err != nil {
			return nil, errors.NewAutomatonTooLargeError(term, distance, err)
		}
		dfa, err := lb.BuildDfa(term, distance)
		if err != nil {
			return nil, errors.NewAutomatonTooLargeError(term, distance, err)
		}
		aut = dfa
	}

	if prefix {
		return StartsWith(aut), nil
	}
	return aut, nil
}

func (ab *AutomatonBuilder) builder(distance uint8) (*levenshtein.LevenshteinAutomatonBuilder, error) {
	ab.mu.RLock()
	lb, exists := ab.builders[distance]
	ab.mu.RUnlock()
	if exists {
		return lb, nil
	}

	ab.mu.Lock()
	defer ab.mu.Unlock()
	if lb, exists := ab.builders[distance]; exists {
		return lb, nil
	}
	lb, err := levenshtein.NewLevenshteinAutomatonBuilder(distance, false)
	if err != nil {
		return nil, err
	}
	ab.builders[distance] = lb
	return lb, nil
}

// startsWith accepts every input that has a prefix accepted by the inner automaton.
// State 0 is the terminal "prefix accepted" state; inner state s is mapped to s+1.
type startsWith struct {
	inner vellum.Automaton
}

// StartsWith composes aut with a starts-with closure.
func StartsWith(aut vellum.Automaton) vellum.Automaton {
	return &startsWith{inner: aut}
}

func (s *startsWith) Start() int {
	return s.inner.Start() + 1
}

func (s *startsWith) IsMatch(state int) bool {
	return state == 0 || s.inner.IsMatch(state-1)
}

func (s *startsWith) CanMatch(state int) bool {
	return state == 0 || s.inner.CanMatch(state-1)
}

func (s *startsWith) WillAlwaysMatch(state int) bool {
	return state == 0 || s.inner.IsMatch(state-1) || s.inner.WillAlwaysMatch(state-1)
}

func (s *startsWith) Accept(state int, b byte) int {
	if state == 0 || s.inner.IsMatch(state-1) {
		return 0
	}
	return s.inner.Accept(state-1, b) + 1
}

// exactMatch accepts a single input. State 0 is dead; state i+1 has consumed i bytes.
type exactMatch struct {
	term []byte
}

func (e *exactMatch) Start() int {
	return 1
}

func (e *exactMatch) IsMatch(state int) bool {
	return state == len(e.term)+1
}

func (e *exactMatch) CanMatch(state int) bool {
	return state != 0
}

func (e *exactMatch) WillAlwaysMatch(int) bool {
	return false
}

func (e *exactMatch) Accept(state int, b byte) int {
	if state == 0 || state > len(e.term) || e.term[state-1] != b {
		return 0
	}
	return state + 1
}
