// Package store provides the in-memory implementation of the index read interfaces.
package store

import (
	"fmt"

	"github.com/PSeitz/veloci-sub001/index"
	"github.com/PSeitz/veloci-sub001/internal/errors"
)

// Snapshot is the serializable content of an index: per field path a term dictionary,
// per join level the parent edges of every child id, and per boost path the stored values.
type Snapshot struct {
	Dictionaries map[string]map[string]uint32       `json:"dictionaries"`
	Edges        map[string]map[uint32][]index.Edge `json:"edges"`
	Boosts       map[string]map[uint32]float32      `json:"boosts"`
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Dictionaries: make(map[string]map[string]uint32),
		Edges:        make(map[string]map[uint32][]index.Edge),
		Boosts:       make(map[string]map[uint32]float32),
	}
}

// AddTerm registers term with id in the dictionary of path.
func (s *Snapshot) AddTerm(path, term string, id uint32) {
	terms, exists := s.Dictionaries[path]
	if !exists {
		terms = make(map[string]uint32)
		s.Dictionaries[path] = terms
	}
	terms[term] = id
}

// AddEdge records parent as a parent of child at level.
func (s *Snapshot) AddEdge(level string, child, parent uint32, weight uint8) {
	edges, exists := s.Edges[level]
	if !exists {
		edges = make(map[uint32][]index.Edge)
		s.Edges[level] = edges
	}
	edges[child] = append(edges[child], index.Edge{ParentID: parent, Weight: weight})
}

// SetBoost stores value for id in the boost values of path.
func (s *Snapshot) SetBoost(path string, id uint32, value float32) {
	values, exists := s.Boosts[path]
	if !exists {
		values = make(map[uint32]float32)
		s.Boosts[path] = values
	}
	values[id] = value
}

// Stats summarizes the size of a store.
type Stats struct {
	Fields     int `json:"fields"`
	Terms      int `json:"terms"`
	JoinLevels int `json:"join_levels"`
	Edges      int `json:"edges"`
	BoostPaths int `json:"boost_paths"`
}

// MemoryStore serves a Snapshot through the index.Reader interface.
// It is immutable after construction and safe for concurrent readers.
type MemoryStore struct {
	snapshot     *Snapshot
	dictionaries map[string]*index.Dictionary
	edges        map[string]edgeIndex
	boosts       map[string]boostValues
}

type edgeIndex map[uint32][]index.Edge

// Parents returns the stored edges. Callers must not modify the returned slice.
func (e edgeIndex) Parents(id uint32) ([]index.Edge, error) {
	return e[id], nil
}

type boostValues map[uint32]float32

func (b boostValues) Value(id uint32) (float32, bool, error) {
	value, exists := b[id]
	return value, exists, nil
}

// NewMemoryStore compiles the dictionaries of snapshot and wraps its edges and boosts.
// The snapshot must not be modified afterwards.
func NewMemoryStore(snapshot *Snapshot) (*MemoryStore, error) {
	if snapshot == nil {
		snapshot = NewSnapshot()
	}

	ms := &MemoryStore{
		snapshot:     snapshot,
		dictionaries: make(map[string]*index.Dictionary, len(snapshot.Dictionaries)),
		edges:        make(map[string]edgeIndex, len(snapshot.Edges)),
		boosts:       make(map[string]boostValues, len(snapshot.Boosts)),
	}
	for path, terms := range snapshot.Dictionaries {
		dict, err := index.BuildDictionary(terms)
		if err != nil {
			return nil, fmt.Errorf("failed to build dictionary for field '%s': %w", path, err)
		}
		ms.dictionaries[path] = dict
	}
	for level, edges := range snapshot.Edges {
		ms.edges[level] = edgeIndex(edges)
	}
	for path, values := range snapshot.Boosts {
		ms.boosts[path] = boostValues(values)
	}
	return ms, nil
}

// Dictionary returns the term dictionary of a field path.
func (ms *MemoryStore) Dictionary(path string) (*index.Dictionary, error) {
	dict, exists := ms.dictionaries[path]
	if !exists {
		return nil, errors.NewFieldNotFoundError(path, "dictionary")
	}
	return dict, nil
}

// Edges returns the parent edges of a join level.
func (ms *MemoryStore) Edges(level string) (index.EdgeIndex, error) {
	edges, exists := ms.edges[level]
	if !exists {
		return nil, errors.NewFieldNotFoundError(level, "join level")
	}
	return edges, nil
}

// BoostValues returns the boost value store of a path.
func (ms *MemoryStore) BoostValues(path string) (index.BoostValues, error) {
	values, exists := ms.boosts[path]
	if !exists {
		return nil, errors.NewFieldNotFoundError(path, "boost values")
	}
	return values, nil
}

// Snapshot returns the snapshot the store was built from.
func (ms *MemoryStore) Snapshot() *Snapshot {
	return ms.snapshot
}

// Stats counts the structures held by the store.
func (ms *MemoryStore) Stats() Stats {
	stats := Stats{
		Fields:     len(ms.dictionaries),
		JoinLevels: len(ms.edges),
		BoostPaths: len(ms.boosts),
	}
	for _, dict := range ms.dictionaries {
		stats.Terms += dict.Len()
	}
	for _, edges := range ms.edges {
		for _, parents := range edges {
			stats.Edges += len(parents)
		}
	}
	return stats
}
