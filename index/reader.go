// Package index defines the read-only storage surface consumed by the query engine:
// term dictionaries, join edges between id spaces and per-id boost values.
package index

// Edge is a parent reference of an id at some join level.
// Weight is a 0-255 byte standing for a 0.0-1.0 fraction.
type Edge struct {
	ParentID uint32 `json:"parent_id"`
	Weight   uint8  `json:"weight"`
}

// MaxEdgeWeight is the stored weight meaning a factor of 1.0.
const MaxEdgeWeight = 255

// Fraction returns the edge weight as a 0.0-1.0 factor.
func (e Edge) Fraction() float32 {
	return float32(e.Weight) / MaxEdgeWeight
}

// EdgeIndex resolves an id to its parents at one join level.
type EdgeIndex interface {
	Parents(id uint32) ([]Edge, error)
}

// BoostValues looks up the boost value stored for an id.
type BoostValues interface {
	Value(id uint32) (float32, bool, error)
}

// Reader gives access to the structures of one index. Implementations must be
// safe for concurrent use by multiple goroutines.
type Reader interface {
	Dictionary(path string) (*Dictionary, error)
	Edges(level string) (EdgeIndex, error)
	BoostValues(path string) (BoostValues, error)
}
