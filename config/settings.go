// Package config provides configuration structures for the search engine.
// It defines index settings, the field schema with its join chains, and engine options.
package config

import (
	"strings"
)

// JoinLevel is one step of the parent-reference chain from a field's storage granularity
// up to the anchor (document) level.
type JoinLevel struct {
	Name     string `json:"name" yaml:"name"`         // Edge store name (e.g. "title.tokens_to_text_id")
	Target   string `json:"target" yaml:"target"`     // Id space reached after the join; "" is the anchor space
	Identity bool   `json:"identity" yaml:"identity"` // Source and target ids coincide; the join is skipped
}

// FieldSettings describes how a logical field path is physically stored.
type FieldSettings struct {
	Path   string      `json:"path" yaml:"path"`     // Logical field path (e.g. "title", "meanings.ger[].text")
	Levels []JoinLevel `json:"levels" yaml:"levels"` // Join levels, most specific first
}

// IndexSettings contains all configuration options for a search index.
// This includes the field schema and the typo tolerance defaults applied when a
// search part does not carry an explicit edit distance.
type IndexSettings struct {
	Name                   string          `json:"name"`                      // Unique name for the index
	Fields                 []FieldSettings `json:"fields"`                    // Searchable fields and their join chains
	MinWordSizeFor1Typo    int             `json:"min_word_size_for_1_typo"`  // Minimum word length to allow 1 typo (e.g., 4)
	MinWordSizeFor2Typos   int             `json:"min_word_size_for_2_typos"` // Minimum word length to allow 2 typos (e.g., 7)
	MaxLevenshteinDistance *uint8          `json:"max_levenshtein_distance"`  // Largest distance an automaton is built for, 0 allows exact matches only
}

// DefaultMaxLevenshteinDistance bounds automaton construction cost.
const DefaultMaxLevenshteinDistance = 3

// Field returns the settings for a field path.
func (settings *IndexSettings) Field(path string) (FieldSettings, bool) {
	for _, field := range settings.Fields {
		if field.Path == path {
			return field, true
		}
	}
	return FieldSettings{}, false
}

// JoinLevels returns the join chain of a field path, most specific level first.
func (settings *IndexSettings) JoinLevels(path string) ([]JoinLevel, bool) {
	field, ok := settings.Field(path)
	if !ok {
		return nil, false
	}
	return field.Levels, true
}

// DistanceForTerm derives the edit distance allowed for a term from its length, capped by MaxDistance.
func (settings *IndexSettings) DistanceForTerm(term string) uint8 {
	length := len([]rune(term))
	var distance uint8
	switch {
	case settings.MinWordSizeFor2Typos > 0 && length >= settings.MinWordSizeFor2Typos:
		distance = 2
	case settings.MinWordSizeFor1Typo > 0 && length >= settings.MinWordSizeFor1Typo:
		distance = 1
	}
	return min(distance, settings.MaxDistance())
}

// ValidateFieldNames validates field paths and join chains.
func (settings *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	paths := make([]string, 0, len(settings.Fields))
	levelNames := make([]string, 0)
	for _, field := range settings.Fields {
		paths = append(paths, field.Path)
		for _, level := range field.Levels {
			levelNames = append(levelNames, level.Name)
		}
	}

	// Check for duplicate field paths
	conflicts = append(conflicts, checkDuplicates("fields", paths)...)

	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			conflicts = append(conflicts, "Field path cannot be empty or whitespace-only")
		}
	}
	for _, name := range levelNames {
		if strings.TrimSpace(name) == "" {
			conflicts = append(conflicts, "Join level name cannot be empty or whitespace-only")
		}
	}

	conflicts = append(conflicts, settings.validateJoinChains()...)

	if settings.MinWordSizeFor1Typo < 0 || settings.MinWordSizeFor2Typos < 0 {
		conflicts = append(conflicts, "Minimum word sizes for typos cannot be negative")
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// validateJoinChains checks that every chain ends in the anchor id space and that
// targets only get less specific along the chain.
func (settings *IndexSettings) validateJoinChains() []string {
	var errors []string

	for _, field := range settings.Fields {
		if len(field.Levels) == 0 {
			continue
		}
		last := field.Levels[len(field.Levels)-1]
		if last.Target != "" {
			errors = append(errors, "Join chain of field '"+field.Path+"' must end in the anchor space (empty target), got '"+last.Target+"'")
		}
		for i := 1; i < len(field.Levels); i++ {
			prev, cur := field.Levels[i-1].Target, field.Levels[i].Target
			if cur != "" && !strings.HasPrefix(prev, cur) {
				errors = append(errors, "Join level '"+field.Levels[i].Name+"' of field '"+field.Path+"' targets '"+cur+"' which does not contain '"+prev+"'")
			}
		}
	}

	return errors
}

// MaxDistance returns the configured distance limit, or the default when none is set.
func (settings *IndexSettings) MaxDistance() uint8 {
	if settings.MaxLevenshteinDistance == nil {
		return DefaultMaxLevenshteinDistance
	}
	return *settings.MaxLevenshteinDistance
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	// Set default typo tolerance settings if not specified
	if settings.MinWordSizeFor1Typo == 0 {
		settings.MinWordSizeFor1Typo = 4
	}
	if settings.MinWordSizeFor2Typos == 0 {
		settings.MinWordSizeFor2Typos = 7
	}

	// Ensure MinWordSizeFor2Typos is at least as large as MinWordSizeFor1Typo
	if settings.MinWordSizeFor2Typos < settings.MinWordSizeFor1Typo {
		settings.MinWordSizeFor2Typos = settings.MinWordSizeFor1Typo + 1
	}

	if settings.MaxLevenshteinDistance == nil {
		maxDistance := uint8(DefaultMaxLevenshteinDistance)
		settings.MaxLevenshteinDistance = &maxDistance
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.Fields == nil {
		settings.Fields = []FieldSettings{}
	}
	for i := range settings.Fields {
		if settings.Fields[i].Levels == nil {
			settings.Fields[i].Levels = []JoinLevel{}
		}
	}
}
