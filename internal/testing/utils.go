// Package testing provides utilities and helpers for testing the search engine.
package testing

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/engine"
	"github.com/PSeitz/veloci-sub001/internal/tokenizer"
	"github.com/PSeitz/veloci-sub001/services"
	"github.com/PSeitz/veloci-sub001/store"
)

// MaxWeight is the edge weight of an unweighted parent reference.
const MaxWeight = 255

// CreateTestEngine creates a new engine instance whose data directory is removed after the test.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.EngineConfig{
		DataDir:        t.TempDir(),
		Workers:        4,
		BoostCacheSize: 16,
	}
	return engine.NewEngine(cfg)
}

// TextField returns the settings of a field stored as tokens of texts of anchors.
// Its join chain is path.tokens_to_text_id followed by path.text_id_to_anchor.
func TextField(path string) config.FieldSettings {
	return config.FieldSettings{
		Path: path,
		Levels: []config.JoinLevel{
			{Name: path + ".tokens_to_text_id", Target: path},
			{Name: path + ".text_id_to_anchor", Target: ""},
		},
	}
}

// AddTexts indexes texts into snapshot under path, using the chain of TextField.
// Text ids are assigned in ascending anchor order, one per text.
func AddTexts(snapshot *store.Snapshot, path string, texts map[uint32][]string) {
	anchors := make([]uint32, 0, len(texts))
	for anchor := range texts {
		anchors = append(anchors, anchor)
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i] < anchors[j] })

	termIDs := snapshot.Dictionaries[path]
	var textID uint32
	for _, anchor := range anchors {
		for _, text := range texts[anchor] {
			for _, token := range tokenizer.UniqueTokens(text) {
				termID, exists := termIDs[token]
				if !exists {
					termID = uint32(len(termIDs))
					snapshot.AddTerm(path, token, termID)
					termIDs = snapshot.Dictionaries[path]
				}
				snapshot.AddEdge(path+".tokens_to_text_id", termID, textID, MaxWeight)
			}
			snapshot.AddEdge(path+".text_id_to_anchor", textID, anchor, MaxWeight)
			textID++
		}
	}
}

// MovieSettings returns the settings of the sample movie index.
func MovieSettings(indexName string) config.IndexSettings {
	return config.IndexSettings{
		Name:                 indexName,
		Fields:               []config.FieldSettings{TextField("title"), TextField("description")},
		MinWordSizeFor1Typo:  4,
		MinWordSizeFor2Typos: 7,
	}
}

// MovieSnapshot returns the data of the sample movie index. Anchor ids are 0 The Matrix,
// 1 Inception and 2 Interstellar; popularity holds a boost value per anchor.
func MovieSnapshot() *store.Snapshot {
	snapshot := store.NewSnapshot()
	AddTexts(snapshot, "title", map[uint32][]string{
		0: {"The Matrix"},
		1: {"Inception"},
		2: {"Interstellar"},
	})
	AddTexts(snapshot, "description", map[uint32][]string{
		0: {"A computer programmer discovers reality is a simulation"},
		1: {"A thief enters dreams to steal secrets"},
		2: {"Astronauts travel through a wormhole to save humanity"},
	})
	snapshot.SetBoost("popularity", 0, 9.5)
	snapshot.SetBoost("popularity", 1, 9.2)
	snapshot.SetBoost("popularity", 2, 8.8)
	return snapshot
}

// CreateTestIndex creates the sample movie index and returns its settings.
func CreateTestIndex(t *testing.T, eng *engine.Engine, indexName string) config.IndexSettings {
	t.Helper()
	settings := MovieSettings(indexName)
	err := eng.CreateIndex(settings, MovieSnapshot())
	require.NoError(t, err, "Failed to create test index")
	return settings
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Params        services.QueryParams
	ExpectedCount int
	ExpectedFirst *uint32 // Expected first anchor id
	ValidateFunc  func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against an index
func RunSearchTests(t *testing.T, indexAccessor services.IndexAccessor, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := indexAccessor.SearchQuery(context.Background(), tt.Params)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedCount, results.Total, "Result count should match")

			if tt.ExpectedFirst != nil && len(results.Hits) > 0 {
				assert.Equal(t, *tt.ExpectedFirst, results.Hits[0].ID, "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}
