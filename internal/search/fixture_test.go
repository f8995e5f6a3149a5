package search

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/boost"
	"github.com/PSeitz/veloci-sub001/internal/tokenizer"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/store"
)

// fixtureDocs are indexed as anchors 0..4. Every text of a field gets its own text id.
var fixtureDocs = []map[string][]string{
	{"title": {"quick fox"}},
	{"title": {"quick dog"}},
	{"title": {"lazy fox"}},
	{"notes": {"quick fox", "brown"}},
	{"notes": {"quick", "fox"}},
}

func tokensLevel(path string) string { return path + ".tokens_to_text_id" }
func anchorLevel(path string) string { return path + ".text_id_to_anchor" }

// buildSnapshot indexes docs with a token -> text -> anchor chain per field and full edge weights.
func buildSnapshot(docs []map[string][]string) (*store.Snapshot, *config.IndexSettings) {
	snapshot := store.NewSnapshot()
	termIDs := make(map[string]map[string]uint32)
	nextText := make(map[string]uint32)
	paths := make(map[string]struct{})

	for anchor, doc := range docs {
		fields := make([]string, 0, len(doc))
		for path := range doc {
			fields = append(fields, path)
		}
		sort.Strings(fields)

		for _, path := range fields {
			paths[path] = struct{}{}
			if termIDs[path] == nil {
				termIDs[path] = make(map[string]uint32)
			}
			for _, text := range doc[path] {
				textID := nextText[path]
				nextText[path]++
				snapshot.AddEdge(anchorLevel(path), textID, uint32(anchor), 255)

				for _, token := range tokenizer.UniqueTokens(text) {
					id, exists := termIDs[path][token]
					if !exists {
						id = uint32(len(termIDs[path]))
						termIDs[path][token] = id
						snapshot.AddTerm(path, token, id)
					}
					snapshot.AddEdge(tokensLevel(path), id, textID, 255)
				}
			}
		}
	}

	settings := &config.IndexSettings{Name: "fixture"}
	sorted := make([]string, 0, len(paths))
	for path := range paths {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)
	for _, path := range sorted {
		settings.Fields = append(settings.Fields, config.FieldSettings{
			Path: path,
			Levels: []config.JoinLevel{
				{Name: tokensLevel(path), Target: path},
				{Name: anchorLevel(path), Target: ""},
			},
		})
	}
	settings.ApplyDefaults()
	return snapshot, settings
}

// setupTestSearchService builds a service over fixtureDocs with popularity values per
// anchor, a rank value per title text and a weight for the title term "fox".
func setupTestSearchService(t *testing.T) *Service {
	t.Helper()
	snapshot, settings := buildSnapshot(fixtureDocs)
	snapshot.SetBoost("popularity", 0, 10)
	snapshot.SetBoost("popularity", 1, 2)
	snapshot.SetBoost("popularity", 2, 5)
	snapshot.SetBoost("title.rank", 2, 3)
	snapshot.SetBoost("title", 1, 4)

	// A configured field whose dictionary was never written
	settings.Fields = append(settings.Fields, config.FieldSettings{Path: "empty"})

	ms, err := store.NewMemoryStore(snapshot)
	require.NoError(t, err)
	svc, err := NewService(ms, settings, NewExecutor(4), boost.NewCache(10))
	require.NoError(t, err)
	return svc
}

func search(path string, terms ...string) *model.Request {
	return &model.Request{Search: &model.RequestSearchPart{Path: path, Terms: terms}}
}

func hits(pairs ...float32) []model.Hit {
	out := make([]model.Hit, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Hit{ID: uint32(pairs[i]), Score: pairs[i+1]})
	}
	return out
}

func resultOf(path, term string, h []model.Hit) *model.SearchFieldResult {
	result := model.NewSearchFieldResult(model.RequestSearchPart{Path: path, Terms: []string{term}})
	result.HitsScores = h
	return result
}

func ptr[T any](v T) *T {
	return &v
}
