package typoutil

import (
	"math/rand"
	"testing"

	"github.com/PSeitz/veloci-sub001/index"
)

// Generate test data for benchmarks
func generateTestTerms(count int, avgLength int) map[string]uint32 {
	rng := rand.New(rand.NewSource(42))
	terms := make(map[string]uint32, count)

	words := []string{
		"action", "adventure", "comedy", "drama", "horror", "thriller", "science", "fiction",
		"fantasy", "romance", "mystery", "crime", "animation", "documentary", "family",
		"music", "war", "western", "biography", "history", "sport", "musical", "film",
	}
	for _, w := range words {
		terms[w] = uint32(len(terms))
	}

	for len(terms) < count {
		length := avgLength + rng.Intn(5) - 2 // avgLength ± 2
		if length < 3 {
			length = 3
		}
		runes := make([]rune, length)
		for j := 0; j < length; j++ {
			runes[j] = rune('a' + rng.Intn(26))
		}
		if _, exists := terms[string(runes)]; !exists {
			terms[string(runes)] = uint32(len(terms))
		}
	}

	return terms
}

func BenchmarkDistance(b *testing.B) {
	pairs := [][2]string{{"action", "acton"}, {"adventure", "advnture"}, {"comedy", "comdy"}, {"thriller", "thrlr"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, p := range pairs {
			_ = Distance(p[0], p[1])
		}
	}
}

func BenchmarkAutomatonSearch(b *testing.B) {
	dict, err := index.BuildDictionary(generateTestTerms(10000, 6))
	if err != nil {
		b.Fatal(err)
	}
	ab := NewAutomatonBuilder(2)
	queryTerms := []string{"action", "advnture", "comdy", "thrlr", "mysterey"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, term := range queryTerms {
			aut, err := ab.Build(term, 1, false)
			if err != nil {
				b.Fatal(err)
			}
			_ = dict.Search(aut, func(string, uint32) bool { return true })
		}
	}
}
