package services

import (
	"log"
	"math"
	"sort"
)

// RankedRevision pairs a candidate revision's version with its embedding and
// computed similarity. The version doubles as the candidate id since versions
// are unique within a chain.
type RankedRevision struct {
	Version    int
	Embedding  []float32
	Similarity float64
}

// CosineSimilarity measures directional closeness of two vectors. Zero
// magnitude vectors score 0 so the ordering stays total, and mismatched
// lengths degrade to 0 instead of failing: the embedding model may have
// changed between revisions, which callers log rather than abort on.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) != len(b) {
		log.Printf("⚠️  Embedding dimensionality mismatch (%d vs %d), treating similarity as 0\n", len(a), len(b))
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// RankBySimilarity orders candidates by descending cosine similarity to the
// query vector. Equal scores prefer the higher version so ranking is
// deterministic and the more recent revision wins ties. Pure function.
func RankBySimilarity(query []float32, candidates []RankedRevision) []RankedRevision {
	ranked := make([]RankedRevision, len(candidates))
	copy(ranked, candidates)

	for i := range ranked {
		ranked[i].Similarity = CosineSimilarity(query, ranked[i].Embedding)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		return ranked[i].Version > ranked[j].Version
	})
	return ranked
}
