package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical direction scores 1", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{2, 4, 6}
		assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("opposite direction scores -1", func(t *testing.T) {
		a := []float32{1, 1}
		b := []float32{-1, -1}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("empty vectors score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, []float32{1}))
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, nil))
	})

	t.Run("zero magnitude scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	})

	t.Run("dimensionality mismatch scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})
}

func TestRankBySimilarity(t *testing.T) {
	query := []float32{1, 0}

	t.Run("orders by descending similarity", func(t *testing.T) {
		candidates := []RankedRevision{
			{Version: 1, Embedding: []float32{0, 1}},
			{Version: 2, Embedding: []float32{1, 0}},
			{Version: 3, Embedding: []float32{1, 1}},
		}
		ranked := RankBySimilarity(query, candidates)
		require.Len(t, ranked, 3)
		assert.Equal(t, 2, ranked[0].Version)
		assert.Equal(t, 3, ranked[1].Version)
		assert.Equal(t, 1, ranked[2].Version)
	})

	t.Run("equal scores prefer the higher version", func(t *testing.T) {
		candidates := []RankedRevision{
			{Version: 4, Embedding: []float32{1, 0}},
			{Version: 9, Embedding: []float32{2, 0}},
			{Version: 2, Embedding: []float32{3, 0}},
		}
		ranked := RankBySimilarity(query, candidates)
		assert.Equal(t, 9, ranked[0].Version)
		assert.Equal(t, 4, ranked[1].Version)
		assert.Equal(t, 2, ranked[2].Version)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		candidates := []RankedRevision{
			{Version: 1, Embedding: []float32{1, 1}},
			{Version: 2, Embedding: []float32{0, 1}},
			{Version: 3, Embedding: []float32{1, 0}},
		}
		first := RankBySimilarity(query, candidates)
		second := RankBySimilarity(query, candidates)
		assert.Equal(t, first, second)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		candidates := []RankedRevision{
			{Version: 1, Embedding: []float32{0, 1}},
			{Version: 2, Embedding: []float32{1, 0}},
		}
		RankBySimilarity(query, candidates)
		assert.Equal(t, 1, candidates[0].Version)
		assert.Equal(t, 0.0, candidates[0].Similarity)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RankBySimilarity(query, nil))
	})
}
