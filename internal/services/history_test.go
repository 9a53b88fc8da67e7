package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/repositories"
)

// fakeEmbedder maps text through a caller-supplied function and counts calls.
type fakeEmbedder struct {
	fn    func(text string) ([]float32, error)
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fn == nil {
		return []float32{1, 0, 0}, nil
	}
	return f.fn(text)
}

func historyStore(t *testing.T) repositories.VersionStore {
	t.Helper()
	store, err := repositories.NewFSVersionStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func commitResume(t *testing.T, store repositories.VersionStore, version int, education string, embedding []float32) {
	t.Helper()
	require.NoError(t, store.Commit(&models.DocumentRevision{
		Owner:       "user-1",
		JobTitle:    "Backend Developer",
		JobSlug:     "backend-developer",
		DocType:     models.DocTypeResume,
		Version:     version,
		Content:     models.StructuredContent{"education": education},
		Embedding:   embedding,
		ContentHash: education,
	}))
}

func TestHistoryRetriever_RetrieveRelevant(t *testing.T) {
	ctx := context.Background()
	current := models.StructuredContent{"education": "current draft"}

	t.Run("selects by relevance, presents by recency", func(t *testing.T) {
		store := historyStore(t)
		// v1 and v3 point the same way as the query, v2 is orthogonal.
		commitResume(t, store, 1, "a", []float32{1, 0, 0})
		commitResume(t, store, 2, "b", []float32{0, 1, 0})
		commitResume(t, store, 3, "c", []float32{2, 0, 0})

		embedder := &fakeEmbedder{fn: func(string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 4, 2)
		require.NoError(t, err)
		require.Len(t, selected, 2)
		// Both relevant revisions made the cut; the newer one comes first.
		assert.Equal(t, 3, selected[0].Version)
		assert.Equal(t, 1, selected[1].Version)
	})

	t.Run("topK of one keeps only the most similar revision", func(t *testing.T) {
		store := historyStore(t)
		// v1 is closer to the query than the more recent v2.
		commitResume(t, store, 1, "a", []float32{1, 0, 0})
		commitResume(t, store, 2, "b", []float32{1, 1, 0})

		embedder := &fakeEmbedder{fn: func(string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 3, 1)
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.Equal(t, 1, selected[0].Version)
	})

	t.Run("only revisions below the current version are candidates", func(t *testing.T) {
		store := historyStore(t)
		commitResume(t, store, 1, "a", []float32{1, 0, 0})
		commitResume(t, store, 2, "b", []float32{1, 0, 0})
		commitResume(t, store, 3, "c", []float32{1, 0, 0})

		retriever := NewHistoryRetriever(store, &fakeEmbedder{})

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 2, 5)
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.Equal(t, 1, selected[0].Version)
	})

	t.Run("no history means no embedding call", func(t *testing.T) {
		store := historyStore(t)
		embedder := &fakeEmbedder{}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 1, 2)
		require.NoError(t, err)
		assert.Empty(t, selected)
		assert.Zero(t, embedder.calls)
	})

	t.Run("empty projection means no embedding call", func(t *testing.T) {
		store := historyStore(t)
		commitResume(t, store, 1, "a", []float32{1, 0, 0})

		embedder := &fakeEmbedder{}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, models.StructuredContent{}, 2, 2)
		require.NoError(t, err)
		assert.Empty(t, selected)
		assert.Zero(t, embedder.calls)
	})

	t.Run("backfills missing embeddings lazily", func(t *testing.T) {
		store := historyStore(t)
		commitResume(t, store, 1, "vectorless", nil)

		embedder := &fakeEmbedder{fn: func(string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 2, 2)
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.Equal(t, 1, selected[0].Version)
		// One call for the query, one for the backfill.
		assert.Equal(t, 2, embedder.calls)

		// Backfilled vectors are not written back to the store.
		persisted, err := store.Load("user-1", "backend-developer", models.DocTypeResume, 1)
		require.NoError(t, err)
		assert.Empty(t, persisted.Embedding)
	})

	t.Run("excludes candidates whose backfill fails", func(t *testing.T) {
		store := historyStore(t)
		commitResume(t, store, 1, "vectorless", nil)
		commitResume(t, store, 2, "healthy", []float32{1, 0, 0})

		embedder := &fakeEmbedder{fn: func(text string) ([]float32, error) {
			if text == EmbeddingText(models.DocTypeResume, current) {
				return []float32{1, 0, 0}, nil
			}
			return nil, errors.New("embedding backend down")
		}}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 3, 5)
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.Equal(t, 2, selected[0].Version)
	})

	t.Run("non-positive topK short-circuits", func(t *testing.T) {
		store := historyStore(t)
		commitResume(t, store, 1, "a", []float32{1, 0, 0})

		embedder := &fakeEmbedder{}
		retriever := NewHistoryRetriever(store, embedder)

		selected, err := retriever.RetrieveRelevant(ctx, "user-1", "backend-developer",
			models.DocTypeResume, current, 2, 0)
		require.NoError(t, err)
		assert.Empty(t, selected)
		assert.Zero(t, embedder.calls)
	})
}
