package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
)

func newTestStore(t *testing.T) VersionStore {
	t.Helper()
	store, err := NewFSVersionStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func testRevision(version int, hash string) *models.DocumentRevision {
	return &models.DocumentRevision{
		Owner:       "user-1",
		JobTitle:    "Backend Developer",
		JobSlug:     "backend-developer",
		DocType:     models.DocTypeResume,
		Version:     version,
		Content:     models.StructuredContent{"education": "CS degree"},
		Feedback:    "solid draft",
		ContentHash: hash,
	}
}

func TestFSVersionStore_CommitAndLoad(t *testing.T) {
	store := newTestStore(t)

	rev := testRevision(1, "hash-a")
	require.NoError(t, store.Commit(rev))

	loaded, err := store.Load("user-1", "backend-developer", models.DocTypeResume, 1)
	require.NoError(t, err)
	assert.Equal(t, rev.Owner, loaded.Owner)
	assert.Equal(t, rev.ContentHash, loaded.ContentHash)
	assert.Equal(t, "CS degree", loaded.Content["education"])
}

func TestFSVersionStore_CommitValidation(t *testing.T) {
	store := newTestStore(t)

	t.Run("nil revision", func(t *testing.T) {
		err := store.Commit(nil)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("missing owner", func(t *testing.T) {
		rev := testRevision(1, "h")
		rev.Owner = ""
		err := store.Commit(rev)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("bad doc type", func(t *testing.T) {
		rev := testRevision(1, "h")
		rev.DocType = "diary"
		err := store.Commit(rev)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("non-positive version", func(t *testing.T) {
		rev := testRevision(0, "h")
		err := store.Commit(rev)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestFSVersionStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("user-1", "backend-developer", models.DocTypeResume, 7)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestFSVersionStore_ListVersions(t *testing.T) {
	store := newTestStore(t)

	t.Run("empty chain", func(t *testing.T) {
		versions, err := store.ListVersions("user-1", "backend-developer", models.DocTypeResume)
		require.NoError(t, err)
		assert.Empty(t, versions)
	})

	t.Run("sorted ascending", func(t *testing.T) {
		for _, v := range []int{3, 1, 2, 10} {
			require.NoError(t, store.Commit(testRevision(v, "h")))
		}
		versions, err := store.ListVersions("user-1", "backend-developer", models.DocTypeResume)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 10}, versions)
	})
}

func TestFSVersionStore_CommitOverwritesExisting(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Commit(testRevision(1, "hash-a")))

	updated := testRevision(1, "hash-b")
	updated.Feedback = "second pass"
	require.NoError(t, store.Commit(updated))

	loaded, err := store.Load("user-1", "backend-developer", models.DocTypeResume, 1)
	require.NoError(t, err)
	assert.Equal(t, "hash-b", loaded.ContentHash)
	assert.Equal(t, "second pass", loaded.Feedback)
}

func TestFSVersionStore_CloneForward(t *testing.T) {
	t.Run("creates next version", func(t *testing.T) {
		store := newTestStore(t)
		rev := testRevision(3, "hash-a")
		require.NoError(t, store.Commit(rev))

		clone, err := store.CloneForward(rev)
		require.NoError(t, err)
		assert.Equal(t, 4, clone.Version)
		assert.Equal(t, rev.ContentHash, clone.ContentHash)

		loaded, err := store.Load("user-1", "backend-developer", models.DocTypeResume, 4)
		require.NoError(t, err)
		assert.Equal(t, "hash-a", loaded.ContentHash)
	})

	t.Run("idempotent when forward slot holds the same content", func(t *testing.T) {
		store := newTestStore(t)
		rev := testRevision(3, "hash-a")
		require.NoError(t, store.Commit(rev))

		first, err := store.CloneForward(rev)
		require.NoError(t, err)
		second, err := store.CloneForward(rev)
		require.NoError(t, err)
		assert.Equal(t, first.Version, second.Version)
	})

	t.Run("conflicts when forward slot diverged", func(t *testing.T) {
		store := newTestStore(t)
		rev := testRevision(3, "hash-a")
		require.NoError(t, store.Commit(rev))

		occupant := testRevision(4, "hash-other")
		require.NoError(t, store.Commit(occupant))

		_, err := store.CloneForward(rev)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("clone is a deep copy", func(t *testing.T) {
		store := newTestStore(t)
		rev := testRevision(1, "hash-a")
		require.NoError(t, store.Commit(rev))

		clone, err := store.CloneForward(rev)
		require.NoError(t, err)

		clone.Content["education"] = "mutated"
		assert.Equal(t, "CS degree", rev.Content["education"])
	})
}

func TestFSVersionStore_Rollback(t *testing.T) {
	t.Run("deletes versions above the target", func(t *testing.T) {
		store := newTestStore(t)
		for v := 1; v <= 5; v++ {
			require.NoError(t, store.Commit(testRevision(v, "h")))
		}

		result, err := store.Rollback("user-1", "backend-developer", models.DocTypeResume, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 5}, result.DeletedVersions)
		assert.Equal(t, 2, result.LatestVersion)
		assert.Equal(t, 2, result.LatestRevision.Version)

		versions, err := store.ListVersions("user-1", "backend-developer", models.DocTypeResume)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, versions)
	})

	t.Run("rollback to latest deletes nothing", func(t *testing.T) {
		store := newTestStore(t)
		for v := 1; v <= 3; v++ {
			require.NoError(t, store.Commit(testRevision(v, "h")))
		}

		result, err := store.Rollback("user-1", "backend-developer", models.DocTypeResume, 3)
		require.NoError(t, err)
		assert.Empty(t, result.DeletedVersions)
		assert.Equal(t, 3, result.LatestVersion)
	})

	t.Run("target out of range", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Commit(testRevision(1, "h")))

		_, err := store.Rollback("user-1", "backend-developer", models.DocTypeResume, 5)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = store.Rollback("user-1", "backend-developer", models.DocTypeResume, 0)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("empty chain", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Rollback("user-1", "backend-developer", models.DocTypeResume, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestFSVersionStore_LoadAllSkipsCorruptRecords(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSVersionStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Commit(testRevision(1, "hash-a")))
	require.NoError(t, store.Commit(testRevision(3, "hash-c")))

	// Wedge an unreadable record between the two good ones.
	corrupt := filepath.Join(root, "users", "user-1", "backend-developer", "resume", "v2.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))

	revisions, skipped, err := store.LoadAll("user-1", "backend-developer", models.DocTypeResume)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, 1, revisions[0].Version)
	assert.Equal(t, 3, revisions[1].Version)
	assert.Len(t, skipped, 1)
}
