package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
)

// VersionStore persists numbered document revisions scoped by
// (owner, jobSlug, docType). Version chains are linear; rollback is the only
// operation that removes committed history.
type VersionStore interface {
	ListVersions(owner, jobSlug string, docType models.DocType) ([]int, error)
	Load(owner, jobSlug string, docType models.DocType, version int) (*models.DocumentRevision, error)
	// LoadAll returns every readable revision ascending by version, plus one
	// error per corrupt record it had to skip.
	LoadAll(owner, jobSlug string, docType models.DocType) ([]*models.DocumentRevision, []error, error)
	Commit(rev *models.DocumentRevision) error
	CloneForward(rev *models.DocumentRevision) (*models.DocumentRevision, error)
	Rollback(owner, jobSlug string, docType models.DocType, targetVersion int) (*models.RollbackResult, error)
}

// fsVersionStore keeps one JSON file per revision under
// <root>/users/<owner>/<jobSlug>/<docType>/v<N>.json. Commits go through a
// temp file and rename so a reader never sees a half-written revision.
type fsVersionStore struct {
	root string
}

func NewFSVersionStore(root string) (VersionStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "users"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fsVersionStore{root: root}, nil
}

func (s *fsVersionStore) docDir(owner, jobSlug string, docType models.DocType) string {
	return filepath.Join(s.root, "users", owner, jobSlug, string(docType))
}

func (s *fsVersionStore) revisionPath(owner, jobSlug string, docType models.DocType, version int) string {
	return filepath.Join(s.docDir(owner, jobSlug, docType), fmt.Sprintf("v%d.json", version))
}

func validateKey(owner, jobSlug string, docType models.DocType) error {
	if strings.TrimSpace(owner) == "" {
		return apperr.Validation("owner is required")
	}
	if strings.TrimSpace(jobSlug) == "" {
		return apperr.Validation("job slug is required")
	}
	if !docType.Valid() {
		return apperr.Validation("unknown doc type %q", docType)
	}
	return nil
}

func (s *fsVersionStore) ListVersions(owner, jobSlug string, docType models.DocType) ([]int, error) {
	if err := validateKey(owner, jobSlug, docType); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.docDir(owner, jobSlug, docType))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "failed to list revisions for %s/%s/%s", owner, jobSlug, docType)
	}

	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "v") || !strings.HasSuffix(name, ".json") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "v"), ".json"))
		if err != nil || v < 1 {
			continue
		}
		versions = append(versions, v)
	}

	sort.Ints(versions)
	return versions, nil
}

func (s *fsVersionStore) Load(owner, jobSlug string, docType models.DocType, version int) (*models.DocumentRevision, error) {
	if err := validateKey(owner, jobSlug, docType); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, apperr.Validation("version must be positive, got %d", version)
	}

	raw, err := os.ReadFile(s.revisionPath(owner, jobSlug, docType, version))
	if os.IsNotExist(err) {
		return nil, apperr.NotFound("revision v%d not found for %s/%s/%s", version, owner, jobSlug, docType)
	}
	if err != nil {
		return nil, apperr.Storage(err, "failed to read revision v%d", version)
	}

	var rev models.DocumentRevision
	if err := json.Unmarshal(raw, &rev); err != nil {
		return nil, apperr.Storage(err, "corrupt revision record v%d for %s/%s/%s", version, owner, jobSlug, docType)
	}
	if rev.IndividualFeedbacks == nil {
		rev.IndividualFeedbacks = map[string]string{}
	}
	return &rev, nil
}

func (s *fsVersionStore) LoadAll(owner, jobSlug string, docType models.DocType) ([]*models.DocumentRevision, []error, error) {
	versions, err := s.ListVersions(owner, jobSlug, docType)
	if err != nil {
		return nil, nil, err
	}

	var revisions []*models.DocumentRevision
	var skipped []error
	for _, v := range versions {
		rev, err := s.Load(owner, jobSlug, docType, v)
		if err != nil {
			// Corrupt records are reported and excluded rather than aborting
			// the whole scan.
			skipped = append(skipped, err)
			continue
		}
		revisions = append(revisions, rev)
	}
	return revisions, skipped, nil
}

func (s *fsVersionStore) Commit(rev *models.DocumentRevision) error {
	if rev == nil {
		return apperr.Validation("revision is required")
	}
	if err := validateKey(rev.Owner, rev.JobSlug, rev.DocType); err != nil {
		return err
	}
	if rev.Version < 1 {
		return apperr.Validation("version must be positive, got %d", rev.Version)
	}

	dir := s.docDir(rev.Owner, rev.JobSlug, rev.DocType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperr.Storage(err, "failed to create document directory")
	}

	raw, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return apperr.Storage(err, "failed to encode revision v%d", rev.Version)
	}

	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".v%d-*.tmp", rev.Version))
	if err != nil {
		return apperr.Storage(err, "failed to create temp file for revision v%d", rev.Version)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperr.Storage(err, "failed to write revision v%d", rev.Version)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperr.Storage(err, "failed to flush revision v%d", rev.Version)
	}

	if err := os.Rename(tmpPath, s.revisionPath(rev.Owner, rev.JobSlug, rev.DocType, rev.Version)); err != nil {
		os.Remove(tmpPath)
		return apperr.Storage(err, "failed to commit revision v%d", rev.Version)
	}
	return nil
}

func (s *fsVersionStore) CloneForward(rev *models.DocumentRevision) (*models.DocumentRevision, error) {
	if rev == nil {
		return nil, apperr.Validation("revision is required")
	}

	clone := rev.Clone()
	clone.Version = rev.Version + 1

	occupant, err := s.Load(rev.Owner, rev.JobSlug, rev.DocType, clone.Version)
	switch {
	case err == nil:
		if occupant.ContentHash != rev.ContentHash {
			return nil, apperr.Conflict(
				"version v%d of %s/%s/%s already holds divergent content",
				clone.Version, rev.Owner, rev.JobSlug, rev.DocType)
		}
		// Same content already cloned forward: refresh it so the working copy
		// carries the latest feedback. Re-running a completed clone converges.
	case apperr.IsKind(err, apperr.KindNotFound):
		// Free slot.
	default:
		return nil, err
	}

	if err := s.Commit(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (s *fsVersionStore) Rollback(owner, jobSlug string, docType models.DocType, targetVersion int) (*models.RollbackResult, error) {
	versions, err := s.ListVersions(owner, jobSlug, docType)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, apperr.Validation("no versions exist for %s/%s/%s", owner, jobSlug, docType)
	}

	maxVersion := versions[len(versions)-1]
	if targetVersion < 1 || targetVersion > maxVersion {
		return nil, apperr.Validation("rollback target v%d out of range [1, %d]", targetVersion, maxVersion)
	}

	var deleted []int
	for _, v := range versions {
		if v <= targetVersion {
			continue
		}
		if err := os.Remove(s.revisionPath(owner, jobSlug, docType, v)); err != nil {
			return nil, apperr.Storage(err, "failed to delete revision v%d during rollback", v)
		}
		deleted = append(deleted, v)
	}

	latest, err := s.Load(owner, jobSlug, docType, targetVersion)
	if err != nil {
		return nil, err
	}

	return &models.RollbackResult{
		DeletedVersions: deleted,
		LatestVersion:   targetVersion,
		LatestRevision:  latest,
	}, nil
}
