package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/repositories"
)

// HistoryRetriever selects the prior revisions most relevant to the current
// draft. Relevance (embedding similarity) decides which revisions matter;
// recency decides the order they are presented in.
type HistoryRetriever interface {
	RetrieveRelevant(ctx context.Context, owner, jobSlug string, docType models.DocType,
		currentContent models.StructuredContent, currentVersion, topK int) ([]*models.DocumentRevision, error)
}

type historyRetriever struct {
	store    repositories.VersionStore
	embedder Embedder
}

func NewHistoryRetriever(store repositories.VersionStore, embedder Embedder) HistoryRetriever {
	return &historyRetriever{store: store, embedder: embedder}
}

// RetrieveRelevant implements HistoryRetriever.
func (h *historyRetriever) RetrieveRelevant(ctx context.Context, owner, jobSlug string, docType models.DocType,
	currentContent models.StructuredContent, currentVersion, topK int) ([]*models.DocumentRevision, error) {

	if topK <= 0 {
		return nil, nil
	}

	revisions, skipped, err := h.store.LoadAll(owner, jobSlug, docType)
	if err != nil {
		return nil, err
	}
	for _, skipErr := range skipped {
		log.Printf("⚠️  Skipping corrupt revision during history scan: %v\n", skipErr)
	}

	candidates := make([]*models.DocumentRevision, 0, len(revisions))
	for _, rev := range revisions {
		if rev.Version < currentVersion {
			candidates = append(candidates, rev)
		}
	}
	if len(candidates) == 0 {
		// A first revision has no history.
		return nil, nil
	}

	queryText := EmbeddingText(docType, currentContent)
	if strings.TrimSpace(queryText) == "" {
		// Nothing substantive to compare yet; don't waste an embedding call.
		return nil, nil
	}

	queryVector, err := h.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed current content: %w", err)
	}

	byVersion := make(map[int]*models.DocumentRevision, len(candidates))
	ranked := make([]RankedRevision, 0, len(candidates))
	for _, rev := range candidates {
		if len(rev.Embedding) == 0 {
			vector, err := h.lazyEmbed(ctx, rev)
			if err != nil {
				log.Printf("⚠️  Failed to backfill embedding for v%d, excluding from ranking: %v\n", rev.Version, err)
				continue
			}
			rev.Embedding = vector
		}
		if len(rev.Embedding) == 0 {
			continue
		}
		byVersion[rev.Version] = rev
		ranked = append(ranked, RankedRevision{Version: rev.Version, Embedding: rev.Embedding})
	}

	// Pass one: relevance selects which revisions matter.
	ranked = RankBySimilarity(queryVector, ranked)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	selected := make([]*models.DocumentRevision, 0, len(ranked))
	for _, r := range ranked {
		selected = append(selected, byVersion[r.Version])
	}

	// Pass two: recency orders the selected set for presentation.
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Version > selected[j].Version
	})
	return selected, nil
}

// lazyEmbed computes a vector for a revision persisted before embeddings
// existed. Revisions whose projection is empty stay vectorless and drop out
// of ranking.
func (h *historyRetriever) lazyEmbed(ctx context.Context, rev *models.DocumentRevision) ([]float32, error) {
	text := EmbeddingText(rev.DocType, rev.Content)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return h.embedder.Embed(ctx, text)
}
