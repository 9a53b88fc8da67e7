package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/repositories"
)

// inaccessibleMarker is the phrase the generator emits when it cannot reach a
// portfolio URL. It is a caller problem (bad link), not a server failure.
const inaccessibleMarker = "unable to access external URLs"

// SubmitRequest carries one document submission through the feedback
// pipeline.
type SubmitRequest struct {
	Owner       string
	JobTitle    string
	DocType     models.DocType
	Content     models.StructuredContent
	Version     int
	UserRemarks string
	CompanyName string

	// PortfolioKind is set only for portfolio submissions.
	PortfolioKind models.PortfolioInputKind
}

// SubmitResult returns the committed revision and the forward clone the user
// edits next.
type SubmitResult struct {
	Current *models.DocumentRevision
	Next    *models.DocumentRevision
}

// FeedbackOrchestrator owns the submit pipeline end to end: history
// retrieval, prompt assembly, generation, response validation, embedding,
// then the commit and forward clone. Nothing is persisted until the
// generator has succeeded, so any earlier failure leaves the chain untouched.
type FeedbackOrchestrator interface {
	SubmitRevision(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	SubmitPortfolio(ctx context.Context, owner, jobTitle string, input models.PortfolioInput,
		version int, userRemarks, companyName string) (*SubmitResult, error)
	Rollback(owner, jobSlug string, docType models.DocType, targetVersion int) (*models.RollbackResult, error)
	LoadDocuments(owner, jobSlug string) (map[models.DocType][]*models.DocumentRevision, error)
}

type feedbackOrchestrator struct {
	store        repositories.VersionStore
	companyRepo  repositories.CompanyRepository
	retriever    HistoryRetriever
	generator    FeedbackGenerator
	embedder     Embedder
	prompts      *PromptBuilder
	cache        *FeedbackCache
	locks        *keyMutex
	historyTopK  int
	genTimeout   time.Duration
	embedTimeout time.Duration
}

func NewFeedbackOrchestrator(
	store repositories.VersionStore,
	companyRepo repositories.CompanyRepository,
	retriever HistoryRetriever,
	generator FeedbackGenerator,
	embedder Embedder,
	historyTopK int,
	cacheSize int,
	genTimeout time.Duration,
	embedTimeout time.Duration,
) (FeedbackOrchestrator, error) {
	cache, err := NewFeedbackCache(cacheSize)
	if err != nil {
		return nil, err
	}
	if historyTopK <= 0 {
		historyTopK = 2
	}
	return &feedbackOrchestrator{
		store:        store,
		companyRepo:  companyRepo,
		retriever:    retriever,
		generator:    generator,
		embedder:     embedder,
		prompts:      NewPromptBuilder(),
		cache:        cache,
		locks:        newKeyMutex(),
		historyTopK:  historyTopK,
		genTimeout:   genTimeout,
		embedTimeout: embedTimeout,
	}, nil
}

// SubmitRevision implements FeedbackOrchestrator.
func (o *feedbackOrchestrator) SubmitRevision(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := o.validate(&req); err != nil {
		return nil, err
	}

	// Hashing is pure, so malformed content is rejected before any I/O.
	contentHash, err := HashContent(req.Content)
	if err != nil {
		return nil, err
	}

	jobSlug := models.SlugForTitle(req.JobTitle)

	o.locks.Lock(req.Owner, jobSlug, req.DocType)
	defer o.locks.Unlock(req.Owner, jobSlug, req.DocType)

	company := o.loadCompanyContext(req.Owner)

	history, err := o.retriever.RetrieveRelevant(ctx, req.Owner, jobSlug, req.DocType,
		req.Content, req.Version, o.historyTopK)
	if err != nil {
		return nil, err
	}

	var previous, older *models.DocumentRevision
	if len(history) > 0 {
		previous = history[0]
	}
	if len(history) > 1 {
		older = history[1]
	}

	system, user := o.prompts.BuildDocumentAnalysisPrompt(FeedbackContext{
		JobTitle:      req.JobTitle,
		DocType:       req.DocType,
		Content:       req.Content,
		Competencies:  models.CompetenciesForTitle(req.JobTitle),
		Previous:      previous,
		Older:         older,
		UserRemarks:   req.UserRemarks,
		CompanyName:   req.CompanyName,
		Company:       company,
		PortfolioKind: req.PortfolioKind,
	})

	result, fingerprint, fromCache, err := o.generate(ctx, system, user)
	if err != nil {
		return nil, err
	}
	if err := o.validateResult(req.DocType, result); err != nil {
		return nil, err
	}
	if !fromCache {
		// Only contract-valid responses are worth memoizing.
		o.cache.Add(fingerprint, result)
	}

	embedText := EmbeddingText(req.DocType, req.Content)
	if req.DocType == models.DocTypePortfolio && strings.TrimSpace(result.Summary) != "" {
		embedText = result.Summary
	}

	embedCtx, cancel := context.WithTimeout(ctx, o.embedTimeout)
	embedding, err := o.embedder.Embed(embedCtx, embedText)
	cancel()
	if err != nil {
		return nil, apperr.Generation(err, "failed to embed committed content")
	}

	content := req.Content
	if req.DocType == models.DocTypePortfolio {
		// The generated summary becomes part of the stored portfolio content.
		// The hash stays over the user-supplied input so identical
		// resubmissions keep identical hashes.
		content = make(models.StructuredContent, len(req.Content)+1)
		for k, v := range req.Content {
			content[k] = v
		}
		content["summary"] = result.Summary
	}

	now := time.Now()
	current := &models.DocumentRevision{
		Owner:               req.Owner,
		JobTitle:            req.JobTitle,
		JobSlug:             jobSlug,
		DocType:             req.DocType,
		Version:             req.Version,
		Content:             content,
		Feedback:            result.OverallFeedback,
		IndividualFeedbacks: result.IndividualFeedbacks,
		Embedding:           embedding,
		ContentHash:         contentHash,
		CompanyName:         req.CompanyName,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if existing, err := o.store.Load(req.Owner, jobSlug, req.DocType, req.Version); err == nil {
		current.CreatedAt = existing.CreatedAt
	}

	if err := o.store.Commit(current); err != nil {
		return nil, err
	}

	next, err := o.store.CloneForward(current)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Committed %s v%d and cloned forward to v%d for %s/%s\n",
		req.DocType, current.Version, next.Version, req.Owner, jobSlug)

	return &SubmitResult{Current: current, Next: next}, nil
}

// SubmitPortfolio implements FeedbackOrchestrator.
func (o *feedbackOrchestrator) SubmitPortfolio(ctx context.Context, owner, jobTitle string,
	input models.PortfolioInput, version int, userRemarks, companyName string) (*SubmitResult, error) {

	if input.Empty() {
		return nil, apperr.Validation("provide either a portfolio PDF or a valid link")
	}

	return o.SubmitRevision(ctx, SubmitRequest{
		Owner:         owner,
		JobTitle:      jobTitle,
		DocType:       models.DocTypePortfolio,
		Content:       input.Content(),
		Version:       version,
		UserRemarks:   userRemarks,
		CompanyName:   companyName,
		PortfolioKind: input.Kind,
	})
}

// Rollback implements FeedbackOrchestrator. It shares the per-chain lock with
// SubmitRevision so a rollback can never race a clone on the same chain.
func (o *feedbackOrchestrator) Rollback(owner, jobSlug string, docType models.DocType, targetVersion int) (*models.RollbackResult, error) {
	o.locks.Lock(owner, jobSlug, docType)
	defer o.locks.Unlock(owner, jobSlug, docType)

	return o.store.Rollback(owner, jobSlug, docType, targetVersion)
}

// LoadDocuments implements FeedbackOrchestrator.
func (o *feedbackOrchestrator) LoadDocuments(owner, jobSlug string) (map[models.DocType][]*models.DocumentRevision, error) {
	loaded := map[models.DocType][]*models.DocumentRevision{}
	for _, docType := range []models.DocType{models.DocTypeResume, models.DocTypeCoverLetter, models.DocTypePortfolio} {
		revisions, skipped, err := o.store.LoadAll(owner, jobSlug, docType)
		if err != nil {
			return nil, err
		}
		for _, skipErr := range skipped {
			log.Printf("⚠️  Skipping corrupt revision while loading documents: %v\n", skipErr)
		}
		if revisions == nil {
			revisions = []*models.DocumentRevision{}
		}
		loaded[docType] = revisions
	}
	return loaded, nil
}

func (o *feedbackOrchestrator) validate(req *SubmitRequest) error {
	if strings.TrimSpace(req.Owner) == "" {
		return apperr.Validation("owner is required")
	}
	if !req.DocType.Valid() {
		return apperr.Validation("unknown doc type %q", req.DocType)
	}
	if req.Version < 1 {
		return apperr.Validation("version must be positive, got %d", req.Version)
	}
	if req.Content == nil {
		return apperr.Validation("content is required")
	}
	if models.TitleForSlug(models.SlugForTitle(req.JobTitle)) == "" {
		return apperr.Validation("unknown job role %q", req.JobTitle)
	}
	return nil
}

// generate calls the external generator under a bounded timeout, consulting
// the prompt-fingerprint cache first.
func (o *feedbackOrchestrator) generate(ctx context.Context, system, user string) (*FeedbackResult, string, bool, error) {
	fingerprint := o.cache.Fingerprint(system, user)
	if cached, ok := o.cache.Get(fingerprint); ok {
		log.Printf("📦 Feedback cache hit (%s)\n", fingerprint[:12])
		return cached, fingerprint, true, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	result, err := o.generator.Generate(genCtx, system, user)
	if err != nil {
		if apperr.IsKind(err, apperr.KindGeneration) {
			return nil, fingerprint, false, err
		}
		return nil, fingerprint, false, apperr.Generation(err, "feedback generation failed")
	}
	if result == nil {
		return nil, fingerprint, false, apperr.Generation(nil, "generator returned no result")
	}

	return result, fingerprint, false, nil
}

// validateResult enforces the generator contract: the individual feedback key
// set must be exactly the doc type's fixed sections, and an unreachable
// portfolio URL is surfaced as a caller error.
func (o *feedbackOrchestrator) validateResult(docType models.DocType, result *FeedbackResult) error {
	if strings.Contains(result.OverallFeedback, inaccessibleMarker) ||
		strings.Contains(result.Summary, inaccessibleMarker) {
		return apperr.Generation(nil, "the portfolio URL could not be accessed").WithStatus(400)
	}

	expected := models.SectionNames(docType)
	if result.IndividualFeedbacks == nil {
		result.IndividualFeedbacks = map[string]string{}
	}
	if len(result.IndividualFeedbacks) != len(expected) {
		return apperr.Generation(nil, "generator returned %d individual feedbacks, want %d",
			len(result.IndividualFeedbacks), len(expected))
	}
	for _, section := range expected {
		if _, ok := result.IndividualFeedbacks[section]; !ok {
			return apperr.Generation(nil, "generator response is missing feedback for section %q", section)
		}
	}
	return nil
}

func (o *feedbackOrchestrator) loadCompanyContext(owner string) *models.CompanyAnalysis {
	if o.companyRepo == nil {
		return nil
	}
	company, err := o.companyRepo.FindByOwner(owner)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			log.Printf("⚠️  Failed to load company analysis for %s: %v\n", owner, err)
		}
		return nil
	}
	return company
}
