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

// JSONGenerator produces a structured JSON document from a prompt pair. The
// Gemini service satisfies it.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, target any) error
}

// CompanyAnalyzer researches a target employer through the LLM and stores the
// result per owner for later feedback runs.
type CompanyAnalyzer interface {
	// Analyze returns the owner's analysis for companyName, reusing the
	// stored record when it already covers that company. The bool reports
	// whether a stored record was reused.
	Analyze(ctx context.Context, owner, companyName string) (*models.CompanyAnalysis, bool, error)
}

type companyAnalyzer struct {
	repo      repositories.CompanyRepository
	generator JSONGenerator
	prompts   *PromptBuilder
	timeout   time.Duration
}

func NewCompanyAnalyzer(repo repositories.CompanyRepository, generator JSONGenerator, timeout time.Duration) CompanyAnalyzer {
	return &companyAnalyzer{
		repo:      repo,
		generator: generator,
		prompts:   NewPromptBuilder(),
		timeout:   timeout,
	}
}

type companyAnalysisPayload struct {
	Summary      string   `json:"summary"`
	Values       string   `json:"values"`
	Competencies []string `json:"competencies"`
	Tips         string   `json:"tips"`
}

// Analyze implements CompanyAnalyzer.
func (a *companyAnalyzer) Analyze(ctx context.Context, owner, companyName string) (*models.CompanyAnalysis, bool, error) {
	companyName = strings.TrimSpace(companyName)
	if owner == "" {
		return nil, false, apperr.Validation("owner is required")
	}
	if companyName == "" {
		return nil, false, apperr.Validation("company name is required")
	}

	existing, err := a.repo.FindByOwner(owner)
	if err == nil && existing.CompanyName == companyName {
		log.Printf("📦 Reusing stored analysis of %s for %s\n", companyName, owner)
		return existing, true, nil
	}
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, false, err
	}

	system, user := a.prompts.BuildCompanyAnalysisPrompt(companyName)

	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var payload companyAnalysisPayload
	if err := a.generator.GenerateJSON(genCtx, system, user, &payload); err != nil {
		return nil, false, err
	}

	analysis := &models.CompanyAnalysis{
		Owner:       owner,
		CompanyName: companyName,
		Summary:     payload.Summary,
		Values:      payload.Values,
		Tips:        payload.Tips,
		CreatedAt:   time.Now(),
	}
	if existing != nil {
		analysis.ID = existing.ID
		analysis.CreatedAt = existing.CreatedAt
	}
	analysis.SetCompetencies(payload.Competencies)

	if err := a.repo.Upsert(analysis); err != nil {
		return nil, false, err
	}
	return analysis, false, nil
}
