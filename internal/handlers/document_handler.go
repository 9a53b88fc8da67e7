package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/services"
)

type DocumentHandler struct {
	orchestrator services.FeedbackOrchestrator
}

func NewDocumentHandler(orchestrator services.FeedbackOrchestrator) *DocumentHandler {
	return &DocumentHandler{orchestrator: orchestrator}
}

// ownerFromCtx returns the owner id the auth middleware resolved.
func ownerFromCtx(c *fiber.Ctx) string {
	owner, _ := c.Locals("owner").(string)
	return owner
}

// HandleAnalyze handles POST /documents/:jobSlug/:docType/analyze
func (h *DocumentHandler) HandleAnalyze(c *fiber.Ctx) error {
	jobSlug := c.Params("jobSlug")
	jobTitle := models.TitleForSlug(jobSlug)
	if jobTitle == "" {
		return apperr.NotFound("unknown job role %q", jobSlug)
	}

	docType := models.DocType(c.Params("docType"))
	if !docType.Valid() {
		return apperr.Validation("unknown doc type %q", docType)
	}

	var req models.AnalyzeDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}

	result, err := h.orchestrator.SubmitRevision(c.Context(), services.SubmitRequest{
		Owner:       ownerFromCtx(c),
		JobTitle:    jobTitle,
		DocType:     docType,
		Content:     req.Content,
		Version:     req.Version,
		UserRemarks: req.UserRemarks,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return err
	}

	return c.JSON(models.AnalyzeDocumentResponse{
		Message:         "Document analyzed and saved successfully",
		CurrentRevision: result.Current,
		NextRevision:    result.Next,
	})
}

// HandleLoadDocuments handles GET /documents/:jobSlug
func (h *DocumentHandler) HandleLoadDocuments(c *fiber.Ctx) error {
	jobSlug := c.Params("jobSlug")
	if models.TitleForSlug(jobSlug) == "" {
		return apperr.NotFound("unknown job role %q", jobSlug)
	}

	loaded, err := h.orchestrator.LoadDocuments(ownerFromCtx(c), jobSlug)
	if err != nil {
		return err
	}
	return c.JSON(loaded)
}

// HandleRollback handles POST /documents/:jobSlug/:docType/rollback
func (h *DocumentHandler) HandleRollback(c *fiber.Ctx) error {
	jobSlug := c.Params("jobSlug")
	if models.TitleForSlug(jobSlug) == "" {
		return apperr.NotFound("unknown job role %q", jobSlug)
	}

	docType := models.DocType(c.Params("docType"))
	if !docType.Valid() {
		return apperr.Validation("unknown doc type %q", docType)
	}

	var req models.RollbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}

	result, err := h.orchestrator.Rollback(ownerFromCtx(c), jobSlug, docType, req.Version)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleJobCatalog handles GET /jobs
func (h *DocumentHandler) HandleJobCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": models.JobCategories,
		"details":    models.JobDetails,
	})
}
