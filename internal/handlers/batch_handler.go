package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/repositories"
	"github.com/wntjdus12/jobverse/internal/services"
)

type BatchHandler struct {
	jobRepo repositories.AnalysisJobRepository
	worker  services.Worker
}

func NewBatchHandler(jobRepo repositories.AnalysisJobRepository, worker services.Worker) *BatchHandler {
	return &BatchHandler{jobRepo: jobRepo, worker: worker}
}

// HandleBatchAnalyze handles POST /evaluations: enqueue feedback generation
// for several independent documents. Items targeting the same document chain
// are rejected up front since their results would race.
func (h *BatchHandler) HandleBatchAnalyze(c *fiber.Ctx) error {
	var req models.BatchAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	if len(req.Documents) == 0 {
		return apperr.Validation("documents is required")
	}

	owner := ownerFromCtx(c)

	seen := map[string]bool{}
	for _, item := range req.Documents {
		if models.TitleForSlug(models.SlugForTitle(item.JobTitle)) == "" {
			return apperr.Validation("unknown job role %q", item.JobTitle)
		}
		if !item.DocType.Valid() {
			return apperr.Validation("unknown doc type %q", item.DocType)
		}
		if item.Version < 1 {
			return apperr.Validation("version must be positive, got %d", item.Version)
		}
		key := models.SlugForTitle(item.JobTitle) + "/" + string(item.DocType)
		if seen[key] {
			return apperr.Validation("duplicate document %s in batch", key)
		}
		seen[key] = true
	}

	jobIDs := make([]string, 0, len(req.Documents))
	for _, item := range req.Documents {
		contentRaw, err := json.Marshal(item.Content)
		if err != nil {
			return apperr.Validation("content for %s is not JSON-serializable", item.DocType)
		}

		job := &models.AnalysisJob{
			ID:          uuid.New(),
			Owner:       owner,
			JobTitle:    item.JobTitle,
			DocType:     item.DocType,
			Version:     item.Version,
			ContentRaw:  string(contentRaw),
			UserRemarks: item.UserRemarks,
			CompanyName: item.CompanyName,
			Status:      models.StatusQueued,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := h.jobRepo.Create(job); err != nil {
			return err
		}
		h.worker.EnqueueJob(job.ID)
		jobIDs = append(jobIDs, job.ID.String())
	}

	return c.Status(fiber.StatusAccepted).JSON(models.BatchAnalyzeResponse{
		JobIDs: jobIDs,
		Status: string(models.StatusQueued),
	})
}

// HandleGetJob handles GET /evaluations/:id
func (h *BatchHandler) HandleGetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("invalid job id format")
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return err
	}

	if job.Owner != ownerFromCtx(c) {
		return apperr.NotFound("analysis job %s not found", id)
	}

	return c.JSON(models.AnalysisJobResponse{
		ID:           job.ID.String(),
		Status:       string(job.Status),
		Feedback:     job.Feedback,
		NextVersion:  job.NextVersion,
		ErrorMessage: job.ErrorMessage,
	})
}
