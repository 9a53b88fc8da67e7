package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/services"
)

type PortfolioHandler struct {
	orchestrator services.FeedbackOrchestrator
	storage      services.StorageService
	pdfParser    services.PDFParserService
	maxFileSize  int64
}

func NewPortfolioHandler(
	orchestrator services.FeedbackOrchestrator,
	storage services.StorageService,
	pdfParser services.PDFParserService,
	maxFileSize int64,
) *PortfolioHandler {
	return &PortfolioHandler{
		orchestrator: orchestrator,
		storage:      storage,
		pdfParser:    pdfParser,
		maxFileSize:  maxFileSize,
	}
}

// HandleSummary handles POST /portfolio/summary. The form carries either a
// portfolio_pdf file or a portfolio_link, never both.
func (h *PortfolioHandler) HandleSummary(c *fiber.Ctx) error {
	jobTitle := c.FormValue("job_title")
	if jobTitle == "" {
		return apperr.Validation("job_title is required")
	}

	version := 1
	if v := c.FormValue("version"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return apperr.Validation("version must be a positive integer")
		}
		version = parsed
	}

	userRemarks := c.FormValue("feedback_reflection")
	companyName := c.FormValue("company_name")

	input, err := h.resolveInput(c)
	if err != nil {
		return err
	}

	result, err := h.orchestrator.SubmitPortfolio(c.Context(), ownerFromCtx(c), jobTitle,
		input, version, userRemarks, companyName)
	if err != nil {
		return err
	}

	return c.JSON(models.AnalyzeDocumentResponse{
		Message:         "Portfolio summarized successfully",
		CurrentRevision: result.Current,
		NextRevision:    result.Next,
	})
}

func (h *PortfolioHandler) resolveInput(c *fiber.Ctx) (models.PortfolioInput, error) {
	file, err := c.FormFile("portfolio_pdf")
	if err == nil && file != nil {
		if file.Size > h.maxFileSize {
			return models.PortfolioInput{}, apperr.Validation(
				"file too large, max size is %d bytes", h.maxFileSize)
		}

		filePath, err := h.storage.SavePortfolioPDF(file)
		if err != nil {
			return models.PortfolioInput{}, err
		}
		defer func() {
			if err := h.storage.DeleteFile(filePath); err != nil {
				log.Printf("⚠️  Failed to clean up uploaded portfolio: %v\n", err)
			}
		}()

		text, err := h.pdfParser.ExtractText(filePath)
		if err != nil {
			return models.PortfolioInput{}, err
		}
		return models.NewPortfolioText(text), nil
	}

	if link := c.FormValue("portfolio_link"); link != "" {
		return models.NewPortfolioLink(link), nil
	}

	return models.PortfolioInput{}, apperr.Validation("provide either a portfolio PDF or a valid link")
}
