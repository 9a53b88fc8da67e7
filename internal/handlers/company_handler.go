package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/services"
)

type CompanyHandler struct {
	analyzer services.CompanyAnalyzer
}

func NewCompanyHandler(analyzer services.CompanyAnalyzer) *CompanyHandler {
	return &CompanyHandler{analyzer: analyzer}
}

// HandleAnalyze handles POST /company/analyze
func (h *CompanyHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	if req.CompanyName == "" {
		return apperr.Validation("company_name is required")
	}

	analysis, reused, err := h.analyzer.Analyze(c.Context(), ownerFromCtx(c), req.CompanyName)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Analysis of %q completed successfully", req.CompanyName)
	if reused {
		message = fmt.Sprintf("Loaded stored analysis of %q", req.CompanyName)
	}

	return c.JSON(models.AnalyzeCompanyResponse{
		Message:         message,
		CompanyAnalysis: analysis,
	})
}
