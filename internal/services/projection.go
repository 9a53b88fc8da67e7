package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wntjdus12/jobverse/internal/models"
)

// Embedding-text projections: the canonical text each doc type contributes to
// its embedding. The same projection runs when a revision is committed and
// when history candidates need a lazily computed vector, so similarity always
// compares like with like.

var coverLetterLabels = map[string]string{
	"reason_for_application":      "Reason for application",
	"expertise_experience":        "Expertise experience",
	"collaboration_experience":    "Collaboration experience",
	"challenging_goal_experience": "Challenging goal experience",
	"growth_process":              "Growth process",
}

// EmbeddingText derives the text whose embedding represents the given
// content. Portfolios use the generated summary once one exists and fall back
// to the raw extracted text or link before then.
func EmbeddingText(docType models.DocType, content models.StructuredContent) string {
	if content == nil {
		return ""
	}

	switch docType {
	case models.DocTypeResume:
		parts := make([]string, 0, len(models.ResumeSections))
		for _, section := range models.ResumeSections {
			parts = append(parts, serializeSection(content[section]))
		}
		return strings.TrimSpace(strings.Join(parts, " "))

	case models.DocTypeCoverLetter:
		parts := make([]string, 0, len(models.CoverLetterFields))
		for _, field := range models.CoverLetterFields {
			parts = append(parts, fmt.Sprintf("%s: %s", coverLetterLabels[field], stringField(content[field])))
		}
		text := strings.Join(parts, " ")
		if emptyCoverLetter(content) {
			return ""
		}
		return text

	case models.DocTypePortfolio:
		if summary := stringField(content["summary"]); strings.TrimSpace(summary) != "" {
			return summary
		}
		if extracted := stringField(content["extracted_text"]); strings.TrimSpace(extracted) != "" {
			return extracted
		}
		return stringField(content["portfolio_url"])
	}
	return ""
}

func serializeSection(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

func stringField(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func emptyCoverLetter(content models.StructuredContent) bool {
	for _, field := range models.CoverLetterFields {
		if strings.TrimSpace(stringField(content[field])) != "" {
			return false
		}
	}
	return true
}
