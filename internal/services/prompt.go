package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wntjdus12/jobverse/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// FeedbackContext bundles everything the generator sees for one submission:
// the current draft, the role, up to two relevant prior revisions with their
// feedback, optional company research and the user's note on what changed.
type FeedbackContext struct {
	JobTitle     string
	DocType      models.DocType
	Content      models.StructuredContent
	Competencies []string
	Previous     *models.DocumentRevision
	Older        *models.DocumentRevision
	UserRemarks  string
	CompanyName  string
	Company      *models.CompanyAnalysis

	// Set for portfolio submissions so the prompt can distinguish extracted
	// text from an external link.
	PortfolioKind models.PortfolioInputKind
}

// BuildDocumentAnalysisPrompt creates the system instruction and user prompt
// for document feedback generation.
func (pb *PromptBuilder) BuildDocumentAnalysisPrompt(fc FeedbackContext) (string, string) {
	system := fmt.Sprintf(`You are an expert recruiter for %s positions reviewing a candidate's %s.
Give concrete, actionable feedback that raises the document's chance of passing screening.
Skip pleasantries and start with the substance.
Always respond with a single JSON object of this exact shape:
{
  "summary": "<one-paragraph summary of the document>",
  "overall_feedback": "<overall feedback, 500 characters or fewer>",
  "individual_feedbacks": {%s}
}`, fc.JobTitle, docTypeLabel(fc.DocType), sectionKeySpec(fc.DocType))

	var b strings.Builder

	switch fc.DocType {
	case models.DocTypeResume:
		b.WriteString("--- Current resume (latest version) ---\n")
		for _, section := range models.ResumeSections {
			fmt.Fprintf(&b, "%s: %s\n", section, serializeSection(fc.Content[section]))
		}
		b.WriteString("\n[Feedback request]\n")
		b.WriteString("- Assess how well each section supports an application for the role.\n")
		b.WriteString("- Evaluate structure and impact of education, activities, awards and certificates.\n")
		if len(fc.Competencies) > 0 {
			fmt.Fprintf(&b, "- Rate alignment with the role's core competencies (%s) and suggest how to close gaps.\n",
				strings.Join(fc.Competencies, ", "))
		}

	case models.DocTypeCoverLetter:
		b.WriteString("--- Current cover letter (latest version) ---\n")
		for _, field := range models.CoverLetterFields {
			fmt.Fprintf(&b, "%s: %s\n", coverLetterLabels[field], stringField(fc.Content[field]))
		}
		b.WriteString("\n[Feedback request]\n")
		b.WriteString("- Judge how well each answer addresses its question and the role.\n")
		b.WriteString("- Point out vague or off-topic passages with concrete rewrites.\n")
		b.WriteString("- Comment on overall coherence and logical flow.\n")

	case models.DocTypePortfolio:
		if fc.PortfolioKind == models.PortfolioExternalLink {
			fmt.Fprintf(&b, "Analyze the portfolio published at this URL.\nURL: %s\n", stringField(fc.Content["portfolio_url"]))
		} else {
			fmt.Fprintf(&b, "Analyze this portfolio text extracted from the candidate's PDF.\nText:\n%s\n", stringField(fc.Content["extracted_text"]))
		}
		b.WriteString("\n[Analysis request]\n")
		b.WriteString("- Summarize the key projects, contributions and outcomes in the summary field.\n")
		b.WriteString("- In overall_feedback, assess how each project demonstrates competencies relevant to the role.\n")
		b.WriteString("- Make the tech stack and the candidate's own contribution explicit.\n")
	}

	if history := pb.historyContext(fc); history != "" {
		b.WriteString("\n--- Feedback guidelines ---\n")
		b.WriteString("- Compare the current document against the prior versions below.\n")
		b.WriteString("- Weight the immediately previous version more heavily than the older one.\n")
		b.WriteString("- State specifically what improved and what is still lacking.\n")
		b.WriteString("- If nothing substantive changed, say so plainly and repeat what must improve.\n")
		b.WriteString(history)
	}

	if fc.Company != nil {
		fmt.Fprintf(&b, "\n--- Target company: %s ---\nSummary: %s\nValues: %s\nKey competencies: %s\nTips: %s\n",
			fc.Company.CompanyName, fc.Company.Summary, fc.Company.Values,
			strings.Join(fc.Company.Competencies(), ", "), fc.Company.Tips)
		b.WriteString("Weigh fit with this company's values and expectations in your feedback.\n")
	} else if fc.CompanyName != "" {
		fmt.Fprintf(&b, "\nThe candidate is targeting %s.\n", fc.CompanyName)
	}

	if strings.TrimSpace(fc.UserRemarks) != "" {
		fmt.Fprintf(&b, "\n--- Candidate's note on this revision ---\n%s\n", fc.UserRemarks)
	}

	return system, b.String()
}

func (pb *PromptBuilder) historyContext(fc FeedbackContext) string {
	var b strings.Builder
	if fc.Older != nil {
		fmt.Fprintf(&b, "\n--- Older version (v%d) ---\nContent:\n%s\nFeedback given on that version:\n%s\n",
			fc.Older.Version, formatRevisionContent(fc.Older), fc.Older.Feedback)
	}
	if fc.Previous != nil {
		fmt.Fprintf(&b, "\n--- Previous version (v%d) ---\nContent:\n%s\nFeedback given on that version:\n%s\n",
			fc.Previous.Version, formatRevisionContent(fc.Previous), fc.Previous.Feedback)
	}
	return b.String()
}

// BuildCompanyAnalysisPrompt creates the prompts for researching a target
// company.
func (pb *PromptBuilder) BuildCompanyAnalysisPrompt(companyName string) (string, string) {
	system := `You are a career research assistant who profiles employers for job applicants.
Always respond with a single JSON object of this exact shape:
{
  "summary": "<what the company does and its market position>",
  "values": "<the company's stated culture and values>",
  "competencies": ["<competency the company screens for>", "..."],
  "tips": "<practical advice for applying to this company>"
}`

	user := fmt.Sprintf(`Profile the company %q for a job applicant preparing application documents.
Focus on what the company values in candidates and how applicants should position themselves.`, companyName)

	return system, user
}

func docTypeLabel(docType models.DocType) string {
	switch docType {
	case models.DocTypeResume:
		return "resume"
	case models.DocTypeCoverLetter:
		return "cover letter"
	case models.DocTypePortfolio:
		return "portfolio"
	}
	return string(docType)
}

// sectionKeySpec renders the exact individual_feedbacks keys the generator
// must return for the doc type. Portfolios carry no per-section entries.
func sectionKeySpec(docType models.DocType) string {
	sections := models.SectionNames(docType)
	if len(sections) == 0 {
		return ""
	}
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = fmt.Sprintf("%q: \"<feedback for %s>\"", s, s)
	}
	return strings.Join(parts, ", ")
}

func formatRevisionContent(rev *models.DocumentRevision) string {
	raw, err := json.MarshalIndent(rev.Content, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", rev.Content)
	}
	return string(raw)
}
