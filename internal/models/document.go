package models

import (
	"time"
)

// DocType identifies which career document a revision chain belongs to.
type DocType string

const (
	DocTypeResume      DocType = "resume"
	DocTypeCoverLetter DocType = "cover_letter"
	DocTypePortfolio   DocType = "portfolio"
)

func (d DocType) Valid() bool {
	switch d {
	case DocTypeResume, DocTypeCoverLetter, DocTypePortfolio:
		return true
	}
	return false
}

// StructuredContent is the doc-type-specific field set of a revision. Resume
// content carries the education/activities/awards/certificates lists, cover
// letters the five narrative answers, portfolios the extracted text or link
// plus the generated summary.
type StructuredContent = map[string]any

// CoverLetterFields are the five fixed cover-letter questions, in the order
// they are presented to the generator.
var CoverLetterFields = []string{
	"reason_for_application",
	"expertise_experience",
	"collaboration_experience",
	"challenging_goal_experience",
	"growth_process",
}

// ResumeSections are the resume list sections used both as embedding
// projection inputs and as the per-section feedback key set.
var ResumeSections = []string{"education", "activities", "awards", "certificates"}

// SectionNames returns the exact key set the generator must populate in
// individual_feedbacks for the given doc type. Portfolios get a single
// overall feedback and no per-section entries.
func SectionNames(docType DocType) []string {
	switch docType {
	case DocTypeResume:
		return ResumeSections
	case DocTypeCoverLetter:
		return CoverLetterFields
	default:
		return nil
	}
}

// DocumentRevision is one persisted snapshot of a document: its content, the
// generated feedback, the embedding of its content and a hash used to detect
// unchanged submissions. Exactly one record exists per
// (owner, jobSlug, docType, version).
type DocumentRevision struct {
	Owner               string            `json:"owner"`
	JobTitle            string            `json:"job_title"`
	JobSlug             string            `json:"job_slug"`
	DocType             DocType           `json:"doc_type"`
	Version             int               `json:"version"`
	Content             StructuredContent `json:"content"`
	Feedback            string            `json:"feedback"`
	IndividualFeedbacks map[string]string `json:"individual_feedbacks"`
	Embedding           []float32         `json:"embedding"`
	ContentHash         string            `json:"content_hash"`
	CompanyName         string            `json:"company_name,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Clone copies the revision so the forward slot never shares maps with its
// source: later edits to one version must not leak into the other.
func (r *DocumentRevision) Clone() *DocumentRevision {
	c := *r
	c.Content = make(StructuredContent, len(r.Content))
	for k, v := range r.Content {
		c.Content[k] = v
	}
	c.IndividualFeedbacks = make(map[string]string, len(r.IndividualFeedbacks))
	for k, v := range r.IndividualFeedbacks {
		c.IndividualFeedbacks[k] = v
	}
	c.Embedding = append([]float32(nil), r.Embedding...)
	return &c
}

// RollbackResult reports what a rollback removed and where the chain now ends.
type RollbackResult struct {
	DeletedVersions []int             `json:"deleted_versions"`
	LatestVersion   int               `json:"latest_version"`
	LatestRevision  *DocumentRevision `json:"latest_revision"`
}
