package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// AnalysisJob is one queued document submission inside a batch request.
// Jobs over different (owner, job, doc type) keys run concurrently; the
// orchestrator's per-key lock serializes any that collide.
type AnalysisJob struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Owner        string         `gorm:"type:text;not null" json:"owner"`
	JobTitle     string         `gorm:"type:text;not null" json:"job_title"`
	DocType      DocType        `gorm:"type:text;not null" json:"doc_type"`
	Version      int            `gorm:"not null" json:"version"`
	ContentRaw   string         `gorm:"column:content;type:text" json:"-"`
	UserRemarks  string         `gorm:"type:text" json:"user_remarks,omitempty"`
	CompanyName  string         `gorm:"type:text" json:"company_name,omitempty"`
	Status       AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	Feedback     *string        `gorm:"type:text" json:"feedback,omitempty"`
	NextVersion  *int           `json:"next_version,omitempty"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}
