package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CompanyAnalysis is the per-owner company research record fed into feedback
// prompts when the user targets a specific employer. One current record per
// owner; analyzing a different company replaces it.
type CompanyAnalysis struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Owner           string    `gorm:"type:text;uniqueIndex;not null" json:"owner"`
	CompanyName     string    `gorm:"type:text;not null" json:"company_name"`
	Summary         string    `gorm:"type:text" json:"summary"`
	Values          string    `gorm:"type:text" json:"values"`
	CompetenciesRaw string    `gorm:"column:competencies;type:text" json:"-"`
	Tips            string    `gorm:"type:text" json:"tips"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CompanyAnalysis) TableName() string {
	return "company_analyses"
}

// Competencies decodes the serialized competency list; a corrupt column just
// yields nil rather than failing a feedback run.
func (c *CompanyAnalysis) Competencies() []string {
	if c.CompetenciesRaw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(c.CompetenciesRaw), &out); err != nil {
		return nil
	}
	return out
}

func (c *CompanyAnalysis) SetCompetencies(list []string) {
	raw, err := json.Marshal(list)
	if err != nil {
		c.CompetenciesRaw = "[]"
		return
	}
	c.CompetenciesRaw = string(raw)
}
