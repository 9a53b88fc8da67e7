package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
)

// CompanyRepository stores each owner's current company analysis. Feedback
// runs treat a missing record as "no company context", never as a failure.
type CompanyRepository interface {
	FindByOwner(owner string) (*models.CompanyAnalysis, error)
	Upsert(analysis *models.CompanyAnalysis) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// FindByOwner implements CompanyRepository.
func (r *companyRepository) FindByOwner(owner string) (*models.CompanyAnalysis, error) {
	var analysis models.CompanyAnalysis
	if err := r.db.Where("owner = ?", owner).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no company analysis for owner %s", owner)
		}
		return nil, fmt.Errorf("failed to find company analysis: %w", err)
	}
	return &analysis, nil
}

// Upsert implements CompanyRepository.
func (r *companyRepository) Upsert(analysis *models.CompanyAnalysis) error {
	analysis.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company_name", "summary", "values", "competencies", "tips", "updated_at",
		}),
	}).Create(analysis).Error
	if err != nil {
		return fmt.Errorf("failed to upsert company analysis: %w", err)
	}
	return nil
}
